package identity

import (
	"context"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// StaticVerifier maps fixed tokens to sessions. It backs the dev backend
// and tests; never use it in production.
type StaticVerifier struct {
	Sessions map[string]domain.Session
}

// NewStaticVerifier creates a verifier from a token-to-session table
func NewStaticVerifier(sessions map[string]domain.Session) *StaticVerifier {
	return &StaticVerifier{Sessions: sessions}
}

// VerifyToken implements domain.TokenVerifier
func (v *StaticVerifier) VerifyToken(_ context.Context, idToken string) (domain.Session, error) {
	session, ok := v.Sessions[idToken]
	if !ok {
		return domain.Session{}, nil
	}
	return session, nil
}

// Package identity adapts the external identity provider to the
// domain.TokenVerifier interface. Credential flows (email/password, OAuth)
// happen against the provider directly; this package only verifies the
// tokens the provider issued.
package identity

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// FirebaseVerifier verifies Firebase Auth ID tokens
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a verifier for the given project.
// credentialsFile may be empty, in which case application default
// credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// VerifyToken implements domain.TokenVerifier.
// A token that fails verification yields an unauthenticated session, not
// an error: the access gate turns that into a login redirect.
func (v *FirebaseVerifier) VerifyToken(ctx context.Context, idToken string) (domain.Session, error) {
	if idToken == "" {
		return domain.Session{}, nil
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		slog.DebugContext(ctx, "Token verification failed", "error", err)
		return domain.Session{}, nil
	}

	user := &domain.User{
		ID:    token.UID,
		Name:  stringClaim(token.Claims, "name"),
		Email: stringClaim(token.Claims, "email"),
		Role:  roleClaim(token.Claims),
	}
	return domain.Session{Authenticated: true, User: user}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// roleClaim reads the custom role claim. Unknown or missing roles fall
// back to the least-privileged role.
func roleClaim(claims map[string]interface{}) domain.Role {
	switch domain.Role(stringClaim(claims, "role")) {
	case domain.RoleAdmin:
		return domain.RoleAdmin
	case domain.RoleManager:
		return domain.RoleManager
	default:
		return domain.RoleCollaborator
	}
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gestorfacil/gestor-backend/internal/domain"
	"github.com/gestorfacil/gestor-backend/internal/usecase/accessgate"
)

type contextKey string

const sessionKey contextKey = "session"

// withSession resolves the bearer token into a session snapshot and stores
// it on the request context. Requests without a token carry an
// unauthenticated session; the gate decides what that means per route.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Verifier.VerifyToken(r.Context(), bearerToken(r))
		if err != nil {
			slog.ErrorContext(r.Context(), "Session resolution failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "identity provider unavailable")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withAccessGate evaluates the permission table for the requested route.
// Login redirects preserve the originally requested route so navigation
// can resume after authentication.
func (s *Server) withAccessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r.Context())

		switch accessgate.Decide(session, r.URL.Path, s.Rules) {
		case accessgate.Allow:
			next.ServeHTTP(w, r)
		case accessgate.RedirectToLogin:
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":    "authentication required",
				"redirect": "/login?from=" + url.QueryEscape(r.URL.Path),
			})
		case accessgate.RedirectToForbidden:
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error":    "access denied",
				"redirect": "/access-denied",
			})
		}
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func sessionFrom(ctx context.Context) domain.Session {
	if session, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return session
	}
	return domain.Session{}
}

// userID returns the authenticated user's id. The gate guarantees handlers
// only run for authenticated sessions.
func userID(r *http.Request) string {
	session := sessionFrom(r.Context())
	if session.User == nil {
		return ""
	}
	return session.User.ID
}

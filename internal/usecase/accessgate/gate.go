// Package accessgate decides whether a requested route may render for the
// caller's current session.
package accessgate

import (
	"github.com/gestorfacil/gestor-backend/internal/domain"
)

// Decision is the outcome of an access check
type Decision int

const (
	// Allow lets the requested view render
	Allow Decision = iota
	// RedirectToLogin sends the caller to the login screen; the originally
	// requested route is preserved by the caller for post-login resume.
	RedirectToLogin
	// RedirectToForbidden sends the caller to the access-denied screen
	RedirectToForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToForbidden:
		return "redirect-to-forbidden"
	default:
		return "unknown"
	}
}

// Decide evaluates the permission table for a route.
//
// Unauthenticated sessions are always redirected to login. A route with no
// governing rule is allowed: absence of a rule is not a denial. When rules
// match the route, access is granted if any of them lists the session's
// effective role. A session without an assigned role is checked as
// collaborator, the least-privileged role.
//
// Pure function of its inputs; evaluated synchronously on every navigation.
func Decide(session domain.Session, route string, rules []domain.PermissionRule) Decision {
	if !session.Authenticated {
		return RedirectToLogin
	}

	role := session.EffectiveRole()
	matched := false
	for _, rule := range rules {
		if rule.Route != route {
			continue
		}
		matched = true
		if rule.Allows(role) {
			return Allow
		}
	}

	if !matched {
		return Allow
	}
	return RedirectToForbidden
}

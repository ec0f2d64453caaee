package domain

// Role represents the access level of an authenticated user
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleCollaborator Role = "collaborator"
)

// User identifies an authenticated account as reported by the identity provider
type User struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Session is the caller's current authentication state. It is produced by
// the identity adapter and consumed read-only; this package never mutates it.
type Session struct {
	Authenticated bool
	User          *User
}

// EffectiveRole returns the role used for permission checks.
// A missing user or an unassigned role defaults to the least-privileged role.
func (s Session) EffectiveRole() Role {
	if s.User == nil || s.User.Role == "" {
		return RoleCollaborator
	}
	return s.User.Role
}

// PermissionRule maps a route to the set of roles allowed to view it.
// Rule tables are static configuration compiled into the deployment.
type PermissionRule struct {
	Route        string
	AllowedRoles []Role
}

// Allows reports whether the rule grants access to the given role
func (r PermissionRule) Allows(role Role) bool {
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

package models

import "strings"

// Role is a user's fixed capability class.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)

// ParseRole normalizes raw input into a Role. The second result is false for unknown roles.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleLecturer
}

// Principal is the authenticated caller, resolved once per request and passed
// explicitly into every core operation.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}

// IsStudent reports whether the principal acts as a student.
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }

// IsLecturer reports whether the principal acts as a lecturer.
func (p Principal) IsLecturer() bool { return p.Role == RoleLecturer }

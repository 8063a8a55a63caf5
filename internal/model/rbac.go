package model

import "strings"

// Role is the organisation-wide role hierarchy, ordered from least to most privileged.
type Role string

const (
	RoleVisitor    Role = "visitor"
	RoleEmployee   Role = "employee"
	RoleLead       Role = "lead"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleRanks = map[Role]int{
	RoleVisitor:    0,
	RoleEmployee:   1,
	RoleLead:       2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// ParseRole returns the role for s and whether it is a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleRanks[r]
	return r, ok
}

// Rank returns the position of r in the hierarchy. Unknown roles rank below visitor.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// IsAdminLike reports whether r has unscoped, organisation-wide visibility.
func (r Role) IsAdminLike() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// HasRoleOrHigher reports whether r is at least min in the hierarchy.
func HasRoleOrHigher(r, min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return r.Rank() >= min.Rank()
}

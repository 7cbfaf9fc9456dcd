package models

import "strings"

// Role is a permission level granted to an admin
type Role string

const (
	RoleViewer          Role = "viewer"
	RoleShippingManager Role = "shipping_manager"
	RoleSuperAdmin      Role = "super_admin"
)

var roleRank = map[Role]int{
	RoleViewer:          1,
	RoleShippingManager: 2,
	RoleSuperAdmin:      3,
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Includes reports whether r grants at least the permissions of other.
func (r Role) Includes(other Role) bool {
	return roleRank[r] >= roleRank[other] && roleRank[other] > 0
}

// RoleTable maps admin emails to their granted roles. It is built once at
// startup and only read afterwards.
type RoleTable struct {
	roles map[string][]Role
}

// NormalizeEmail is the canonical form admin emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewRoleTable builds a RoleTable. Emails differing only in case or
// surrounding space share one entry holding all of their roles.
func NewRoleTable(assignments map[string][]Role) *RoleTable {
	roles := make(map[string][]Role, len(assignments))
	for email, granted := range assignments {
		key := NormalizeEmail(email)
		roles[key] = append(roles[key], granted...)
	}
	return &RoleTable{roles: roles}
}

// RolesFor returns the roles granted to email.
func (t *RoleTable) RolesFor(email string) []Role {
	if t == nil {
		return nil
	}
	return t.roles[NormalizeEmail(email)]
}

// Allows reports whether email holds a role that includes required.
func (t *RoleTable) Allows(email string, required Role) bool {
	for _, r := range t.RolesFor(email) {
		if r.Includes(required) {
			return true
		}
	}
	return false
}

// Len returns the number of admins with role assignments.
func (t *RoleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.roles)
}

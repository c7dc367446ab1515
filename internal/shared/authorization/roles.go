package authorization

import "strings"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"
	RoleClub       UserRole = "club"

	// legacyRoleHall is the former name of the club role; stored rows and old
	// tokens may still carry it.
	legacyRoleHall = "hall"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsTechnician() bool {
	return r == RoleTechnician
}

func (r UserRole) IsClub() bool {
	return r == RoleClub
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleTechnician || r == RoleClub
}

// ParseUserRole normalizes a role string, mapping the legacy "hall" role to club.
// The boolean is false for unknown roles.
func ParseUserRole(s string) (UserRole, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == legacyRoleHall {
		return RoleClub, true
	}
	role := UserRole(s)
	return role, role.IsValid()
}

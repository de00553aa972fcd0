package domain

import mapset "github.com/deckarep/golang-set/v2"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RolePresident Role = "PRESIDENT"
	RoleBoard     Role = "BOARD"
	// RoleMember is any signed-in user without a board role.
	RoleMember Role = ""
)

// Privileged roles run the back office.
func Privileged() mapset.Set[Role] {
	return mapset.NewSet[Role](RoleAdmin, RolePresident, RoleBoard)
}

// Managers may approve mail, delete subscribers and manage users.
func Managers() mapset.Set[Role] {
	return mapset.NewSet[Role](RoleAdmin, RolePresident)
}

func (r Role) IsPrivileged() bool {
	return Privileged().Contains(r)
}

func (r Role) IsManager() bool {
	return Managers().Contains(r)
}

// Normalize maps unknown roles to RoleMember.
func (r Role) Normalize() Role {
	if Privileged().Contains(r) {
		return r
	}
	return RoleMember
}

func (r Role) String() string {
	if r == RoleMember {
		return "MEMBER"
	}
	return string(r)
}

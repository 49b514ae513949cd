// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
)

// # Role Tiers

// Role is the permission tier granted to a shelter account.
//
// Tiers form a total order: basicUser < volunteer < staff < admin. The string
// values are the ones persisted in the profile store and embedded in tokens.
type Role string

const (
	// Default tier for every registered account
	RoleBasicUser Role = "basicUser"

	// Approved volunteers; can see shifts and their own applications
	RoleVolunteer Role = "volunteer"

	// Shelter staff; manage inventory and applications, promote up to volunteer
	RoleStaff Role = "staff"

	// Unrestricted access, including promotion to staff/admin
	RoleAdmin Role = "admin"
)

// ErrUnknownRole is returned by [ParseRole] for values outside the closed set.
var ErrUnknownRole = errors.New("sec: unknown role")

// Roles returns every tier in ascending order.
func Roles() []Role {
	return []Role{RoleBasicUser, RoleVolunteer, RoleStaff, RoleAdmin}
}

// ParseRole validates an external role string.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// # Role Hierarchy

// Valid reports whether r is one of the four known tiers.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.rank() >= target.rank()
}

// Below reports whether r sits strictly under target in the hierarchy.
func (r Role) Below(target Role) bool {
	return r.rank() < target.rank()
}

// Compare returns -1, 0 or +1 following the tier order. Unknown roles sort lowest.
func (r Role) Compare(other Role) int {
	switch a, b := r.rank(), other.rank(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// rank maps a role to its position in the hierarchy; 0 means unknown.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 4
	case RoleStaff:
		return 3
	case RoleVolunteer:
		return 2
	case RoleBasicUser:
		return 1
	default:
		return 0
	}
}

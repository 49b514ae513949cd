// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access holds the authorization gate: pure predicates over profiles.

Every predicate is total. A nil profile or an unknown role is treated as the
least privileged caller, so a failed lookup can never widen access.
*/
package access

import (
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/profile"
)

// # Predicates

// CanViewAdminArea reports whether the actor may open the admin dashboard.
func CanViewAdminArea(actor *profile.Profile) bool {
	return roleOf(actor).AtLeast(sec.RoleStaff)
}

// CanEditAnimalInventory reports whether the actor may create or change animals.
func CanEditAnimalInventory(actor *profile.Profile) bool {
	return roleOf(actor).AtLeast(sec.RoleStaff)
}

// CanApproveApplications reports whether the actor may decide applications.
func CanApproveApplications(actor *profile.Profile) bool {
	return roleOf(actor).AtLeast(sec.RoleStaff)
}

// CanScheduleShifts reports whether the actor may publish volunteer shifts.
func CanScheduleShifts(actor *profile.Profile) bool {
	return roleOf(actor).AtLeast(sec.RoleStaff)
}

/*
CanModifyUserRole reports whether actor may move a target whose role is
currently targetCurrent to desired.

Rules:
  - Admins may set any role on anyone.
  - Staff may only touch basicUser and volunteer accounts, and only assign
    basicUser or volunteer.
  - Everyone else may not change roles.
*/
func CanModifyUserRole(actor *profile.Profile, targetCurrent, desired sec.Role) bool {
	if !desired.Valid() {
		return false
	}

	switch roleOf(actor) {
	case sec.RoleAdmin:
		return true
	case sec.RoleStaff:
		return targetCurrent.Below(sec.RoleStaff) && desired.Below(sec.RoleStaff)
	default:
		return false
	}
}

// roleOf reads the role of a possibly-nil profile; unknown roles stay unknown
// and therefore rank below every real tier.
func roleOf(actor *profile.Profile) sec.Role {
	if actor == nil {
		return ""
	}
	return actor.Role
}

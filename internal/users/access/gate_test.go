// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/access"
	"github.com/taibuivan/shelter/internal/users/profile"
)

func actor(role sec.Role) *profile.Profile {
	return &profile.Profile{ID: "actor", Role: role}
}

/*
TestAreaPredicates verifies the admin area, inventory, application and shift
gates open exactly for staff and admin.
*/
func TestAreaPredicates(t *testing.T) {
	tests := []struct {
		name  string
		actor *profile.Profile
		want  bool
	}{
		{"nil profile", nil, false},
		{"unknown role", actor("superuser"), false},
		{"basic user", actor(sec.RoleBasicUser), false},
		{"volunteer", actor(sec.RoleVolunteer), false},
		{"staff", actor(sec.RoleStaff), true},
		{"admin", actor(sec.RoleAdmin), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanViewAdminArea(tt.actor))
			assert.Equal(t, tt.want, access.CanEditAnimalInventory(tt.actor))
			assert.Equal(t, tt.want, access.CanApproveApplications(tt.actor))
			assert.Equal(t, tt.want, access.CanScheduleShifts(tt.actor))
		})
	}
}

/*
TestCanModifyUserRole_Scenarios covers the documented actor/target/desired
combinations.
*/
func TestCanModifyUserRole_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		actor   *profile.Profile
		target  sec.Role
		desired sec.Role
		want    bool
	}{
		{"staff promotes basic to volunteer", actor(sec.RoleStaff), sec.RoleBasicUser, sec.RoleVolunteer, true},
		{"staff demotes volunteer to basic", actor(sec.RoleStaff), sec.RoleVolunteer, sec.RoleBasicUser, true},
		{"staff promotes basic to admin", actor(sec.RoleStaff), sec.RoleBasicUser, sec.RoleAdmin, false},
		{"staff promotes basic to staff", actor(sec.RoleStaff), sec.RoleBasicUser, sec.RoleStaff, false},
		{"staff demotes staff", actor(sec.RoleStaff), sec.RoleStaff, sec.RoleBasicUser, false},
		{"staff demotes admin", actor(sec.RoleStaff), sec.RoleAdmin, sec.RoleVolunteer, false},
		{"admin demotes staff", actor(sec.RoleAdmin), sec.RoleStaff, sec.RoleBasicUser, true},
		{"admin promotes to admin", actor(sec.RoleAdmin), sec.RoleBasicUser, sec.RoleAdmin, true},
		{"admin with unknown desired", actor(sec.RoleAdmin), sec.RoleBasicUser, "owner", false},
		{"volunteer promotes", actor(sec.RoleVolunteer), sec.RoleBasicUser, sec.RoleVolunteer, false},
		{"basic user promotes self", actor(sec.RoleBasicUser), sec.RoleBasicUser, sec.RoleVolunteer, false},
		{"nil actor", nil, sec.RoleBasicUser, sec.RoleVolunteer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanModifyUserRole(tt.actor, tt.target, tt.desired))
		})
	}
}

/*
TestCanModifyUserRole_StaffNeverTouchesUpperTiers checks every combination:
a staff actor gets false whenever target or desired role is staff or admin.
*/
func TestCanModifyUserRole_StaffNeverTouchesUpperTiers(t *testing.T) {
	staff := actor(sec.RoleStaff)
	for _, target := range sec.Roles() {
		for _, desired := range sec.Roles() {
			upper := target.AtLeast(sec.RoleStaff) || desired.AtLeast(sec.RoleStaff)
			assert.Equal(t, !upper, access.CanModifyUserRole(staff, target, desired), "target=%s desired=%s", target, desired)
		}
	}
}

/*
TestCanModifyUserRole_OnlyStaffAndAdmin verifies actors below staff are always
refused and admins are always allowed for known roles.
*/
func TestCanModifyUserRole_OnlyStaffAndAdmin(t *testing.T) {
	for _, target := range sec.Roles() {
		for _, desired := range sec.Roles() {
			assert.False(t, access.CanModifyUserRole(actor(sec.RoleBasicUser), target, desired))
			assert.False(t, access.CanModifyUserRole(actor(sec.RoleVolunteer), target, desired))
			assert.True(t, access.CanModifyUserRole(actor(sec.RoleAdmin), target, desired))
		}
	}
}

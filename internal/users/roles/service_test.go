// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/profile"
	"github.com/taibuivan/shelter/internal/users/roles"
)

// # Test Doubles

// tokenTable maps opaque test tokens to account ids.
type tokenTable map[string]string

func (table tokenTable) VerifyToken(token string) (*sec.AuthClaims, error) {
	userID, found := table[token]
	if !found {
		return nil, errors.New("invalid token")
	}
	return &sec.AuthClaims{UserID: userID}, nil
}

type memoryClaims struct {
	mu    sync.Mutex
	roles map[string]sec.Role
	fail  error
}

func newMemoryClaims() *memoryClaims {
	return &memoryClaims{roles: make(map[string]sec.Role)}
}

func (claims *memoryClaims) SetRole(_ context.Context, userID string, role sec.Role) error {
	claims.mu.Lock()
	defer claims.mu.Unlock()
	if claims.fail != nil {
		return claims.fail
	}
	claims.roles[userID] = role
	return nil
}

func (claims *memoryClaims) Role(_ context.Context, userID string) (sec.Role, bool, error) {
	claims.mu.Lock()
	defer claims.mu.Unlock()
	role, found := claims.roles[userID]
	return role, found, nil
}

type fixture struct {
	store   *profile.MemoryStore
	claims  *memoryClaims
	service *roles.Service
}

// newFixture seeds one account per tier plus a target, with "<id>-token"
// tokens for each.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := profile.NewMemoryStore()
	tokens := tokenTable{}
	for _, seed := range []profile.Profile{
		{ID: "admin", Role: sec.RoleAdmin},
		{ID: "staff", Role: sec.RoleStaff},
		{ID: "volunteer", Role: sec.RoleVolunteer},
		{ID: "basic", Role: sec.RoleBasicUser},
	} {
		store.Put(&seed)
		tokens[seed.ID+"-token"] = seed.ID
	}
	tokens["orphan-token"] = "orphan"

	claims := newMemoryClaims()
	return &fixture{
		store:   store,
		claims:  claims,
		service: roles.NewService(tokens, store, claims, metrics.Nop{}, slog.New(slog.DiscardHandler)),
	}
}

func statusOf(err error) int {
	if appError := apperr.As(err); appError != nil {
		return appError.HTTPStatus
	}
	return 0
}

// # UpdateRole

/*
TestUpdateRole_Scenarios covers the documented permission scenarios end to end.
*/
func TestUpdateRole_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		actorToken string
		targetRole sec.Role
		desired    sec.Role
		wantStatus int
	}{
		{"staff promotes basic to volunteer", "staff-token", sec.RoleBasicUser, sec.RoleVolunteer, 0},
		{"staff promotes basic to admin", "staff-token", sec.RoleBasicUser, sec.RoleAdmin, http.StatusForbidden},
		{"staff demotes staff", "staff-token", sec.RoleStaff, sec.RoleBasicUser, http.StatusForbidden},
		{"admin demotes staff", "admin-token", sec.RoleStaff, sec.RoleBasicUser, 0},
		{"volunteer promotes basic", "volunteer-token", sec.RoleBasicUser, sec.RoleVolunteer, http.StatusForbidden},
		{"actor without profile", "orphan-token", sec.RoleBasicUser, sec.RoleVolunteer, http.StatusForbidden},
		{"bad token", "forged", sec.RoleBasicUser, sec.RoleVolunteer, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.Put(&profile.Profile{ID: "target", Role: tt.targetRole})

			err := f.service.UpdateRole(context.Background(), tt.actorToken, "target", tt.desired)

			stored, getErr := f.store.Get(context.Background(), "target")
			require.NoError(t, getErr)
			claimRole, claimed, _ := f.claims.Role(context.Background(), "target")

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.desired, stored.Role)
				assert.True(t, claimed)
				assert.Equal(t, tt.desired, claimRole)
				return
			}

			assert.Equal(t, tt.wantStatus, statusOf(err))
			assert.Equal(t, tt.targetRole, stored.Role)
			assert.False(t, claimed)
		})
	}
}

/*
TestUpdateRole_UnknownTarget verifies a missing target is a 404.
*/
func TestUpdateRole_UnknownTarget(t *testing.T) {
	f := newFixture(t)
	err := f.service.UpdateRole(context.Background(), "admin-token", "ghost", sec.RoleStaff)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateRole_Idempotent verifies the same change applied twice succeeds
twice and leaves the same state.
*/
func TestUpdateRole_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.store.Put(&profile.Profile{ID: "target", Name: "T", Role: sec.RoleBasicUser})

	require.NoError(t, f.service.UpdateRole(context.Background(), "staff-token", "target", sec.RoleVolunteer))
	first, _ := f.store.Get(context.Background(), "target")

	require.NoError(t, f.service.UpdateRole(context.Background(), "staff-token", "target", sec.RoleVolunteer))
	second, _ := f.store.Get(context.Background(), "target")

	assert.Equal(t, first, second)
	role, _, _ := f.claims.Role(context.Background(), "target")
	assert.Equal(t, sec.RoleVolunteer, role)
}

/*
TestUpdateRole_ClaimsStale verifies a claims failure after the profile write
is reported with its own code while the profile keeps the new role.
*/
func TestUpdateRole_ClaimsStale(t *testing.T) {
	f := newFixture(t)
	f.store.Put(&profile.Profile{ID: "target", Role: sec.RoleBasicUser})
	f.claims.fail = errors.New("redis down")

	err := f.service.UpdateRole(context.Background(), "admin-token", "target", sec.RoleStaff)

	assert.True(t, apperr.HasCode(err, apperr.CodeClaimsStale))
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))

	stored, _ := f.store.Get(context.Background(), "target")
	assert.Equal(t, sec.RoleStaff, stored.Role)
}

/*
TestUpdateRole_StoreOutage verifies store failures surface as retryable.
*/
func TestUpdateRole_StoreOutage(t *testing.T) {
	f := newFixture(t)
	f.store.Fail(profile.ErrTransient)

	err := f.service.UpdateRole(context.Background(), "admin-token", "target", sec.RoleStaff)
	assert.True(t, apperr.HasCode(err, apperr.CodeTransientStore))
}

// # CallerRole

/*
TestCallerRole verifies the profile role is reported and a missing profile
reads as basicUser.
*/
func TestCallerRole(t *testing.T) {
	f := newFixture(t)

	role, err := f.service.CallerRole(context.Background(), "staff-token")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleStaff, role)

	role, err = f.service.CallerRole(context.Background(), "orphan-token")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleBasicUser, role)

	_, err = f.service.CallerRole(context.Background(), "forged")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

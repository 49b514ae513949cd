// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/profile"
)

const bootstrapEmail = "owner@shelter.example"

func newResolver(store profile.Store, bootstrap string) *profile.Resolver {
	return profile.NewResolver(store, bootstrap, slog.New(slog.DiscardHandler))
}

/*
TestResolve_CreatesBasicUser verifies first sight creates a basicUser profile
carrying the account's name and email.
*/
func TestResolve_CreatesBasicUser(t *testing.T) {
	store := profile.NewMemoryStore()
	resolver := newResolver(store, bootstrapEmail)

	got, err := resolver.Resolve(context.Background(), profile.Account{ID: "u-1", Email: "ann@x.org", DisplayName: "Ann"})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleBasicUser, got.Role)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@x.org", got.Email)

	stored, err := store.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

/*
TestResolve_NameFallsBackToEmail verifies accounts without a display name get
the local part of their email.
*/
func TestResolve_NameFallsBackToEmail(t *testing.T) {
	resolver := newResolver(profile.NewMemoryStore(), "")

	got, err := resolver.Resolve(context.Background(), profile.Account{ID: "u-1", Email: "ben@x.org"})
	require.NoError(t, err)
	assert.Equal(t, "ben", got.Name)
}

/*
TestResolve_Bootstrap covers promotion of the bootstrap address from every
starting state, including a first sign-in.
*/
func TestResolve_Bootstrap(t *testing.T) {
	tests := []struct {
		name     string
		existing *profile.Profile
		email    string
	}{
		{"first sign-in", nil, bootstrapEmail},
		{"existing basic user", &profile.Profile{ID: "u-1", Name: "Owner", Email: bootstrapEmail, Role: sec.RoleBasicUser}, bootstrapEmail},
		{"existing staff", &profile.Profile{ID: "u-1", Name: "Owner", Email: bootstrapEmail, Role: sec.RoleStaff}, bootstrapEmail},
		{"already admin", &profile.Profile{ID: "u-1", Name: "Owner", Email: bootstrapEmail, Role: sec.RoleAdmin}, bootstrapEmail},
		{"case and whitespace", nil, "  OWNER@Shelter.Example "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := profile.NewMemoryStore()
			if tt.existing != nil {
				store.Put(tt.existing)
			}

			got, err := newResolver(store, bootstrapEmail).Resolve(context.Background(), profile.Account{ID: "u-1", Email: tt.email, DisplayName: "Owner"})
			require.NoError(t, err)

			assert.Equal(t, sec.RoleAdmin, got.Role)
			assert.Equal(t, "Owner", got.Name)

			stored, err := store.Get(context.Background(), "u-1")
			require.NoError(t, err)
			assert.Equal(t, sec.RoleAdmin, stored.Role)
		})
	}
}

/*
TestResolve_NeverChangesOtherRoles verifies a non-bootstrap account keeps
whatever role it already has.
*/
func TestResolve_NeverChangesOtherRoles(t *testing.T) {
	for _, role := range sec.Roles() {
		t.Run(role.String(), func(t *testing.T) {
			store := profile.NewMemoryStore()
			store.Put(&profile.Profile{ID: "u-1", Name: "Cy", Email: "cy@x.org", Role: role})

			got, err := newResolver(store, bootstrapEmail).Resolve(context.Background(), profile.Account{ID: "u-1", Email: "cy@x.org"})
			require.NoError(t, err)
			assert.Equal(t, role, got.Role)
		})
	}
}

/*
TestResolve_DisabledBootstrap verifies an empty bootstrap address promotes no one.
*/
func TestResolve_DisabledBootstrap(t *testing.T) {
	got, err := newResolver(profile.NewMemoryStore(), "  ").Resolve(context.Background(), profile.Account{ID: "u-1", Email: ""})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleBasicUser, got.Role)
}

/*
TestResolve_StoreFailure verifies a failed read surfaces as a transient error
instead of a defaulted profile.
*/
func TestResolve_StoreFailure(t *testing.T) {
	store := profile.NewMemoryStore()
	store.Fail(profile.ErrTransient)

	got, err := newResolver(store, bootstrapEmail).Resolve(context.Background(), profile.Account{ID: "u-1", Email: "a@x.org"})
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, profile.ErrTransient))
}

/*
TestResolve_ConcurrentCreatorsConverge verifies parallel first sign-ins end in
a single profile with one role.
*/
func TestResolve_ConcurrentCreatorsConverge(t *testing.T) {
	for _, email := range []string{"dee@x.org", bootstrapEmail} {
		t.Run(email, func(t *testing.T) {
			store := profile.NewMemoryStore()
			resolver := newResolver(store, bootstrapEmail)
			account := profile.Account{ID: "u-1", Email: email, DisplayName: "Dee"}

			var wg sync.WaitGroup
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := resolver.Resolve(context.Background(), account)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			profiles, err := store.List(context.Background())
			require.NoError(t, err)
			require.Len(t, profiles, 1)

			final, err := resolver.Resolve(context.Background(), account)
			require.NoError(t, err)
			assert.Equal(t, profiles[0].Role, final.Role)
			assert.Equal(t, "Dee", final.Name)
		})
	}
}

// lateWriteStore misses on Get while a role update lands before the create.
type lateWriteStore struct {
	*profile.MemoryStore
	role sec.Role
}

func (store *lateWriteStore) Get(context context.Context, id string) (*profile.Profile, error) {
	store.Put(&profile.Profile{ID: id, Name: "Dee", Role: store.role})
	return nil, profile.ErrNotFound
}

/*
TestResolve_CreateKeepsConcurrentRole verifies the create path never resets a
role written between the lookup and the create.
*/
func TestResolve_CreateKeepsConcurrentRole(t *testing.T) {
	store := &lateWriteStore{MemoryStore: profile.NewMemoryStore(), role: sec.RoleStaff}
	resolver := newResolver(store, "")

	got, err := resolver.Resolve(context.Background(), profile.Account{ID: "u-1", Email: "dee@x.org"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleStaff, got.Role)

	stored, err := store.MemoryStore.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleStaff, stored.Role)
	assert.Equal(t, "dee@x.org", stored.Email)
}

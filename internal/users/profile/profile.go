// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile owns the shelter's per-account profile records.

A profile is the authoritative source of an account's role. Tokens carry a
role claim too, but every access decision reads the profile.

# Components
  - [Store]: persistence contract plus a live change stream per profile.
  - [Resolver]: get-or-create with bootstrap-admin promotion.
  - [Service] and [Handler]: the /me and admin listing endpoints.
*/
package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/taibuivan/shelter/internal/platform/sec"
)

// # Errors

var (
	// ErrNotFound is returned when no profile exists for the requested id.
	ErrNotFound = errors.New("profile: not found")

	// ErrPermissionRevoked is delivered on a stream once the viewer lost read
	// access, typically right after sign-out. Observers treat it as benign.
	ErrPermissionRevoked = errors.New("profile: permission revoked")

	// ErrTransient wraps any other store failure (network, timeout, decode).
	ErrTransient = errors.New("profile: store unavailable")
)

// # Domain Entities

// Profile is the per-account record that carries the authoritative role.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      sec.Role  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns an independent copy; nil stays nil.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Fields is a partial profile write. Nil members are left untouched.
type Fields struct {
	Name  *string
	Email *string
	Role  *sec.Role
}

// Snapshot is one observation on a profile stream.
//
// Exactly one of the cases holds: Err is set, or Profile carries the current
// record, or both are nil meaning the record does not exist (yet).
type Snapshot struct {
	Profile *Profile
	Err     error
}

// Account is the identity the authentication provider hands over.
type Account struct {
	ID          string
	Email       string
	DisplayName string
}

// defaultName picks the name a freshly created profile starts with.
func (account Account) defaultName() string {
	if name := strings.TrimSpace(account.DisplayName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(account.Email, "@")
	return local
}

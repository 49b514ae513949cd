// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth is the shelter's authentication provider.

It owns credentials (email + bcrypt hash in Postgres), RS256 access tokens
and rotating refresh tokens (Redis). Roles are not stored here: every token
is minted from the account's profile, and the role claim is mirrored into
the claims store so both stay in step.

# Components
  - [Service]: Register, Login, Refresh, Logout, IssueAccessToken.
  - Repositories: [AccountRepository] (Postgres), [RefreshTokenRepository] (Redis).
  - [Handler]: the /auth HTTP endpoints.
*/
package auth

import (
	"time"

	"github.com/taibuivan/shelter/internal/users/profile"
)

// # Domain Entities

// Account is a registered sign-in identity.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity converts the account into the shape the profile resolver takes.
func (account *Account) Identity() profile.Account {
	return profile.Account{ID: account.ID, Email: account.Email, DisplayName: account.DisplayName}
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "displayName"
	FieldAccessToken = "accessToken"
	FieldTokenType   = "tokenType"
	FieldExpiresIn   = "expiresIn"
	FieldAccount     = "account"
	FieldProfile     = "profile"
)

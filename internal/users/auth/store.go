// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for sign-in identities.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email, compared
		case-insensitively.

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict on a duplicate email, or persistence failures
	*/
	Create(context context.Context, account *Account) error
}

// # Refresh Token Data Access

// RefreshTokenRepository stores refresh tokens by hash with an expiry.
type RefreshTokenRepository interface {
	Set(context context.Context, tokenHash, userID string, ttl time.Duration) error

	// Get returns the owning user id, or apperr.NotFound once expired or revoked.
	Get(context context.Context, tokenHash string) (string, error)

	Delete(context context.Context, tokenHash string) error
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Role changes reach a token through refresh or reissue, not expiry.
	AccessTokenTTL = 1 * time.Hour

	// RefreshTokenTTL is the duration a refresh token remains valid.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// MinPasswordLength matches the provider rule the web client was built against.
	MinPasswordLength = 6

	// ClaimsSettleAttempts and ClaimsSettleDelay bound how long a reissue waits
	// for a role claim to catch up with the profile.
	ClaimsSettleAttempts = 3
	ClaimsSettleDelay    = 50 * time.Millisecond
)

// # Refresh Cookie

const (
	RefreshTokenCookieName = "shelter_refresh"
	RefreshTokenCookiePath = "/api/v1/auth"
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/sec"
)

func newTestTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKey(key, issuer)
}

/*
TestTokenService_RoundTrip issues a token and verifies its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, "shelter.test")

	token, err := service.GenerateAccessToken("acc-1", "a@example.com", sec.RoleStaff, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "acc-1", claims.Subject)
}

/*
TestTokenService_Rejects covers expired, foreign and malformed tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTestTokenService(t, "shelter.test")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("acc-1", "a@example.com", sec.RoleAdmin, -time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_key", func(t *testing.T) {
		other := newTestTokenService(t, "shelter.test")
		token, err := other.GenerateAccessToken("acc-1", "a@example.com", sec.RoleAdmin, time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		other := newTestTokenService(t, "elsewhere")
		token, err := other.GenerateAccessToken("acc-1", "a@example.com", sec.RoleAdmin, time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-jwt")
		assert.Error(t, err)
	})
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/constants"
)

// RedisRefreshTokenRepository implements [RefreshTokenRepository] using Redis.
// Expiry is delegated to the key TTL.
type RedisRefreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository creates a new Redis-backed RefreshTokenRepository.
func NewRefreshTokenRepository(client *redis.Client) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

/*
Set stores a refresh token hash with its owner and TTL.

Parameters:
  - context: context.Context
  - tokenHash: string (sha256 of the raw token)
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisRefreshTokenRepository) Set(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, refreshKey(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the owner of a refresh token.

Description: Returns apperr.NotFound if the token is absent or expired.
*/
func (repository *RedisRefreshTokenRepository) Get(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.Get(context, refreshKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Refresh token")
		}
		return "", fmt.Errorf("redis_refresh_token_get_failed: %w", err)
	}
	return userID, nil
}

// Delete revokes a refresh token. Deleting a missing token is not an error.
func (repository *RedisRefreshTokenRepository) Delete(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, refreshKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_delete_failed: %w", err)
	}
	return nil
}

func refreshKey(tokenHash string) string {
	return constants.RedisPrefixRefreshToken + tokenHash
}

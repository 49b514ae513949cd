// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/shelter/internal/platform/constants"
	"github.com/taibuivan/shelter/internal/platform/sec"
)

// claimRole is the hash field holding the role claim.
const claimRole = "role"

// ClaimsStore holds the custom authorization claims embedded in newly issued
// access tokens.
type ClaimsStore interface {
	SetRole(context context.Context, userID string, role sec.Role) error

	// Role returns the stored role claim; found is false when none was set.
	Role(context context.Context, userID string) (role sec.Role, found bool, err error)
}

// RedisClaimsStore implements [ClaimsStore] as one Redis hash per account.
type RedisClaimsStore struct {
	client *redis.Client
}

// NewRedisClaimsStore creates a Redis-backed claims store.
func NewRedisClaimsStore(client *redis.Client) *RedisClaimsStore {
	return &RedisClaimsStore{client: client}
}

/*
SetRole overwrites the role claim of an account.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - error: Connectivity errors
*/
func (repository *RedisClaimsStore) SetRole(context context.Context, userID string, role sec.Role) error {
	if err := repository.client.HSet(context, claimsKey(userID), claimRole, string(role)).Err(); err != nil {
		return fmt.Errorf("redis_claims_set_failed: %w", err)
	}
	return nil
}

/*
Role reads the role claim of an account.

Description: Claims that no longer parse as a known role are reported as
absent so token issuance falls back to the profile.
*/
func (repository *RedisClaimsStore) Role(context context.Context, userID string) (sec.Role, bool, error) {
	raw, err := repository.client.HGet(context, claimsKey(userID), claimRole).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_claims_get_failed: %w", err)
	}

	role, err := sec.ParseRole(raw)
	if err != nil {
		return "", false, nil
	}
	return role, true, nil
}

func claimsKey(userID string) string {
	return constants.RedisPrefixClaims + userID
}

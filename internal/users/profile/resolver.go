// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/shelter/internal/platform/sec"
)

// # Role Resolution

// Resolver turns an authenticated account into its profile, creating the
// profile on first sight and promoting the bootstrap administrator.
type Resolver struct {
	store          Store
	bootstrapEmail string
	logger         *slog.Logger
}

// NewResolver builds a resolver. An empty bootstrapEmail disables promotion.
func NewResolver(store Store, bootstrapEmail string, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:          store,
		bootstrapEmail: strings.TrimSpace(bootstrapEmail),
		logger:         logger,
	}
}

/*
Resolve returns the profile for account.

Description:
 1. Read the profile.
 2. If absent, merge-create it as basicUser with the account's name and email.
 3. If the account is the bootstrap administrator and not yet admin, overwrite
    the role to admin and return the promoted record.

Store failures are returned as errors wrapping [ErrTransient]; the resolver
never substitutes a default role for a failed read.

Parameters:
  - context: context.Context
  - account: Account (the signed-in identity)

Returns:
  - *Profile: The resolved, possibly just created or promoted, profile
  - error: [ErrTransient] family
*/
func (resolver *Resolver) Resolve(context context.Context, account Account) (*Profile, error) {
	current, err := resolver.store.Get(context, account.ID)

	// 1. First sight: create; the store defaults new records to basicUser and
	// a role written since the Get above is left alone
	if errors.Is(err, ErrNotFound) {
		name, email := account.defaultName(), account.Email
		current, err = resolver.store.MergeSet(context, account.ID, Fields{Name: &name, Email: &email})
		if err != nil {
			return nil, fmt.Errorf("profile_resolve_create_failed: %w", err)
		}
		resolver.logger.InfoContext(context, "profile_created", slog.String("profile_id", account.ID))
	} else if err != nil {
		return nil, fmt.Errorf("profile_resolve_get_failed: %w", err)
	}

	// 2. Bootstrap administrator
	if resolver.IsBootstrap(account.Email) && current.Role != sec.RoleAdmin {
		admin := sec.RoleAdmin
		promoted, err := resolver.store.Update(context, account.ID, Fields{Role: &admin})
		if err != nil {
			return nil, fmt.Errorf("profile_resolve_bootstrap_failed: %w", err)
		}
		resolver.logger.WarnContext(context, "profile_bootstrap_promoted",
			slog.String("profile_id", account.ID),
			slog.String("from_role", current.Role.String()),
		)
		return promoted, nil
	}

	return current, nil
}

// IsBootstrap reports whether email is the configured bootstrap administrator.
func (resolver *Resolver) IsBootstrap(email string) bool {
	return resolver.bootstrapEmail != "" && strings.EqualFold(strings.TrimSpace(email), resolver.bootstrapEmail)
}

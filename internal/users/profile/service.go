// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/validate"
)

const maxNameLength = 120

// # Service Layer

// Service exposes the caller's own profile to the HTTP layer.
type Service struct {
	store    Store
	resolver *Resolver
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, resolver *Resolver, logger *slog.Logger) *Service {
	return &Service{store: store, resolver: resolver, logger: logger}
}

// Me resolves the caller's profile, creating or promoting it as needed.
func (service *Service) Me(context context.Context, account Account) (*Profile, error) {
	profile, err := service.resolver.Resolve(context, account)
	if err != nil {
		return nil, ToAppError(err)
	}
	return profile, nil
}

// Rename changes the display name on the caller's own profile.
func (service *Service) Rename(context context.Context, id, name string) (*Profile, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required("name", name).MaxLen("name", name, maxNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	profile, err := service.store.Update(context, id, Fields{Name: &name})
	if err != nil {
		return nil, ToAppError(err)
	}

	service.logger.InfoContext(context, "profile_renamed", slog.String("profile_id", id))
	return profile, nil
}

// # Error Mapping

// ToAppError converts store sentinels into the API error taxonomy.
// Errors that already carry an [apperr.AppError] pass through.
func ToAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.IsAppError(err):
		return err
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Profile")
	case errors.Is(err, ErrTransient):
		return apperr.Transient(err)
	default:
		return err
	}
}

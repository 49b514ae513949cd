// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package roles implements privileged role changes and the admin user surface.

A role change is a two-step write: the profile first (authoritative), then
the token claims. When only the first step lands the caller receives a
distinct CLAIMS_STALE error; the claims catch up on the next sign-in.
*/
package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/access"
	"github.com/taibuivan/shelter/internal/users/profile"
)

// TokenVerifier validates a bearer credential.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// # Service Layer

// Service performs authorized role changes.
type Service struct {
	verifier TokenVerifier
	profiles profile.Store
	claims   ClaimsStore
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	verifier TokenVerifier,
	profiles profile.Store,
	claims ClaimsStore,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		verifier: verifier,
		profiles: profiles,
		claims:   claims,
		recorder: recorder,
		logger:   logger,
	}
}

/*
UpdateRole moves the target account to desired on behalf of the token holder.

Description:
 1. Verify the actor's credential.
 2. Load the actor's profile (absent means least privilege).
 3. Load the target's profile.
 4. Apply [access.CanModifyUserRole].
 5. Write the profile role, then the claims role.

Calling it twice with the same arguments leaves the same state and succeeds
both times.

Parameters:
  - context: context.Context
  - actorToken: string (bearer access token)
  - targetID: string (account id)
  - desired: sec.Role (already parsed at the boundary)

Returns:
  - error: Unauthorized, NotFound, Forbidden, Transient or ClaimsStale
*/
func (service *Service) UpdateRole(context context.Context, actorToken, targetID string, desired sec.Role) error {

	// 1. Authentication
	claims, err := service.verifier.VerifyToken(actorToken)
	if err != nil {
		service.recorder.RecordRoleUpdate(metrics.OutcomeDenied)
		return apperr.Unauthorized("Invalid or expired token")
	}

	// 2. Actor
	actor, err := service.profiles.Get(context, claims.UserID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		service.recorder.RecordRoleUpdate(metrics.OutcomeError)
		return profile.ToAppError(err)
	}

	// 3. Target
	target, err := service.profiles.Get(context, targetID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			service.recorder.RecordRoleUpdate(metrics.OutcomeDenied)
			return apperr.NotFound("Target user")
		}
		service.recorder.RecordRoleUpdate(metrics.OutcomeError)
		return profile.ToAppError(err)
	}

	// 4. Authorization
	if !access.CanModifyUserRole(actor, target.Role, desired) {
		service.recorder.RecordRoleUpdate(metrics.OutcomeDenied)
		service.logger.WarnContext(context, "role_update_denied",
			slog.String("actor_id", claims.UserID),
			slog.String("target_id", targetID),
			slog.String("target_role", target.Role.String()),
			slog.String("desired_role", desired.String()),
		)
		return forbiddenFor(actor, target.Role, desired)
	}

	// 5a. Profile write (authoritative)
	if _, err := service.profiles.Update(context, targetID, profile.Fields{Role: &desired}); err != nil {
		service.recorder.RecordRoleUpdate(metrics.OutcomeError)
		return profile.ToAppError(err)
	}

	// 5b. Claims write
	if err := service.claims.SetRole(context, targetID, desired); err != nil {
		service.recorder.RecordRoleUpdate(metrics.OutcomeClaimsStale)
		service.logger.ErrorContext(context, "role_update_claims_stale",
			slog.String("target_id", targetID),
			slog.String("role", desired.String()),
			slog.Any("error", err),
		)
		return apperr.ClaimsStale(fmt.Errorf("role_claims_write_failed: %w", err))
	}

	service.recorder.RecordRoleUpdate(metrics.OutcomeOK)
	service.logger.InfoContext(context, "role_updated",
		slog.String("actor_id", claims.UserID),
		slog.String("target_id", targetID),
		slog.String("from_role", target.Role.String()),
		slog.String("to_role", desired.String()),
	)
	return nil
}

/*
CallerRole returns the role stored on the token holder's profile.

Description: An account without a profile reads as basicUser, the tier the
resolver would create it with.
*/
func (service *Service) CallerRole(context context.Context, actorToken string) (sec.Role, error) {
	claims, err := service.verifier.VerifyToken(actorToken)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired token")
	}

	actor, err := service.profiles.Get(context, claims.UserID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return sec.RoleBasicUser, nil
	case err != nil:
		return "", profile.ToAppError(err)
	default:
		return actor.Role, nil
	}
}

// ListUsers returns every profile for the admin dashboard.
func (service *Service) ListUsers(context context.Context) ([]*profile.Profile, error) {
	profiles, err := service.profiles.List(context)
	if err != nil {
		return nil, profile.ToAppError(err)
	}
	return profiles, nil
}

// forbiddenFor picks the denial message that matches the rule that failed.
func forbiddenFor(actor *profile.Profile, targetCurrent, desired sec.Role) error {
	if actor == nil || actor.Role.Below(sec.RoleStaff) {
		return apperr.Forbidden("Forbidden: Insufficient permissions")
	}
	if targetCurrent.AtLeast(sec.RoleStaff) {
		return apperr.Forbidden("Forbidden: Staff cannot modify other staff or admins")
	}
	return apperr.Forbidden("Forbidden: Staff cannot promote users to staff or admin")
}

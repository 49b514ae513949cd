// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/platform/validate"
	"github.com/taibuivan/shelter/internal/users/profile"
	"github.com/taibuivan/shelter/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email string, role sec.Role, timeToLive time.Duration) (string, error)
}

// ProfileResolver maps an account onto its profile, creating or promoting it.
type ProfileResolver interface {
	Resolve(context context.Context, account profile.Account) (*profile.Profile, error)
}

// ClaimsStore holds the role claim embedded in issued access tokens.
type ClaimsStore interface {
	SetRole(context context.Context, userID string, role sec.Role) error
	Role(context context.Context, userID string) (role sec.Role, found bool, err error)
}

// Revoker tells live subscribers of an account that its session ended.
type Revoker interface {
	Revoke(context context.Context, userID string) error
}

// Service implements the sign-in use cases.
type Service struct {
	accounts      AccountRepository
	refreshTokens RefreshTokenRepository
	tokens        TokenProvider
	resolver      ProfileResolver
	claims        ClaimsStore
	revoker       Revoker
	logger        *slog.Logger
	now           func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accounts AccountRepository,
	refreshTokens RefreshTokenRepository,
	tokens TokenProvider,
	resolver ProfileResolver,
	claims ClaimsStore,
	revoker Revoker,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:      accounts,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		resolver:      resolver,
		claims:        claims,
		revoker:       revoker,
		logger:        logger,
		now:           time.Now,
	}
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Account               *Account
	Profile               *profile.Profile
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes and persists a new account, then signs it in.

Description: The profile is created through the resolver in the same call, so
a bootstrap address is promoted on its very first sign-up.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *LoginSession: Tokens, account and profile
  - error: Validation, Conflict or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*LoginSession, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldDisplayName, input.DisplayName, 120)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Generic message; the unique index is the real guard against races.
	if _, err := service.accounts.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PasswordHash: hashedPassword,
	}
	if err := service.accounts.Create(context, account); err != nil {
		return nil, err
	}

	return service.establish(context, account)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates credentials and issues tokens.

Description: The role placed in the access token is read from the resolved
profile, never from the claims store; the claims are rewritten to match.

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: Unauthorized, Transient or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.establish(context, account)
}

/*
Logout revokes the refresh token and ends live sessions of the account.

Description: Idempotent. A missing token is not an error and revocation
failures are logged, since the client is signed out either way.
*/
func (service *Service) Logout(context context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := service.refreshTokens.Delete(context, sec.HashToken(refreshToken)); err != nil {
			return fmt.Errorf("auth_service_logout_failed: %w", err)
		}
	}

	if userID != "" {
		if err := service.revoker.Revoke(context, userID); err != nil {
			service.logger.WarnContext(context, "auth_logout_revoke_failed",
				slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	return nil
}

// # Session Management

/*
Refresh implements refresh token rotation.

Description: The presented token is deleted before a new pair is issued, so a
replayed token fails. The new access token carries the current profile role.

Returns:
  - *LoginSession: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)

	userID, err := service.refreshTokens.Get(context, tokenHash)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	if err := service.refreshTokens.Delete(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	account, err := service.accounts.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return service.establish(context, account)
}

/*
IssueAccessToken mints a fresh access token for an account without touching
its refresh token. Live sessions call it when the role changes.

Description: The role comes from the stored claims, so a claims write that
failed after a role change (CLAIMS_STALE) keeps the old tier in reissued
tokens until the next sign-in heals it. Without a readable claim the
profile role is used.
*/
func (service *Service) IssueAccessToken(context context.Context, userID string) (string, error) {
	account, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return "", err
	}

	resolved, err := service.resolver.Resolve(context, account.Identity())
	if err != nil {
		return "", profile.ToAppError(err)
	}

	return service.accessToken(account, service.claimedRole(context, account.ID, resolved.Role))
}

// # Helpers

// establish resolves the profile, heals the claims and issues a token pair.
func (service *Service) establish(context context.Context, account *Account) (*LoginSession, error) {
	resolved, err := service.resolver.Resolve(context, account.Identity())
	if err != nil {
		return nil, profile.ToAppError(err)
	}

	if err := service.claims.SetRole(context, account.ID, resolved.Role); err != nil {
		service.logger.WarnContext(context, "auth_claims_sync_failed",
			slog.String("user_id", account.ID), slog.Any("error", err))
	}

	accessToken, err := service.accessToken(account, resolved.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.refreshTokens.Set(context, sec.HashToken(refreshToken), account.ID, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: service.now().Add(RefreshTokenTTL),
		Account:               account,
		Profile:               resolved,
	}, nil
}

// claimedRole returns the stored role claim, or fallback when none can be read.
// A role update writes the profile before the claim, so a claim that disagrees
// with the profile is re-read a few times before it is trusted.
func (service *Service) claimedRole(context context.Context, userID string, fallback sec.Role) sec.Role {
	for attempt := 1; ; attempt++ {
		role, found, err := service.claims.Role(context, userID)
		if err != nil {
			service.logger.WarnContext(context, "auth_claims_read_failed",
				slog.String("user_id", userID), slog.Any("error", err))
			return fallback
		}
		if !found {
			return fallback
		}
		if role == fallback || attempt >= ClaimsSettleAttempts {
			return role
		}

		select {
		case <-context.Done():
			return role
		case <-time.After(ClaimsSettleDelay):
		}
	}
}

func (service *Service) accessToken(account *Account, role sec.Role) (string, error) {
	token, err := service.tokens.GenerateAccessToken(account.ID, account.Email, role, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return token, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/ctxutil"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/users/profile"
)

type actorKey struct{}

// ProfileReader is the slice of [profile.Store] the gate middleware needs.
type ProfileReader interface {
	Get(context context.Context, id string) (*profile.Profile, error)
}

/*
Require admits a request only when predicate holds for the caller's stored
profile. The token's role claim is ignored; the profile is authoritative.

Must be registered AFTER Authenticate. Anonymous callers get 401, callers
without a profile or with an insufficient role get 403, store failures 503.
The loaded profile is available to handlers through [Actor].
*/
func Require(reader ProfileReader, predicate func(*profile.Profile) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			actor, err := reader.Get(request.Context(), claims.UserID)
			if err != nil && !errors.Is(err, profile.ErrNotFound) {
				respond.Error(writer, request, profile.ToAppError(err))
				return
			}

			if !predicate(actor) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			ctx := context.WithValue(request.Context(), actorKey{}, actor)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Actor returns the profile loaded by [Require], or nil outside a gated route.
func Actor(ctx context.Context) *profile.Profile {
	actor, _ := ctx.Value(actorKey{}).(*profile.Profile)
	return actor
}

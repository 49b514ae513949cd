// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
)

// Handler implements the HTTP layer for the caller's own profile.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] with the /me endpoints. Mount behind RequireAuth.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.getMe)
	router.Patch("/", handler.updateMe)
	return router
}

/*
GET /api/v1/me.

Description: Resolves the caller's profile. The first call after sign-up
creates it; the bootstrap administrator is promoted here.

Response:
  - 200: Profile
  - 401: ErrUnauthorized
  - 503: TRANSIENT_STORE
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Me(request.Context(), Account{ID: claims.UserID, Email: claims.Email})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

type updateMeRequest struct {
	Name string `json:"name"`
}

/*
PATCH /api/v1/me.

Description: Updates the caller's display name. Role is not editable here.

Response:
  - 200: Profile
  - 400: Validation
  - 404: Profile does not exist yet
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Rename(request.Context(), userID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/platform/sec"
	"github.com/taibuivan/shelter/internal/users/access"
)

// Handler implements the admin HTTP surface.
type Handler struct {
	roleService *Service
	profiles    access.ProfileReader
}

// NewHandler constructs a new roles [Handler].
func NewHandler(service *Service, profiles access.ProfileReader) *Handler {
	return &Handler{roleService: service, profiles: profiles}
}

// Routes returns a [chi.Router] with the /admin endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Token-checked by the service itself
	router.Post("/update-role", handler.updateRole)
	router.Post("/verify-role", handler.verifyRole)

	// Dashboard
	router.With(access.Require(handler.profiles, access.CanViewAdminArea)).Get("/users", handler.listUsers)

	return router
}

type updateRoleRequest struct {
	TargetUID string `json:"targetUid"`
	NewRole   string `json:"newRole"`
}

/*
POST /api/v1/admin/update-role.

Request:
  - header: Authorization: Bearer <token>
  - body: {targetUid, newRole}

Response:
  - 200: {message}
  - 400: Missing fields or unknown role
  - 401: Missing or invalid token
  - 403: Gate refused the change
  - 404: Unknown target
  - 500: CLAIMS_STALE or unexpected failure
  - 503: TRANSIENT_STORE
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	token := ctxutil.GetBearerToken(request.Context())
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.TargetUID = strings.TrimSpace(input.TargetUID)
	if input.TargetUID == "" || input.NewRole == "" {
		respond.Error(writer, request, apperr.BadRequest("Missing required fields"))
		return
	}

	desired, err := sec.ParseRole(input.NewRole)
	if err != nil {
		respond.Error(writer, request, apperr.BadRequest("Invalid role"))
		return
	}

	if err := handler.roleService.UpdateRole(request.Context(), token, input.TargetUID, desired); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, fmt.Sprintf("User role updated to %s and custom claims set.", desired))
}

/*
POST /api/v1/admin/verify-role.

Response:
  - 200: {role}
  - 401: Missing or invalid token
*/
func (handler *Handler) verifyRole(writer http.ResponseWriter, request *http.Request) {
	token := ctxutil.GetBearerToken(request.Context())
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	role, err := handler.roleService.CallerRole(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"role": role.String()})
}

/*
GET /api/v1/admin/users.

Response:
  - 200: []Profile
  - 403: Caller below staff
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.roleService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profiles)
}

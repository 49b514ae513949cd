// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package application

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shelter/internal/platform/middleware"
	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/users/access"
	"github.com/taibuivan/shelter/pkg/pagination"
)

// Handler exposes applications over HTTP.
type Handler struct {
	service  *Service
	profiles access.ProfileReader
}

func NewHandler(service *Service, profiles access.ProfileReader) *Handler {
	return &Handler{service: service, profiles: profiles}
}

// Routes returns the application endpoints.
//
// # Endpoints
//   - POST /{kind}          : Submit an adoption, foster or volunteer form.
//   - GET  /mine            : The caller's own applications (?kind=).
//   - GET  /                : All applications of ?kind= (reviewers).
//   - PUT  /{id}/decision   : Approve or reject (reviewers).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{kind}", handler.submit)
		r.Get("/mine", handler.mine)
	})

	router.Group(func(r chi.Router) {
		r.Use(access.Require(handler.profiles, access.CanApproveApplications))
		r.Get("/", handler.list)
		r.Put("/{id}/decision", handler.decide)
	})

	return router
}

type submitRequest struct {
	AnimalID       string `json:"animalId"`
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
	Details
}

/*
Submit stores a new application for the caller.

POST /api/v1/applications/{kind}

Response:
  - 201: Application (status pending)
  - 400: Validation failure
  - 404: Animal not found
  - 409: Animal no longer available
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	application, err := handler.service.Submit(request.Context(), userID, SubmitInput{
		Kind:           Kind(requestutil.Param(request, "kind")),
		AnimalID:       input.AnimalID,
		ApplicantName:  input.ApplicantName,
		ApplicantEmail: input.ApplicantEmail,
		Details:        input.Details,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, application)
}

func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	applications, err := handler.service.Mine(request.Context(), userID, Kind(request.URL.Query().Get("kind")))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, applications)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	kind := Kind(request.URL.Query().Get("kind"))

	applications, total, err := handler.service.List(request.Context(), kind, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, applications, pagination.NewMeta(params.Page, params.Limit, total))
}

type decisionRequest struct {
	Status Status `json:"status"`
}

/*
Decide approves or rejects a pending application.

PUT /api/v1/applications/{id}/decision

Response:
  - 200: Application
  - 400: Status is not approved or rejected
  - 404: Application not found
  - 409: Already decided
*/
func (handler *Handler) decide(writer http.ResponseWriter, request *http.Request) {
	var input decisionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewer := access.Actor(request.Context())
	application, err := handler.service.Decide(request.Context(), reviewer.ID, requestutil.Param(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, application)
}

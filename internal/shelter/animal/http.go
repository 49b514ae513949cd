// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package animal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/users/access"
	"github.com/taibuivan/shelter/pkg/pagination"
)

// Handler exposes the inventory over HTTP.
type Handler struct {
	service  *Service
	profiles access.ProfileReader
}

func NewHandler(service *Service, profiles access.ProfileReader) *Handler {
	return &Handler{service: service, profiles: profiles}
}

// Routes mounts public reads and the staff-only writes.
//
// # Endpoints
//   - GET   /             : Paginated listing, ?type= and ?status= filters.
//   - GET   /{id}         : One animal.
//   - POST  /             : Create (inventory editors).
//   - PATCH /{id}         : Edit (inventory editors).
//   - PUT   /{id}/status  : Change placement status (inventory editors).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(access.Require(handler.profiles, access.CanEditAnimalInventory))
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Put("/{id}/status", handler.setStatus)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		Type:   Type(request.URL.Query().Get("type")),
		Status: Status(request.URL.Query().Get("status")),
	}

	animals, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, animals, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	animal, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, animal)
}

type createRequest struct {
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	Breed       string   `json:"breed"`
	Age         string   `json:"age"`
	Gender      Gender   `json:"gender"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

/*
Create adds an animal to the inventory.

POST /api/v1/animals

Response:
  - 201: Animal
  - 400: Validation failure
  - 401/403: Caller may not edit the inventory
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	animal, err := handler.service.Create(request.Context(), Animal{
		Name:        input.Name,
		Type:        input.Type,
		Breed:       input.Breed,
		Age:         input.Age,
		Gender:      input.Gender,
		Description: input.Description,
		Image:       input.Image,
		Tags:        input.Tags,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, animal)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	animal, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, animal)
}

type statusRequest struct {
	Status Status `json:"status"`
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetStatus(request.Context(), requestutil.Param(request, "id"), input.Status); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shift

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/users/access"
)

type Handler struct {
	service  *Service
	profiles access.ProfileReader
}

func NewHandler(service *Service, profiles access.ProfileReader) *Handler {
	return &Handler{service: service, profiles: profiles}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(access.Require(handler.profiles, access.CanScheduleShifts)).Post("/", handler.create)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	shifts, err := handler.service.Upcoming(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, shifts)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Shift
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bio

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/shelter/internal/platform/request"
	"github.com/taibuivan/shelter/internal/platform/respond"
	"github.com/taibuivan/shelter/internal/platform/validate"
	"github.com/taibuivan/shelter/internal/shelter/animal"
)

// AnimalFinder loads the animal a bio is written for.
type AnimalFinder interface {
	Get(context context.Context, id string) (*animal.Animal, error)
}

type Handler struct {
	generator *Generator
	animals   AnimalFinder
}

func NewHandler(generator *Generator, animals AnimalFinder) *Handler {
	return &Handler{generator: generator, animals: animals}
}

// Routes mounts GET /bio/{animalId} and POST /advice.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/bio/{animalId}", handler.bio)
	router.Post("/advice", handler.advice)
	return router
}

func (handler *Handler) bio(writer http.ResponseWriter, request *http.Request) {
	subject, err := handler.animals.Get(request.Context(), requestutil.Param(request, "animalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"bio": handler.generator.Bio(request.Context(), subject)})
}

type adviceRequest struct {
	PetType   string `json:"petType"`
	Lifestyle string `json:"lifestyle"`
}

func (handler *Handler) advice(writer http.ResponseWriter, request *http.Request) {
	var input adviceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.PetType = strings.TrimSpace(input.PetType)
	input.Lifestyle = strings.TrimSpace(input.Lifestyle)

	validator := &validate.Validator{}
	validator.Required("petType", input.PetType).MaxLen("petType", input.PetType, 60).
		Required("lifestyle", input.Lifestyle).MaxLen("lifestyle", input.Lifestyle, 200)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"advice": handler.generator.Advice(request.Context(), input.PetType, input.Lifestyle),
	})
}

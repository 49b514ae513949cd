// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package animal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/shelter/internal/platform/validate"
	"github.com/taibuivan/shelter/pkg/uuid"
)

const maxNameLength = 80

// Service implements the inventory use cases. Callers are gated at the route.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns a page of animals matching the filter.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Animal, int, error) {
	validator := &validate.Validator{}
	if filter.Type != "" {
		validator.OneOf(FieldType, string(filter.Type), string(TypeDog), string(TypeCat))
	}
	if filter.Status != "" {
		validator.OneOf(FieldStatus, string(filter.Status), statusNames()...)
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Animal, error) {
	return service.repo.FindByID(context, id)
}

/*
Create validates and stores a new animal. New arrivals are always available.

Returns:
  - *Animal: Stored entity
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, animal Animal) (*Animal, error) {
	animal.Name = strings.TrimSpace(animal.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, animal.Name).
		MaxLen(FieldName, animal.Name, maxNameLength).
		OneOf(FieldType, string(animal.Type), string(TypeDog), string(TypeCat)).
		OneOf(FieldGender, string(animal.Gender), string(GenderMale), string(GenderFemale))
	if animal.Image != "" {
		validator.URL(FieldImage, animal.Image)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	animal.ID = uuid.New()
	animal.Status = StatusAvailable
	if animal.Tags == nil {
		animal.Tags = []string{}
	}

	if err := service.repo.Create(context, &animal); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "animal_created",
		slog.String("animal_id", animal.ID), slog.String("type", string(animal.Type)))
	return &animal, nil
}

// Update validates the supplied fields and applies them.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Animal, error) {
	validator := &validate.Validator{}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
		validator.Required(FieldName, trimmed).MaxLen(FieldName, trimmed, maxNameLength)
	}
	if patch.Gender != nil {
		validator.OneOf(FieldGender, string(*patch.Gender), string(GenderMale), string(GenderFemale))
	}
	if patch.Image != nil && *patch.Image != "" {
		validator.URL(FieldImage, *patch.Image)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.Update(context, id, patch)
}

// SetStatus moves an animal between available, fostered and adopted.
func (service *Service) SetStatus(context context.Context, id string, status Status) error {
	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(status), statusNames()...)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.SetStatus(context, id, status); err != nil {
		return err
	}

	service.logger.InfoContext(context, "animal_status_changed",
		slog.String("animal_id", id), slog.String("status", string(status)))
	return nil
}

func statusNames() []string {
	return []string{string(StatusAvailable), string(StatusFostered), string(StatusAdopted)}
}

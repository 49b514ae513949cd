// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package application

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/validate"
	"github.com/taibuivan/shelter/internal/shelter/animal"
	"github.com/taibuivan/shelter/pkg/uuid"
)

const (
	maxNameLength = 120
	maxTextLength = 4000
)

// AnimalFinder is the slice of the inventory an application needs.
type AnimalFinder interface {
	FindByID(context context.Context, id string) (*animal.Animal, error)
}

// Service implements the application use cases.
type Service struct {
	repo    Repository
	animals AnimalFinder
	policy  *bluemonday.Policy
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		policy:  bluemonday.StrictPolicy(),
		logger:  logger,
		now:     time.Now,
	}
}

// SubmitInput is what an applicant fills in.
type SubmitInput struct {
	Kind           Kind
	AnimalID       string
	ApplicantName  string
	ApplicantEmail string
	Details        Details
}

/*
Submit validates, sanitises and stores a new pending application.

Description: Adoption and foster forms must name an animal that is still
available. Volunteer forms never carry an animal.

Parameters:
  - context: context.Context
  - userID: string (the signed-in applicant)
  - input: SubmitInput

Returns:
  - *Application: Stored application
  - error: Validation, NotFound (animal), Conflict (animal placed) or storage errors
*/
func (service *Service) Submit(context context.Context, userID string, input SubmitInput) (*Application, error) {
	input = service.sanitize(input)

	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	if input.Kind != KindVolunteer {
		target, err := service.animals.FindByID(context, input.AnimalID)
		if err != nil {
			return nil, err
		}
		if target.Status != animal.StatusAvailable {
			return nil, apperr.Conflict("Animal is no longer available")
		}
	} else {
		input.AnimalID = ""
	}

	application := &Application{
		ID:             uuid.New(),
		Kind:           input.Kind,
		UserID:         userID,
		AnimalID:       input.AnimalID,
		ApplicantName:  input.ApplicantName,
		ApplicantEmail: input.ApplicantEmail,
		Details:        input.Details,
		Status:         StatusPending,
	}
	if err := service.repo.Create(context, application); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "application_submitted",
		slog.String("application_id", application.ID), slog.String("kind", string(application.Kind)))
	return application, nil
}

// List returns a page of applications of one kind for reviewers.
func (service *Service) List(context context.Context, kind Kind, limit, offset int) ([]*Application, int, error) {
	if err := validateKind(kind); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, kind, limit, offset)
}

// Mine returns the caller's own applications; an empty kind returns all of them.
func (service *Service) Mine(context context.Context, userID string, kind Kind) ([]*Application, error) {
	if kind != "" {
		if err := validateKind(kind); err != nil {
			return nil, err
		}
	}
	return service.repo.ListByUser(context, userID, kind)
}

/*
Decide approves or rejects a pending application.

Description: Approving an adoption marks the animal adopted and approving a
foster marks it fostered, committed together with the decision.
*/
func (service *Service) Decide(context context.Context, reviewerID, id string, status Status) (*Application, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(status), string(StatusApproved), string(StatusRejected))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	decision := Decision{
		ID:        id,
		Status:    status,
		DecidedBy: reviewerID,
		DecidedAt: service.now().UTC(),
	}
	if status == StatusApproved {
		decision.AnimalStatus = placementFor(current.Kind)
	}

	decided, err := service.repo.Decide(context, decision)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "application_decided",
		slog.String("application_id", id),
		slog.String("status", string(status)),
		slog.String("reviewer_id", reviewerID),
	)
	return decided, nil
}

// # Helpers

// placementFor maps an approved kind to the animal status it implies.
func placementFor(kind Kind) animal.Status {
	switch kind {
	case KindAdoption:
		return animal.StatusAdopted
	case KindFoster:
		return animal.StatusFostered
	default:
		return ""
	}
}

func (service *Service) sanitize(input SubmitInput) SubmitInput {
	clean := func(value string) string {
		return strings.TrimSpace(html.UnescapeString(service.policy.Sanitize(value)))
	}

	input.AnimalID = strings.TrimSpace(input.AnimalID)
	input.ApplicantName = strings.TrimSpace(input.ApplicantName)
	input.ApplicantEmail = strings.TrimSpace(input.ApplicantEmail)
	input.Details.HomeType = clean(input.Details.HomeType)
	input.Details.Reason = clean(input.Details.Reason)
	input.Details.Address = clean(input.Details.Address)
	input.Details.City = clean(input.Details.City)
	input.Details.State = clean(input.Details.State)
	input.Details.Zip = strings.TrimSpace(input.Details.Zip)
	input.Details.FosterDuration = clean(input.Details.FosterDuration)
	input.Details.Experience = clean(input.Details.Experience)
	return input
}

func validateKind(kind Kind) error {
	validator := &validate.Validator{}
	validator.OneOf(FieldKind, string(kind), string(KindAdoption), string(KindFoster), string(KindVolunteer))
	return validator.Err()
}

func validateSubmission(input SubmitInput) error {
	if err := validateKind(input.Kind); err != nil {
		return err
	}

	details := input.Details
	validator := &validate.Validator{}
	validator.Required(FieldApplicantName, input.ApplicantName).
		MaxLen(FieldApplicantName, input.ApplicantName, maxNameLength).
		Required(FieldApplicantEmail, input.ApplicantEmail).
		Email(FieldApplicantEmail, input.ApplicantEmail).
		MaxLen(FieldReason, details.Reason, maxTextLength)

	switch input.Kind {
	case KindAdoption:
		validator.Required(FieldAnimalID, input.AnimalID).
			Required(FieldHomeType, details.HomeType).
			Required(FieldReason, details.Reason)
	case KindFoster:
		validator.Required(FieldAnimalID, input.AnimalID).
			Required(FieldAddress, details.Address).
			Required(FieldCity, details.City).
			Required(FieldState, details.State).
			Zip(FieldZip, details.Zip).
			Required(FieldFosterDuration, details.FosterDuration)
	case KindVolunteer:
		validator.Required(FieldReason, details.Reason)
	}

	return validator.Err()
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shift

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/shelter/internal/platform/validate"
	"github.com/taibuivan/shelter/pkg/uuid"
)

const dateLayout = time.DateOnly

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Upcoming lists shifts from today onwards.
func (service *Service) Upcoming(context context.Context) ([]*Shift, error) {
	return service.repo.List(context, service.now().UTC().Format(dateLayout))
}

// Create validates and stores a shift.
func (service *Service) Create(context context.Context, shift Shift) (*Shift, error) {
	shift.Title = strings.TrimSpace(shift.Title)
	shift.Time = strings.TrimSpace(shift.Time)

	_, dateErr := time.Parse(dateLayout, shift.Date)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, shift.Title).
		MaxLen(FieldTitle, shift.Title, 120).
		Custom(FieldDate, dateErr != nil, "Must be a date in YYYY-MM-DD format").
		Required(FieldTime, shift.Time).
		Range(FieldSlots, shift.Slots, 1, 500)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	shift.ID = uuid.New()
	if err := service.repo.Create(context, &shift); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "shift_created",
		slog.String("shift_id", shift.ID), slog.String("date", shift.Date))
	return &shift, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/shelter/animal"
)

// MemoryRepository is an in-process [Repository] for tests and local runs.
// Decisions update the paired animal repository under the same lock.
type MemoryRepository struct {
	mu           sync.Mutex
	applications map[string]*Application
	animals      animal.Repository
}

func NewMemoryRepository(animals animal.Repository) *MemoryRepository {
	return &MemoryRepository{applications: make(map[string]*Application), animals: animals}
}

func (repository *MemoryRepository) Create(_ context.Context, application *Application) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if application.SubmittedAt.IsZero() {
		application.SubmittedAt = time.Now()
	}
	copied := *application
	repository.applications[application.ID] = &copied
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Application, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	application, found := repository.applications[id]
	if !found {
		return nil, apperr.NotFound("Application")
	}
	copied := *application
	return &copied, nil
}

func (repository *MemoryRepository) List(_ context.Context, kind Kind, limit, offset int) ([]*Application, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := repository.filterLocked(func(application *Application) bool { return application.Kind == kind })
	total := len(matched)
	if offset >= total {
		return []*Application{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository *MemoryRepository) ListByUser(_ context.Context, userID string, kind Kind) ([]*Application, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return repository.filterLocked(func(application *Application) bool {
		return application.UserID == userID && (kind == "" || application.Kind == kind)
	}), nil
}

func (repository *MemoryRepository) Decide(context context.Context, decision Decision) (*Application, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	application, found := repository.applications[decision.ID]
	if !found {
		return nil, apperr.NotFound("Application")
	}
	if application.Status != StatusPending {
		return nil, apperr.Conflict("Application has already been decided")
	}

	if decision.AnimalStatus != "" && application.AnimalID != "" {
		if err := repository.animals.SetStatus(context, application.AnimalID, decision.AnimalStatus); err != nil {
			return nil, err
		}
	}

	decidedAt, decidedBy := decision.DecidedAt, decision.DecidedBy
	application.Status = decision.Status
	application.DecidedAt = &decidedAt
	application.DecidedBy = &decidedBy

	copied := *application
	return &copied, nil
}

func (repository *MemoryRepository) filterLocked(keep func(*Application) bool) []*Application {
	matched := make([]*Application, 0)
	for _, application := range repository.applications {
		if keep(application) {
			copied := *application
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SubmittedAt.Equal(matched[j].SubmittedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})
	return matched
}

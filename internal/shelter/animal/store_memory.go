// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package animal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/shelter/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] for tests and local runs.
type MemoryRepository struct {
	mu      sync.Mutex
	animals map[string]*Animal
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{animals: make(map[string]*Animal)}
}

func (repository *MemoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Animal, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := make([]*Animal, 0, len(repository.animals))
	for _, animal := range repository.animals {
		if filter.Type != "" && animal.Type != filter.Type {
			continue
		}
		if filter.Status != "" && animal.Status != filter.Status {
			continue
		}
		matched = append(matched, clone(animal))
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []*Animal{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Animal, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	animal, found := repository.animals[id]
	if !found {
		return nil, apperr.NotFound("Animal")
	}
	return clone(animal), nil
}

func (repository *MemoryRepository) Create(_ context.Context, animal *Animal) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.animals[animal.ID]; exists {
		return apperr.Conflict("Animal already exists")
	}
	if animal.CreatedAt.IsZero() {
		animal.CreatedAt = time.Now()
	}
	repository.animals[animal.ID] = clone(animal)
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, id string, patch Patch) (*Animal, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	animal, found := repository.animals[id]
	if !found {
		return nil, apperr.NotFound("Animal")
	}

	assign(&animal.Name, patch.Name)
	assign(&animal.Breed, patch.Breed)
	assign(&animal.Age, patch.Age)
	assign(&animal.Gender, patch.Gender)
	assign(&animal.Description, patch.Description)
	assign(&animal.Image, patch.Image)
	assign(&animal.Tags, patch.Tags)

	return clone(animal), nil
}

func (repository *MemoryRepository) SetStatus(_ context.Context, id string, status Status) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	animal, found := repository.animals[id]
	if !found {
		return apperr.NotFound("Animal")
	}
	animal.Status = status
	return nil
}

func assign[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

func clone(animal *Animal) *Animal {
	copied := *animal
	copied.Tags = append([]string(nil), animal.Tags...)
	return &copied
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package animal

import "context"

// # Animal Data Access

// Repository defines the data access contract for the inventory.
type Repository interface {

	/*
		List returns a filtered, paginated slice of animals and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Animal: Matching animals, newest first
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Animal, int, error)

	// FindByID returns apperr.NotFound when the animal does not exist.
	FindByID(context context.Context, id string) (*Animal, error)

	Create(context context.Context, animal *Animal) error

	// Update applies a patch and returns the stored result.
	Update(context context.Context, id string, patch Patch) (*Animal, error)

	SetStatus(context context.Context, id string, status Status) error
}

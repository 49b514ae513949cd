// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package application

import "context"

// # Application Data Access

// Repository defines the data access contract for applications.
type Repository interface {
	Create(context context.Context, application *Application) error

	FindByID(context context.Context, id string) (*Application, error)

	/*
		List returns a page of applications of one kind, newest first.

		Returns:
		  - []*Application: Page of applications
		  - int: Total count for the kind
		  - error: Database retrieval failures
	*/
	List(context context.Context, kind Kind, limit, offset int) ([]*Application, int, error)

	// ListByUser returns every application of an account; an empty kind matches all.
	ListByUser(context context.Context, userID string, kind Kind) ([]*Application, error)

	/*
		Decide applies a decision to a pending application.

		Returns:
		  - *Application: The decided application
		  - error: apperr.NotFound, apperr.Conflict when already decided, or storage failures
	*/
	Decide(context context.Context, decision Decision) (*Application, error)
}

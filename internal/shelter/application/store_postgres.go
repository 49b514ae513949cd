// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/platform/database/schema"
	"github.com/taibuivan/shelter/internal/platform/dberr"
	"github.com/taibuivan/shelter/internal/shelter/animal"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for applications.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns reads animal_id as '' when NULL so the entity keeps a plain string.
var selectColumns = fmt.Sprintf("%s, %s, %s, COALESCE(%s, ''), %s, %s, %s, %s, %s, %s, %s",
	schema.ShelterApplication.ID, schema.ShelterApplication.Kind, schema.ShelterApplication.UserID,
	schema.ShelterApplication.AnimalID, schema.ShelterApplication.ApplicantName,
	schema.ShelterApplication.ApplicantEmail, schema.ShelterApplication.Details,
	schema.ShelterApplication.Status, schema.ShelterApplication.SubmittedAt,
	schema.ShelterApplication.DecidedAt, schema.ShelterApplication.DecidedBy,
)

/*
Create inserts a pending application. The submission time is the database's.
*/
func (repository *PostgresRepository) Create(context context.Context, application *Application) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING %s`,
		schema.ShelterApplication.Table,
		schema.ShelterApplication.ID, schema.ShelterApplication.Kind, schema.ShelterApplication.UserID,
		schema.ShelterApplication.AnimalID, schema.ShelterApplication.ApplicantName,
		schema.ShelterApplication.ApplicantEmail, schema.ShelterApplication.Details,
		schema.ShelterApplication.Status,
		schema.ShelterApplication.SubmittedAt,
	)

	err := repository.pool.QueryRow(context, query,
		application.ID, application.Kind, application.UserID, application.AnimalID,
		application.ApplicantName, application.ApplicantEmail, application.Details, application.Status,
	).Scan(&application.SubmittedAt)
	if err != nil {
		return dberr.Wrap(err, "Application", "postgres_application_create")
	}
	return nil
}

// FindByID retrieves a single application.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.ShelterApplication.Table, schema.ShelterApplication.ID)

	application, err := scanApplication(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Application", "postgres_application_find_by_id")
	}
	return application, nil
}

// List returns a page of one kind with its total count.
func (repository *PostgresRepository) List(context context.Context, kind Kind, limit, offset int) ([]*Application, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		selectColumns, schema.ShelterApplication.Table,
		schema.ShelterApplication.Kind, schema.ShelterApplication.SubmittedAt,
	)

	rows, err := repository.pool.Query(context, query, kind, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Application", "postgres_application_list")
	}
	defer rows.Close()

	applications := make([]*Application, 0)
	total := 0
	for rows.Next() {
		application := &Application{}
		if err := rows.Scan(append(applicationTargets(application), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "Application", "postgres_application_scan")
		}
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Application", "postgres_application_list")
	}
	return applications, total, nil
}

// ListByUser returns an account's own applications, newest first.
func (repository *PostgresRepository) ListByUser(context context.Context, userID string, kind Kind) ([]*Application, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND ($2 = '' OR %s = $2)
		ORDER BY %s DESC`,
		selectColumns, schema.ShelterApplication.Table,
		schema.ShelterApplication.UserID, schema.ShelterApplication.Kind,
		schema.ShelterApplication.SubmittedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, string(kind))
	if err != nil {
		return nil, dberr.Wrap(err, "Application", "postgres_application_list_by_user")
	}
	defer rows.Close()

	applications := make([]*Application, 0)
	for rows.Next() {
		application := &Application{}
		if err := rows.Scan(applicationTargets(application)...); err != nil {
			return nil, dberr.Wrap(err, "Application", "postgres_application_scan")
		}
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Application", "postgres_application_list_by_user")
	}
	return applications, nil
}

/*
Decide updates a pending application and, for approvals that place an animal,
the animal's status, inside one transaction.

Description: The pending guard lives in the WHERE clause, so two reviewers
racing on the same application cannot both win.
*/
func (repository *PostgresRepository) Decide(context context.Context, decision Decision) (*Application, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "Application", "postgres_application_decide_begin")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1 AND %s = '%s'
		RETURNING %s`,
		schema.ShelterApplication.Table,
		schema.ShelterApplication.Status, schema.ShelterApplication.DecidedAt, schema.ShelterApplication.DecidedBy,
		schema.ShelterApplication.ID, schema.ShelterApplication.Status, StatusPending,
		selectColumns,
	)

	application, err := scanApplication(transaction.QueryRow(context, query,
		decision.ID, decision.Status, decision.DecidedAt, decision.DecidedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either missing or already decided; tell them apart for the caller.
		if _, findErr := repository.FindByID(context, decision.ID); findErr != nil {
			return nil, findErr
		}
		return nil, apperr.Conflict("Application has already been decided")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Application", "postgres_application_decide")
	}

	if decision.AnimalStatus != "" && application.AnimalID != "" {
		if err := animal.SetStatusTx(context, transaction, application.AnimalID, decision.AnimalStatus); err != nil {
			return nil, err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "Application", "postgres_application_decide_commit")
	}
	return application, nil
}

// # Helpers

func applicationTargets(application *Application) []any {
	return []any{
		&application.ID, &application.Kind, &application.UserID, &application.AnimalID,
		&application.ApplicantName, &application.ApplicantEmail, &application.Details,
		&application.Status, &application.SubmittedAt, &application.DecidedAt, &application.DecidedBy,
	}
}

func scanApplication(row pgx.Row) (*Application, error) {
	application := &Application{}
	if err := row.Scan(applicationTargets(application)...); err != nil {
		return nil, err
	}
	return application, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelter/internal/platform/database/schema"
	"github.com/taibuivan/shelter/internal/platform/sec"
)

// # Repository Implementation

// PostgresStore implements [Store] with records in PostgreSQL and live
// updates through a [ChangeFeed].
//
// Writes publish the resulting state after the statement succeeds. A failed
// publish is logged, not returned: the record is already durable.
type PostgresStore struct {
	pool   *pgxpool.Pool
	feed   ChangeFeed
	logger *slog.Logger
}

// NewPostgresStore creates a Postgres-backed profile store.
func NewPostgresStore(pool *pgxpool.Pool, feed ChangeFeed, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, feed: feed, logger: logger}
}

var profileColumns = strings.Join(schema.UserProfile.Columns(), ", ")

/*
Get retrieves a single profile row.

Parameters:
  - context: context.Context
  - id: string (account id)

Returns:
  - *Profile: Hydrated record
  - error: [ErrNotFound] or [ErrTransient]
*/
func (repository *PostgresStore) Get(context context.Context, id string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		profileColumns, schema.UserProfile.Table, schema.UserProfile.ID)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, wrapStoreError(err, "get")
	}
	return profile, nil
}

/*
MergeSet inserts the profile or merges the set fields into the existing row.

Description: A single INSERT ... ON CONFLICT statement, so concurrent callers
never observe a half-created record. Unset fields keep their stored value, or
the column default on insert.
*/
func (repository *PostgresStore) MergeSet(context context.Context, id string, fields Fields) (*Profile, error) {
	name, email, role := fieldArgs(fields)
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s)
		VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, 'basicUser'))
		ON CONFLICT (%[2]s) DO UPDATE SET
			%[3]s = COALESCE($2::text, %[1]s.%[3]s),
			%[4]s = COALESCE($3::text, %[1]s.%[4]s),
			%[5]s = COALESCE($4::text, %[1]s.%[5]s),
			%[6]s = NOW()
		RETURNING %[7]s`,
		schema.UserProfile.Table, schema.UserProfile.ID, schema.UserProfile.Name,
		schema.UserProfile.Email, schema.UserProfile.Role, schema.UserProfile.UpdatedAt,
		profileColumns,
	)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, id, name, email, role))
	if err != nil {
		return nil, wrapStoreError(err, "merge_set")
	}

	repository.publish(context, profile)
	return profile, nil
}

/*
Update writes the set fields of an existing profile.

Returns:
  - *Profile: The row after the update
  - error: [ErrNotFound] when no row matched, otherwise [ErrTransient]
*/
func (repository *PostgresStore) Update(context context.Context, id string, fields Fields) (*Profile, error) {
	name, email, role := fieldArgs(fields)
	query := fmt.Sprintf(`
		UPDATE %[1]s SET
			%[3]s = COALESCE($2::text, %[3]s),
			%[4]s = COALESCE($3::text, %[4]s),
			%[5]s = COALESCE($4::text, %[5]s),
			%[6]s = NOW()
		WHERE %[2]s = $1
		RETURNING %[7]s`,
		schema.UserProfile.Table, schema.UserProfile.ID, schema.UserProfile.Name,
		schema.UserProfile.Email, schema.UserProfile.Role, schema.UserProfile.UpdatedAt,
		profileColumns,
	)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, id, name, email, role))
	if err != nil {
		return nil, wrapStoreError(err, "update")
	}

	repository.publish(context, profile)
	return profile, nil
}

/*
Subscribe opens a live stream for one profile.

Description: The feed subscription is established before the initial read,
so a write racing with Subscribe shows up either in the initial snapshot or
as a later change, never neither.
*/
func (repository *PostgresStore) Subscribe(context context.Context, id string) (*Subscription, error) {
	changes, stopFeed, err := repository.feed.Watch(context, id)
	if err != nil {
		return nil, err
	}

	current, err := repository.Get(context, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		stopFeed()
		return nil, err
	}

	out := make(chan Snapshot, streamBuffer)
	done := make(chan struct{})
	finished := make(chan struct{})
	out <- Snapshot{Profile: current}

	go func() {
		defer close(finished)
		defer close(out)
		for {
			select {
			case <-done:
				return
			case snapshot, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- snapshot:
				case <-done:
					return
				}
			}
		}
	}()

	return NewSubscription(out, func() {
		close(done)
		stopFeed()
		<-finished
	}), nil
}

// List returns every profile ordered by creation time.
func (repository *PostgresStore) List(context context.Context) ([]*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		profileColumns, schema.UserProfile.Table, schema.UserProfile.CreatedAt)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, wrapStoreError(err, "list")
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, wrapStoreError(err, "list_scan")
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(err, "list_rows")
	}

	return profiles, nil
}

// # Helpers

func (repository *PostgresStore) publish(context context.Context, profile *Profile) {
	if err := repository.feed.Publish(context, profile); err != nil {
		repository.logger.Warn("profile_change_publish_failed",
			slog.String("profile_id", profile.ID),
			slog.Any("error", err),
		)
	}
}

func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	var role string
	if err := row.Scan(&profile.ID, &profile.Name, &profile.Email, &role, &profile.CreatedAt); err != nil {
		return nil, err
	}
	profile.Role = sec.Role(role)
	return profile, nil
}

// fieldArgs converts a partial write into nullable SQL arguments.
func fieldArgs(fields Fields) (name, email, role *string) {
	if fields.Role != nil {
		value := string(*fields.Role)
		role = &value
	}
	return fields.Name, fields.Email, role
}

func wrapStoreError(err error, action string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: postgres_profile_%s_failed: %w", ErrTransient, action, err)
	}
}

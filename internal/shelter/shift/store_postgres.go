// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shift

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelter/internal/platform/database/schema"
	"github.com/taibuivan/shelter/internal/platform/dberr"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) List(context context.Context, from string) ([]*Shift, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, to_char(%s, 'YYYY-MM-DD'), %s, %s, %s
		FROM %s
		WHERE %s >= $1::date
		ORDER BY %s ASC, %s ASC`,
		schema.ShelterShift.ID, schema.ShelterShift.Title, schema.ShelterShift.Date,
		schema.ShelterShift.Time, schema.ShelterShift.Slots, schema.ShelterShift.Description,
		schema.ShelterShift.Table,
		schema.ShelterShift.Date,
		schema.ShelterShift.Date, schema.ShelterShift.Time,
	)

	rows, err := repository.pool.Query(context, query, from)
	if err != nil {
		return nil, dberr.Wrap(err, "Shift", "postgres_shift_list")
	}
	defer rows.Close()

	shifts := make([]*Shift, 0)
	for rows.Next() {
		s := &Shift{}
		if err := rows.Scan(&s.ID, &s.Title, &s.Date, &s.Time, &s.Slots, &s.Description); err != nil {
			return nil, dberr.Wrap(err, "Shift", "postgres_shift_scan")
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Shift", "postgres_shift_list")
	}
	return shifts, nil
}

func (repository *PostgresRepository) Create(context context.Context, shift *Shift) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3::date, $4, $5, $6)`,
		schema.ShelterShift.Table,
		schema.ShelterShift.ID, schema.ShelterShift.Title, schema.ShelterShift.Date,
		schema.ShelterShift.Time, schema.ShelterShift.Slots, schema.ShelterShift.Description,
	)

	_, err := repository.pool.Exec(context, query,
		shift.ID, shift.Title, shift.Date, shift.Time, shift.Slots, shift.Description)
	if err != nil {
		return dberr.Wrap(err, "Shift", "postgres_shift_create")
	}
	return nil
}

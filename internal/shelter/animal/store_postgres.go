// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package animal

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelter/internal/platform/database/schema"
	"github.com/taibuivan/shelter/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for animals.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var animalColumns = strings.Join(schema.ShelterAnimal.Columns(), ", ")

/*
List runs the filtered listing and its count in one round trip using a
window function.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Animal, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.ShelterAnimal.Type, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.ShelterAnimal.Status, len(args)))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		WHERE %s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d`,
		animalColumns, schema.ShelterAnimal.Table,
		strings.Join(conditions, " AND "),
		schema.ShelterAnimal.CreatedAt,
		len(args)-1, len(args),
	)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Animal", "postgres_animal_list")
	}
	defer rows.Close()

	animals := make([]*Animal, 0)
	total := 0
	for rows.Next() {
		animal := &Animal{}
		if err := rows.Scan(animalTargets(animal, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "Animal", "postgres_animal_scan")
		}
		animals = append(animals, animal)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Animal", "postgres_animal_list")
	}

	return animals, total, nil
}

// FindByID retrieves a single animal.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Animal, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		animalColumns, schema.ShelterAnimal.Table, schema.ShelterAnimal.ID)

	animal := &Animal{}
	if err := repository.pool.QueryRow(context, query, id).Scan(animalTargets(animal)...); err != nil {
		return nil, dberr.Wrap(err, "Animal", "postgres_animal_find_by_id")
	}
	return animal, nil
}

// Create inserts a new animal and back-fills its creation time.
func (repository *PostgresRepository) Create(context context.Context, animal *Animal) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		schema.ShelterAnimal.Table,
		schema.ShelterAnimal.ID, schema.ShelterAnimal.Name, schema.ShelterAnimal.Type, schema.ShelterAnimal.Breed,
		schema.ShelterAnimal.Age, schema.ShelterAnimal.Gender, schema.ShelterAnimal.Description,
		schema.ShelterAnimal.Image, schema.ShelterAnimal.Tags, schema.ShelterAnimal.Status,
		schema.ShelterAnimal.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		animal.ID, animal.Name, animal.Type, animal.Breed, animal.Age, animal.Gender,
		animal.Description, animal.Image, animal.Tags, animal.Status,
	).Scan(&animal.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "Animal", "postgres_animal_create")
	}
	return nil
}

/*
Update applies the non-nil fields of patch with COALESCE so untouched columns
keep their stored value.
*/
func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) (*Animal, error) {
	column := func(name string, position int) string {
		return fmt.Sprintf("%s = COALESCE($%d, %s)", name, position, name)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s, %s, %s, %s, %s, %s, %s, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.ShelterAnimal.Table,
		column(schema.ShelterAnimal.Name, 2),
		column(schema.ShelterAnimal.Breed, 3),
		column(schema.ShelterAnimal.Age, 4),
		column(schema.ShelterAnimal.Gender, 5),
		column(schema.ShelterAnimal.Description, 6),
		column(schema.ShelterAnimal.Image, 7),
		column(schema.ShelterAnimal.Tags, 8),
		schema.ShelterAnimal.UpdatedAt,
		schema.ShelterAnimal.ID,
		animalColumns,
	)

	animal := &Animal{}
	err := repository.pool.QueryRow(context, query,
		id, patch.Name, patch.Breed, patch.Age, patch.Gender, patch.Description, patch.Image, tagsArg(patch.Tags),
	).Scan(animalTargets(animal)...)
	if err != nil {
		return nil, dberr.Wrap(err, "Animal", "postgres_animal_update")
	}
	return animal, nil
}

// SetStatus changes the placement status of one animal.
func (repository *PostgresRepository) SetStatus(context context.Context, id string, status Status) error {
	return SetStatusTx(context, repository.pool, id, status)
}

// # Shared Statements

// RowQuerier is satisfied by both [pgxpool.Pool] and [pgx.Tx].
type RowQuerier interface {
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

/*
SetStatusTx updates an animal's status on any querier, letting the
application store flip the animal inside its own decision transaction.
*/
func SetStatusTx(context context.Context, querier RowQuerier, id string, status Status) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.ShelterAnimal.Table, schema.ShelterAnimal.Status, schema.ShelterAnimal.UpdatedAt,
		schema.ShelterAnimal.ID, schema.ShelterAnimal.ID)

	var updated string
	if err := querier.QueryRow(context, query, id, status).Scan(&updated); err != nil {
		return dberr.Wrap(err, "Animal", "postgres_animal_set_status")
	}
	return nil
}

// # Helpers

func animalTargets(animal *Animal, extra ...any) []any {
	targets := []any{
		&animal.ID, &animal.Name, &animal.Type, &animal.Breed, &animal.Age, &animal.Gender,
		&animal.Description, &animal.Image, &animal.Tags, &animal.Status, &animal.CreatedAt,
	}
	return append(targets, extra...)
}

// tagsArg keeps a nil patch as SQL NULL so COALESCE preserves the stored tags.
func tagsArg(patch *[]string) any {
	if patch == nil {
		return nil
	}
	if *patch == nil {
		return []string{}
	}
	return *patch
}

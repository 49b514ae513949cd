// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shelter/internal/platform/database/schema"
	"github.com/taibuivan/shelter/internal/platform/dberr"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for accounts.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
FindByID retrieves an account from the accounts table.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	account := &Account{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&account.ID, &account.Email, &account.DisplayName, &account.PasswordHash, &account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_find_by_id")
	}
	return account, nil
}

/*
FindByEmail retrieves an account by email using the LOWER(email) unique index.
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	account := &Account{}
	err := repository.pool.QueryRow(context, query, strings.TrimSpace(email)).Scan(
		&account.ID, &account.Email, &account.DisplayName, &account.PasswordHash, &account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_find_by_email")
	}
	return account, nil
}

/*
Create inserts a new account row.

Description: A concurrent registration of the same email trips the unique
index and surfaces as apperr.Conflict through dberr.
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.DisplayName, schema.UserAccount.Password,
		schema.UserAccount.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		account.ID, account.Email, account.DisplayName, account.PasswordHash,
	).Scan(&account.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_create")
	}
	return nil
}

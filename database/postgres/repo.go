// Package postgres implements the credential repo over PostgreSQL using
// a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is a credential repo backed by a pgx connection pool.
type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewRepo returns a credential repo backed by pool. The table name must
// be validated by the caller before it is interpolated into queries.
func NewRepo(pool *pgxpool.Pool, tableName string) *Repo {
	return &Repo{pool: pool, tableName: tableName}
}

// Register inserts credentials for a new user. It returns false with a
// nil error when the username already exists.
func (r *Repo) Register(ctx context.Context, name, passHash string) (bool, error) {
	insertQuery := fmt.Sprintf( //nolint:gosec // table name is validated
		`INSERT INTO %s (login, pass_hash) VALUES ($1, $2) ON CONFLICT (login) DO NOTHING`,
		quoteIdentifier(r.tableName))

	tag, err := r.pool.Exec(ctx, insertQuery, name, passHash)
	if err != nil {
		return false, fmt.Errorf("register: insert: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Verify reports whether the stored digest for name equals passHash. An
// unknown name verifies as false with a nil error.
func (r *Repo) Verify(ctx context.Context, name, passHash string) (bool, error) {
	query := fmt.Sprintf(`SELECT pass_hash FROM %s WHERE login = $1`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated

	var stored string
	err := r.pool.QueryRow(ctx, query, name).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	return stored == passHash, nil
}

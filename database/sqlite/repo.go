// Package sqlite implements the credential repo over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repo is a credential repo backed by a SQLite database.
type Repo struct {
	db        *sql.DB
	tableName string
}

// NewRepo returns a credential repo backed by db. The table name must be
// validated by the caller before it is interpolated into queries.
func NewRepo(db *sql.DB, tableName string) *Repo {
	return &Repo{db: db, tableName: tableName}
}

// Register inserts credentials for a new user. It returns false with a
// nil error when the username already exists.
func (r *Repo) Register(ctx context.Context, name, passHash string) (bool, error) {
	var existing string
	checkQuery := fmt.Sprintf(`SELECT login FROM %s WHERE login = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated

	err := r.db.QueryRowContext(ctx, checkQuery, name).Scan(&existing)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("register: check existing: %w", err)
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (login, pass_hash) VALUES (?, ?)`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated
	if _, err := r.db.ExecContext(ctx, insertQuery, name, passHash); err != nil {
		return false, fmt.Errorf("register: insert: %w", err)
	}
	return true, nil
}

// Verify reports whether the stored digest for name equals passHash. An
// unknown name verifies as false with a nil error.
func (r *Repo) Verify(ctx context.Context, name, passHash string) (bool, error) {
	query := fmt.Sprintf(`SELECT pass_hash FROM %s WHERE login = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated

	var stored string
	err := r.db.QueryRowContext(ctx, query, name).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	return stored == passHash, nil
}

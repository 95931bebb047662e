package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// quoteIdentifier safely quotes a PostgreSQL identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// Migrate creates the credentials table if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			login TEXT NOT NULL PRIMARY KEY,
			pass_hash TEXT NOT NULL
		)
	`, quoteIdentifier(tableName))

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("migrate up %s: %w", tableName, err)
	}
	return nil
}

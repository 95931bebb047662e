package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// Migrate creates the credentials table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB, tableName string) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			login TEXT NOT NULL PRIMARY KEY,
			pass_hash TEXT NOT NULL
		)
	`, quoteIdentifier(tableName))

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("migrate up %s: %w", tableName, err)
	}
	return nil
}

// DropTable removes the credentials table. Used by tests.
func DropTable(ctx context.Context, db *sql.DB, tableName string) error {
	dropSQL := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdentifier(tableName))
	if _, err := db.ExecContext(ctx, dropSQL); err != nil {
		return fmt.Errorf("migrate down %s: %w", tableName, err)
	}
	return nil
}

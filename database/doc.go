// Package database provides a unified entry point for the credential
// backends.
//
// Two backends are supported:
//
//   - SQLite: single-file backend for development and single-node
//     deployments, via modernc.org/sqlite
//   - PostgreSQL: production backend using a pgx connection pool
//
// # Usage
//
//	cfg := database.Config{Type: "sqlite", DSN: "hutch.db", Table: "users"}
//	repo, cleanup, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// Connect opens the connection, runs migrations, and returns a ready
// hutch.CredentialRepo.
package database

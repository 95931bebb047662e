package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hutchfm/hutch/config"
	"github.com/hutchfm/hutch/database"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the credentials schema",
	Long: `Connect to the configured database and create the credentials
table if it does not exist. Serving runs the same migration on startup;
this command exists to prepare a database ahead of time, for instance
with credentials that the server itself will not hold.`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	_, closeDB, err := database.Connect(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	slog.Info("database initialized", "type", cfg.Database.Type, "table", cfg.Database.Table)
	return nil
}

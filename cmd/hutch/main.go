package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hutchfm/hutch/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "hutch",
	Short:   "Per-user file manager served over HTTP",
	Long: `Hutch is a small web file manager: every registered user gets a
sandboxed directory to browse, upload to, and download from through
the browser.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeatable; later files override earlier ones (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: HUTCH_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: hutch.db, env: HUTCH_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-path", "", "per-user storage directory (default: ./data, env: HUTCH_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("statics-path", "", "static assets directory (default: ./statics, env: HUTCH_STATICS_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

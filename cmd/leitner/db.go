package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/config"
	"github.com/at-ishikawa/leitner/internal/database"
	"github.com/at-ishikawa/leitner/schemas"
)

func newDBCommand() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database commands for the mysql storage driver",
	}
	dbCmd.AddCommand(newDBMigrateCommand())
	return dbCmd
}

func newDBMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables of the mysql storage driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.Storage.Driver != config.StorageDriverMySQL {
				return fmt.Errorf("db migrate requires the %s storage driver, got %s", config.StorageDriverMySQL, cfg.Storage.Driver)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			applied, err := database.Migrate(cmd.Context(), db, schemas.Migrations, "migrations")
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			if len(applied) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Already up to date")
				return nil
			}
			for _, version := range applied {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/soilsense/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the assessment history schema to the latest version.
Other commands migrate on open; this is for preparing a database ahead of time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			slog.Info("Running database migrations", "database", a.cfg.Database.Path)
			store, err := storage.NewSQLiteStorage(a.cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("Database migrations completed", "version", storage.ExpectedSchemaVersion)
			return nil
		},
	}
}

// AngelaMos | 2026
// migrate.go

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd.Context(), func(ctx context.Context, db *core.Database) error {
					return db.Migrate(ctx, migrations.FS)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd.Context(), func(ctx context.Context, db *core.Database) error {
					return db.MigrateDown(ctx, migrations.FS)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd.Context(), func(ctx context.Context, db *core.Database) error {
					version, err := db.MigrationStatus(ctx, migrations.FS)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "current version: %d\n", version)
					return nil
				})
			},
		},
	)

	return cmd
}

func withDatabase(
	ctx context.Context,
	fn func(ctx context.Context, db *core.Database) error,
) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(setupLogger(cfg.Log))

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	return fn(ctx, db)
}

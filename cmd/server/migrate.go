package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/anonto42/socialgraph/backend/internal/migrations"
	"github.com/anonto42/socialgraph/backend/pkg/config"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the PostgreSQL schema",
		Long: `Apply, roll back or inspect the embedded schema migrations.

Example:
  socialgraph migrate
  socialgraph migrate down
  socialgraph migrate status`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return migrate(cmd.Context(), action)
		},
	}
	return cmd
}

func migrate(ctx context.Context, action string) error {
	var run func(context.Context, *sql.DB) error
	switch action {
	case "up":
		run = migrations.Up
	case "down":
		run = migrations.Down
	case "status":
		run = migrations.Status
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	cfg := config.Load()
	if cfg.PostgresUrl == "" {
		return fmt.Errorf("POSTGRES_URL is required")
	}
	// only PostgreSQL is needed here, whatever the storage driver
	cfg.StorageDriver = "disk"
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.Env)

	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	sqlDB, err := db.Postgres.DB()
	if err != nil {
		return err
	}
	if err := run(ctx, sqlDB); err != nil {
		return err
	}
	log.Info(ctx, "migrate finished", "action", action)
	return nil
}

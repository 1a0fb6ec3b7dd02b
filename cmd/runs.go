package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/notioncal/internal/formatter"
	"github.com/desertthunder/notioncal/internal/repositories"
	"github.com/desertthunder/notioncal/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runs prints export run history, newest first.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	exporterFilter := cmd.String("exporter")
	limit := cmd.Int("limit")

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	runs, err := repositories.NewRunRepository(db).List(map[string]any{
		"exporter": exporterFilter,
		"limit":    int(limit),
	})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	return r.writePlain("%s", formatter.RunsToText(runs))
}

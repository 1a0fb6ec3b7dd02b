package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/notioncal/internal/exporters"
	"github.com/desertthunder/notioncal/internal/formatter"
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/repositories"
	"github.com/desertthunder/notioncal/internal/shared"
	"github.com/desertthunder/notioncal/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export runs a full sync of Notion tasks into the selected exporter target.
//
// The process exit status reflects the result: a run that recorded per-task
// errors exits non-zero even though the batch completed.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	exporterName := cmd.String("exporter")
	dryRun := cmd.Bool("dry-run")
	resetCache := cmd.Bool("reset-cache")
	useJSON := cmd.Bool("json")

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if r.source == nil {
		return fmt.Errorf("%w: Notion service not initialized", shared.ErrServiceUnavailable)
	}

	exporter, err := exporters.New(exporterName, config, r.store, r.logger)
	if err != nil {
		return err
	}

	cache, err := r.openCache(config, exporterName, resetCache)
	if err != nil {
		return err
	}

	engine := tasks.NewReconcileEngine(r.source, exporter, cache, r.logger)

	if dryRun {
		taskList, err := r.source.FetchTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch tasks: %w", err)
		}
		decisions := engine.Plan(taskList)
		return r.writePlain("%s", formatter.PlanToText(decisions))
	}

	startedAt := time.Now()
	result, err := engine.Run(ctx, nil)
	finishedAt := time.Now()
	if err != nil {
		return err
	}

	r.recordRun(config, exporterName, result, startedAt, finishedAt)

	if useJSON {
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
	} else if err := r.writePlain("%s", formatter.ResultToText(result)); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("export completed with %d errors", len(result.Errors))
	}
	return nil
}

// openCache loads the exporter's sync cache, recovering from corruption only
// when the user asked for a reset.
func (r *Runner) openCache(config *shared.Config, exporterName string, resetCache bool) (*exporters.SyncCache, error) {
	cacheDir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := exporters.NewSyncCache(cacheDir, exporterName)
	if err := cache.Load(); err != nil {
		var corrupt *exporters.CacheCorruptError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		if !resetCache {
			return nil, fmt.Errorf("sync cache at %s is corrupt, rerun with --reset-cache to start fresh: %w", corrupt.Path, err)
		}
		r.logger.Warn("discarding corrupt sync cache", "path", corrupt.Path)
		cache.Reset()
	}

	return cache, nil
}

// recordRun persists the run to history. Failures are logged, never fatal:
// the export itself already succeeded.
func (r *Runner) recordRun(config *shared.Config, exporterName string, result *models.ExportResult, startedAt, finishedAt time.Time) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("failed to migrate run history database", "error", err)
		return
	}

	run := models.NewSyncRun(exporterName, *result, startedAt, finishedAt)
	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
	}
}

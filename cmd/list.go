package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/notioncal/internal/exporters"
	"github.com/desertthunder/notioncal/internal/formatter"
	"github.com/desertthunder/notioncal/internal/shared"
	"github.com/urfave/cli/v3"
)

// List prints the tasks in the configured Notion database.
//
// The default output is one line per task; --detailed dumps every page
// property and --raw emits the page JSON as returned by the API.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	detailed := cmd.Bool("detailed")
	raw := cmd.Bool("raw")
	useJSON := cmd.Bool("json")

	if r.source == nil {
		return fmt.Errorf("%w: Notion service not initialized, set notion.token and notion.database_id", shared.ErrServiceUnavailable)
	}

	if raw {
		if r.notion == nil {
			return fmt.Errorf("%w: raw output requires the Notion service", shared.ErrServiceUnavailable)
		}
		pages, err := r.notion.FetchRaw(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch pages: %w", err)
		}
		return r.writeJSON(pages, true)
	}

	if detailed {
		if r.notion == nil {
			return fmt.Errorf("%w: detailed output requires the Notion service", shared.ErrServiceUnavailable)
		}
		pages, err := r.notion.FetchPages(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch pages: %w", err)
		}
		return r.writePlain("%s", formatter.PageDetails(pages))
	}

	taskList, err := r.source.FetchTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	r.logger.Infof("fetched %d tasks from %s", len(taskList), r.source.Name())

	if useJSON {
		return r.writeJSON(taskList, true)
	}
	return r.writePlain("%s", formatter.TaskList(taskList))
}

// Accounts lists the calendar destinations visible to the target store and
// marks the one the exporter would pick.
func (r *Runner) Accounts(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: calendar store not available on this system", shared.ErrServiceUnavailable)
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	destinations, err := r.store.Destinations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list destinations: %w", err)
	}

	if len(destinations) == 0 {
		return r.writePlain("No calendar destinations found\n")
	}

	selected, _ := exporters.SelectDestination(destinations, config.Exporters.AppleCalendar.AccountName)

	r.writePlain("Destinations: %d\n\n", len(destinations))
	for _, dest := range destinations {
		marker := " "
		if dest.Name == selected.Name {
			marker = "*"
		}
		r.writePlain("%s %s (%s)\n", marker, dest.Name, dest.Type)
	}

	return nil
}

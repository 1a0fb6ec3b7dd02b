package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/notioncal/internal/exporters"
	"github.com/desertthunder/notioncal/internal/services"
	"github.com/desertthunder/notioncal/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var notionService *services.NotionService
	var store exporters.CalendarStore

	config, configPath, err := shared.ResolveConfig("")
	if err != nil {
		config = shared.DefaultConfig()
		configPath = ""
	}

	if config.Notion.Token != "" && config.Notion.DatabaseID != "" {
		if svc, err := services.NewNotionService(config.Notion.Token, config.Notion.DatabaseID, config.Notion.TitleProperty); err == nil {
			notionService = svc
		} else {
			logger.Warn("notion service unavailable", "error", err)
		}
	}

	if s, err := exporters.NewOSAScriptStore(); err == nil {
		store = s
	} else {
		logger.Debug("calendar store unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Notion:     notionService,
		Store:      store,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "notioncal",
		Usage:    "Sync Notion tasks to Apple Calendar",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(errors.Unwrap(err), shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

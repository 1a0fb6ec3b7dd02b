package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/notioncal/internal/exporters"
	"github.com/desertthunder/notioncal/internal/shared"
	"github.com/desertthunder/notioncal/internal/tasks"
	"github.com/desertthunder/notioncal/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and exporting tasks.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil {
		return fmt.Errorf("%w: Notion service not initialized", shared.ErrServiceUnavailable)
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	exporter, err := exporters.New("apple_calendar", config, r.store, r.logger)
	if err != nil {
		return err
	}

	cache, err := r.openCache(config, exporter.Name(), false)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(os.TempDir(), "notioncal-tui.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.NewLogger(logFile))

	engine := tasks.NewReconcileEngine(r.source, exporter, cache, r.logger)

	model := ui.NewModel(ctx, r.source, engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

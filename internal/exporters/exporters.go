// package exporters defines interface Exporter for materializing tasks in
// target systems (Apple Calendar)
package exporters

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/shared"
)

// Exporter defines the capability set for a target system.
//
// The reconciliation engine holds an Exporter by interface and never
// inspects the concrete type. One implementation exists per target system.
type Exporter interface {
	// Name returns the exporter name (used for cache file naming, e.g. "apple_calendar")
	Name() string

	// Options returns the rendering options that affect fingerprints.
	Options() Options

	// ValidateConfig checks the exporter's configuration and target
	// reachability. Called once before any task is processed; an error here
	// aborts the whole run.
	ValidateConfig(ctx context.Context) error

	// Create materializes a new target object for the task and returns its ID.
	// Safe to call even when a same-titled object exists; dedup is the
	// cache's job, not the exporter's.
	Create(ctx context.Context, task models.Task) (string, error)

	// Update rewrites the target object identified by targetID. Returns an
	// error wrapping [shared.ErrEventNotFound] when the object no longer
	// exists in the target store.
	Update(ctx context.Context, targetID string, task models.Task) error
}

// Options is the subset of exporter configuration that affects how a task is
// rendered, and therefore what its fingerprint covers.
type Options struct {
	TitlePrefix   string
	SkipCompleted bool
	DoneStatuses  []string
}

// IsDone reports whether a status string counts as completed.
// An empty DoneStatuses list falls back to matching "Done".
func (o Options) IsDone(status string) bool {
	if status == "" {
		return false
	}
	if len(o.DoneStatuses) == 0 {
		return status == "Done"
	}
	return slices.Contains(o.DoneStatuses, status)
}

// New is the factory for exporters by name.
//
// Future exporters (things, todoist) register here.
func New(name string, config *shared.Config, store CalendarStore, logger *log.Logger) (Exporter, error) {
	switch name {
	case "apple_calendar":
		return NewAppleCalendarExporter(config.Exporters.AppleCalendar, store, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownExporter, name)
	}
}

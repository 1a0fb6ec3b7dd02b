package exporters

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/shared"
)

// Destination is an available calendar destination in the target store.
type Destination struct {
	Name string
	Type string // "caldav" (iCloud), "local", or store-specific
}

// Event is the target-side representation of a task.
type Event struct {
	Title     string
	StartDate string // ISO date, e.g. "2025-12-15"
	EndDate   string // empty means single-day
	AllDay    bool
	Notes     string
}

// CalendarStore is the target store boundary for calendar-like systems.
// [OSAScriptStore] implements it against Calendar.app; tests use fakes.
type CalendarStore interface {
	// Destinations lists the available destinations by name and type.
	Destinations(ctx context.Context) ([]Destination, error)

	// EnsureCalendar creates the named calendar when missing and returns
	// its identifier.
	EnsureCalendar(ctx context.Context, name string) (string, error)

	// CreateEvent adds an event to the calendar and returns the event ID.
	CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error)

	// UpdateEvent rewrites an existing event, returning an error wrapping
	// [shared.ErrEventNotFound] when the event no longer exists.
	UpdateEvent(ctx context.Context, calendarID, eventID string, ev Event) error
}

// AppleCalendarExporter exports tasks to Apple Calendar as all-day events.
type AppleCalendarExporter struct {
	config shared.AppleCalendarConfig
	store  CalendarStore
	logger *log.Logger

	// calendar identifier resolved during ValidateConfig
	calendarID string
}

// NewAppleCalendarExporter creates the exporter. Defaults mirror the
// documented config: calendar "Notion Tasks", prefix "[Notion] ".
func NewAppleCalendarExporter(config shared.AppleCalendarConfig, store CalendarStore, logger *log.Logger) *AppleCalendarExporter {
	if config.CalendarName == "" {
		config.CalendarName = "Notion Tasks"
	}
	if config.EventPrefix == "" {
		config.EventPrefix = "[Notion] "
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &AppleCalendarExporter{
		config: config,
		store:  store,
		logger: logger,
	}
}

func (e *AppleCalendarExporter) Name() string {
	return "apple_calendar"
}

func (e *AppleCalendarExporter) Options() Options {
	return Options{
		TitlePrefix:   e.config.EventPrefix,
		SkipCompleted: e.config.SkipCompleted,
		DoneStatuses:  e.config.DoneStatuses,
	}
}

// ValidateConfig checks target reachability and resolves the destination
// calendar, creating it when missing.
func (e *AppleCalendarExporter) ValidateConfig(ctx context.Context) error {
	if e.store == nil {
		return fmt.Errorf("%w: calendar store not initialized", shared.ErrServiceUnavailable)
	}

	destinations, err := e.store.Destinations(ctx)
	if err != nil {
		return fmt.Errorf("failed to query calendar destinations: %w", err)
	}

	for _, dest := range destinations {
		if dest.Name == e.config.CalendarName {
			e.calendarID, err = e.store.EnsureCalendar(ctx, e.config.CalendarName)
			if err != nil {
				return fmt.Errorf("failed to open calendar: %w", err)
			}
			e.logger.Infof("using existing calendar %q", e.config.CalendarName)
			return nil
		}
	}

	// Calendar doesn't exist yet; pick the account it will be created in.
	if account, ok := SelectDestination(destinations, e.config.AccountName); ok {
		e.logger.Infof("creating calendar %q (account: %s)", e.config.CalendarName, account.Name)
	} else {
		e.logger.Infof("creating calendar %q", e.config.CalendarName)
	}

	e.calendarID, err = e.store.EnsureCalendar(ctx, e.config.CalendarName)
	if err != nil {
		return fmt.Errorf("failed to create calendar: %w", err)
	}
	return nil
}

// SelectDestination applies the destination preference order: the preferred
// name when configured and present, then iCloud (caldav), then local, then
// the first available.
func SelectDestination(destinations []Destination, preferred string) (Destination, bool) {
	if len(destinations) == 0 {
		return Destination{}, false
	}

	var icloud, local *Destination
	for i, dest := range destinations {
		if preferred != "" && dest.Name == preferred {
			return dest, true
		}
		switch dest.Type {
		case "caldav":
			if icloud == nil {
				icloud = &destinations[i]
			}
		case "local":
			if local == nil {
				local = &destinations[i]
			}
		}
	}

	if icloud != nil {
		return *icloud, true
	}
	if local != nil {
		return *local, true
	}
	return destinations[0], true
}

// Create materializes a task as a new all-day event.
func (e *AppleCalendarExporter) Create(ctx context.Context, task models.Task) (string, error) {
	eventID, err := e.store.CreateEvent(ctx, e.calendarID, e.eventFromTask(task))
	if err != nil {
		return "", fmt.Errorf("failed to create event for %q: %w", task.Title, err)
	}
	return eventID, nil
}

// Update rewrites the event previously created for the task.
func (e *AppleCalendarExporter) Update(ctx context.Context, targetID string, task models.Task) error {
	if err := e.store.UpdateEvent(ctx, e.calendarID, targetID, e.eventFromTask(task)); err != nil {
		return fmt.Errorf("failed to update event for %q: %w", task.Title, err)
	}
	return nil
}

// eventFromTask maps a task onto its calendar representation.
func (e *AppleCalendarExporter) eventFromTask(task models.Task) Event {
	var notes []string
	if task.Status != "" {
		notes = append(notes, fmt.Sprintf("Status: %s", task.Status))
	}
	if len(task.Assignees) > 0 {
		notes = append(notes, fmt.Sprintf("Assignees: %s", strings.Join(task.Assignees, ", ")))
	}
	if task.URL != "" {
		notes = append(notes, fmt.Sprintf("\nNotion URL: %s", task.URL))
	}

	return Event{
		Title:     e.config.EventPrefix + task.Title,
		StartDate: task.DueStart,
		EndDate:   task.DueEnd,
		AllDay:    true,
		Notes:     strings.Join(notes, "\n"),
	}
}

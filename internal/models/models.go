// package models defines the data model for the notion calendar sync service
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the sync service.
// Implementations include SyncRun.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Task represents a to-do item fetched from Notion.
//
// Dates are kept as the ISO strings Notion returns ("2025-12-15" or
// "2025-12-15T10:00:00Z"); an empty string means the field is absent.
type Task struct {
	ID             string   // Notion page ID (opaque, stable)
	Title          string   // Task title text
	DueStart       string   // Due date start, empty if the task has no due date
	DueEnd         string   // Due date end, empty for single-day tasks
	Status         string   // Status name, empty if unset
	Assignees      []string // Assigned people by display name
	URL            string   // Notion page URL
	CreatedTime    string   // Page creation timestamp
	LastEditedTime string   // Page last-edited timestamp
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueStart != ""
}

// CacheEntry records what was last materialized in the target store for a
// single source task.
type CacheEntry struct {
	Fingerprint    string    `json:"fingerprint"`
	TargetObjectID string    `json:"target_object_id"`
	LastSyncedAt   time.Time `json:"last_synced_at"`
}

// ErrorRecord captures a per-task failure during an export run.
type ErrorRecord struct {
	TaskID  string `json:"task_id"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// ExportResult aggregates the outcome of a single reconciliation run.
type ExportResult struct {
	Success bool          `json:"success"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Skipped int           `json:"skipped"`
	Errors  []ErrorRecord `json:"errors,omitempty"`
}

// Total returns the number of tasks the run classified.
func (r ExportResult) Total() int {
	return r.Created + r.Updated + r.Skipped + len(r.Errors)
}

// SyncRun is a persisted record of one export run.
type SyncRun struct {
	id         string
	exporter   string
	created    int
	updated    int
	skipped    int
	errorCount int
	success    bool
	startedAt  time.Time
	finishedAt time.Time
}

// NewSyncRun creates a SyncRun from an export result and run timings.
// The ID is assigned by the repository on Create.
func NewSyncRun(exporter string, result ExportResult, startedAt, finishedAt time.Time) *SyncRun {
	return &SyncRun{
		exporter:   exporter,
		created:    result.Created,
		updated:    result.Updated,
		skipped:    result.Skipped,
		errorCount: len(result.Errors),
		success:    result.Success,
		startedAt:  startedAt,
		finishedAt: finishedAt,
	}
}

// RestoreSyncRun rebuilds a SyncRun from persisted columns.
func RestoreSyncRun(id, exporter string, created, updated, skipped, errorCount int, success bool, startedAt, finishedAt time.Time) *SyncRun {
	return &SyncRun{
		id:         id,
		exporter:   exporter,
		created:    created,
		updated:    updated,
		skipped:    skipped,
		errorCount: errorCount,
		success:    success,
		startedAt:  startedAt,
		finishedAt: finishedAt,
	}
}

func (s *SyncRun) ID() string            { return s.id }
func (s *SyncRun) SetID(id string)       { s.id = id }
func (s *SyncRun) Exporter() string      { return s.exporter }
func (s *SyncRun) Created() int          { return s.created }
func (s *SyncRun) Updated() int          { return s.updated }
func (s *SyncRun) Skipped() int          { return s.skipped }
func (s *SyncRun) ErrorCount() int       { return s.errorCount }
func (s *SyncRun) Success() bool         { return s.success }
func (s *SyncRun) StartedAt() time.Time  { return s.startedAt }
func (s *SyncRun) FinishedAt() time.Time { return s.finishedAt }

func (s *SyncRun) CreatedAt() time.Time { return s.startedAt }
func (s *SyncRun) UpdatedAt() time.Time { return s.finishedAt }

// Validate checks that the run has an exporter name and sane counters.
func (s *SyncRun) Validate() error {
	if s.exporter == "" {
		return fmt.Errorf("sync run missing exporter name")
	}
	if s.created < 0 || s.updated < 0 || s.skipped < 0 || s.errorCount < 0 {
		return fmt.Errorf("sync run has negative counters")
	}
	return nil
}

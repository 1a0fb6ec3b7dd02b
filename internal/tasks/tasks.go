// package tasks implements the reconciliation engine that mirrors remote
// tasks into a target system.
//
// The core abstraction is SyncEngine, which classifies each fetched task as
// CREATE, UPDATE, or SKIP against the sync cache, applies the minimal calls
// through the exporter, and persists the cache once per run. Operations emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/notioncal/internal/exporters"
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/services"
	"github.com/desertthunder/notioncal/internal/shared"
)

// Action classifies what the engine will do for a single task.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionSkip:
		return "skip"
	default:
		return ""
	}
}

// SkipReason explains why a task was classified SKIP.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNoDueDate
	SkipCompleted
	SkipUnchanged
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoDueDate:
		return "no due date"
	case SkipCompleted:
		return "completed"
	case SkipUnchanged:
		return "unchanged"
	default:
		return ""
	}
}

// Decision is the classification of one task, produced before any target
// call is made.
type Decision struct {
	Task        models.Task
	Action      Action
	Reason      SkipReason // set when Action is ActionSkip
	Fingerprint string     // empty for filtered tasks
}

// SyncEngine defines operations for reconciling tasks against an exporter target.
type SyncEngine interface {
	// Run fetches the full task snapshot from the source and reconciles it.
	Run(ctx context.Context, progress chan<- ProgressUpdate) (*models.ExportResult, error)

	// Reconcile classifies and applies a batch of tasks: CREATE for tasks
	// absent from the cache, UPDATE for changed fingerprints, SKIP otherwise.
	// The cache is saved exactly once after all tasks are processed.
	Reconcile(ctx context.Context, progress chan<- ProgressUpdate, taskList []models.Task) (*models.ExportResult, error)

	// Plan classifies a batch without touching the target or the cache file.
	Plan(taskList []models.Task) []Decision
}

// ReconcileEngine implements SyncEngine for a single exporter target.
// Contains dependencies on the task source, exporter, and sync cache.
type ReconcileEngine struct {
	source   services.TaskSource
	exporter exporters.Exporter
	cache    *exporters.SyncCache
	logger   *log.Logger
}

// NewReconcileEngine creates a new ReconcileEngine with the provided collaborators.
func NewReconcileEngine(source services.TaskSource, exporter exporters.Exporter, cache *exporters.SyncCache, logger *log.Logger) *ReconcileEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ReconcileEngine{
		source:   source,
		exporter: exporter,
		cache:    cache,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ReconcileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full source → target sync.
func (e *ReconcileEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*models.ExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: task source not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchTasksUpdate(1, 1, e.source.Name()))

	taskList, err := e.source.FetchTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch tasks: %v", shared.ErrAPIRequest, err)
	}

	return e.Reconcile(ctx, progress, taskList)
}

// classify decides what to do with one task. Pure with respect to the
// target: only the in-memory cache is consulted.
func (e *ReconcileEngine) classify(task models.Task, opts exporters.Options) Decision {
	if !task.HasDueDate() {
		return Decision{Task: task, Action: ActionSkip, Reason: SkipNoDueDate}
	}
	if opts.SkipCompleted && opts.IsDone(task.Status) {
		return Decision{Task: task, Action: ActionSkip, Reason: SkipCompleted}
	}

	fingerprint := exporters.Fingerprint(task, opts)

	entry, ok := e.cache.Get(task.ID)
	if !ok {
		return Decision{Task: task, Action: ActionCreate, Fingerprint: fingerprint}
	}
	if entry.Fingerprint == fingerprint {
		return Decision{Task: task, Action: ActionSkip, Reason: SkipUnchanged, Fingerprint: fingerprint}
	}
	return Decision{Task: task, Action: ActionUpdate, Fingerprint: fingerprint}
}

// Plan classifies every task without side effects.
func (e *ReconcileEngine) Plan(taskList []models.Task) []Decision {
	opts := e.exporter.Options()
	decisions := make([]Decision, 0, len(taskList))
	for _, task := range taskList {
		decisions = append(decisions, e.classify(task, opts))
	}
	return decisions
}

// Reconcile applies the per-task decision procedure in input order.
//
// Exporter validation runs first; a failure there aborts with no tasks
// processed and no cache mutation. Per-task exporter errors are recorded and
// do not abort the batch; the failed task's cache entry is left unchanged so
// the next run retries it.
func (e *ReconcileEngine) Reconcile(ctx context.Context, progress chan<- ProgressUpdate, taskList []models.Task) (*models.ExportResult, error) {
	if e.exporter == nil {
		return nil, fmt.Errorf("%w: exporter not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: sync cache not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, validateTargetUpdate(1, 1, e.exporter.Name()))

	if err := e.exporter.ValidateConfig(ctx); err != nil {
		return nil, fmt.Errorf("%w: exporter validation failed: %v", shared.ErrInvalidConfig, err)
	}

	result := &models.ExportResult{}
	opts := e.exporter.Options()
	total := len(taskList)

	for i, task := range taskList {
		e.sendProgress(progress, processTaskUpdate(i+1, total, task))

		decision := e.classify(task, opts)

		switch decision.Action {
		case ActionSkip:
			e.logger.Debugf("skip %s (%s)", task.ID, decision.Reason)
			result.Skipped++

		case ActionCreate:
			targetID, err := e.exporter.Create(ctx, task)
			if err != nil {
				e.recordError(result, task, err)
				continue
			}
			e.cache.Put(task.ID, decision.Fingerprint, targetID)
			result.Created++

		case ActionUpdate:
			entry, _ := e.cache.Get(task.ID)
			if err := e.exporter.Update(ctx, entry.TargetObjectID, task); err != nil {
				e.recordError(result, task, err)
				continue
			}
			e.cache.Put(task.ID, decision.Fingerprint, entry.TargetObjectID)
			result.Updated++
		}
	}

	e.sendProgress(progress, saveCacheUpdate(1, 1, e.cache.Len()))

	if err := e.cache.Save(); err != nil {
		return result, fmt.Errorf("failed to persist sync cache: %w", err)
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

func (e *ReconcileEngine) recordError(result *models.ExportResult, task models.Task, err error) {
	e.logger.Warnf("task %s failed: %v", task.ID, err)
	result.Errors = append(result.Errors, models.ErrorRecord{
		TaskID:  task.ID,
		Title:   task.Title,
		Message: err.Error(),
	})
}

package tasks

import (
	"fmt"

	"github.com/desertthunder/notioncal/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTasks Phase = iota
	ValidateTarget
	ProcessTasks
	SaveCache
)

func (p Phase) String() string {
	switch p {
	case FetchTasks:
		return "fetch_tasks"
	case ValidateTarget:
		return "validate_target"
	case ProcessTasks:
		return "process_tasks"
	case SaveCache:
		return "save_cache"
	default:
		return ""
	}
}

func fetchTasksUpdate(step, total int, source string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTasks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching tasks from %s...", source),
	}
}

func validateTargetUpdate(step, total int, exporter string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateTarget,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Validating %s configuration...", exporter),
	}
}

func processTaskUpdate(step, total int, task models.Task) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessTasks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing task %d/%d: %s", step, total, task.Title),
		Data:    task,
	}
}

func saveCacheUpdate(step, total, entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Saving sync cache (%d entries)...", entries),
	}
}

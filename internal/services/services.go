// package services defines interface TaskSource for fetching task records
// from remote structured data stores (Notion)
package services

import (
	"context"

	"github.com/desertthunder/notioncal/internal/models"
)

// TaskSource defines the interface for remote task providers.
//
// A source returns a complete snapshot of tasks per call; pagination is an
// implementation detail. Fetch failures are fatal to the run.
type TaskSource interface {
	// FetchTasks retrieves all tasks from the source.
	FetchTasks(ctx context.Context) ([]models.Task, error)

	// Name returns the name of the source (e.g., "Notion")
	Name() string
}

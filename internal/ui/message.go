package ui

import (
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/tasks"
)

// tasksFetchedMsg carries the task snapshot loaded on startup.
type tasksFetchedMsg struct {
	tasks []models.Task
	err   error
}

// progressUpdateMsg wraps one engine progress update.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg carries the final export result.
type syncCompleteMsg struct {
	result *models.ExportResult
	err    error
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/notioncal/internal/models"
)

var _ list.Item = taskItem{}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }
func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string {
	desc := "no due date"
	if i.task.HasDueDate() {
		desc = "due " + i.task.DueStart
		if i.task.DueEnd != "" {
			desc = fmt.Sprintf("%s → %s", desc, i.task.DueEnd)
		}
	}
	if i.task.Status != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.task.Status)
	}
	return desc
}

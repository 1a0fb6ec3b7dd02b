// package formatter renders tasks, sync results, and run history to
// CLI-friendly formats (plain text, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/services"
	"github.com/desertthunder/notioncal/internal/tasks"
)

// TaskList renders tasks as a compact one-line-per-task listing.
func TaskList(taskList []models.Task) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tasks: %d\n\n", len(taskList)))

	for i, task := range taskList {
		due := ""
		if task.HasDueDate() {
			due = " due " + task.DueStart
			if task.DueEnd != "" {
				due += " → " + task.DueEnd
			}
		}
		status := ""
		if task.Status != "" {
			status = fmt.Sprintf(" (%s)", task.Status)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s%s [%s]\n", i+1, task.Title, status, due, task.ID))
	}

	return buf.Bytes()
}

// PageDetails renders every property of each page using its display value.
//
// Property names are sorted so output is stable across runs.
func PageDetails(pages []services.NotionPage) []byte {
	var buf bytes.Buffer

	for i, page := range pages {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("Page %s\n", page.ID))
		if page.URL != "" {
			buf.WriteString(fmt.Sprintf("  URL: %s\n", page.URL))
		}

		names := make([]string, 0, len(page.Properties))
		for name := range page.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prop := page.Properties[name]
			buf.WriteString(fmt.Sprintf("  %s: %s\n", name, prop.DisplayValue()))
		}
	}

	return buf.Bytes()
}

// ResultToText converts an ExportResult to a plain text summary
func ResultToText(result *models.ExportResult) []byte {
	var buf bytes.Buffer

	if result.Success {
		buf.WriteString("Export complete\n")
	} else {
		buf.WriteString("Export finished with errors\n")
	}

	buf.WriteString(fmt.Sprintf("  Created: %d\n", result.Created))
	buf.WriteString(fmt.Sprintf("  Updated: %d\n", result.Updated))
	buf.WriteString(fmt.Sprintf("  Skipped: %d\n", result.Skipped))
	buf.WriteString(fmt.Sprintf("  Errors:  %d\n", len(result.Errors)))

	if len(result.Errors) > 0 {
		buf.WriteString("\nFailed tasks:\n")
		for _, record := range result.Errors {
			buf.WriteString(fmt.Sprintf("  - %s (%s): %s\n", record.Title, record.TaskID, record.Message))
		}
	}

	return buf.Bytes()
}

// ResultToMarkdown converts an ExportResult to a Markdown summary
func ResultToMarkdown(result *models.ExportResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Export Result\n\n")
	buf.WriteString("| Created | Updated | Skipped | Errors |\n")
	buf.WriteString("|---------|---------|---------|--------|\n")
	buf.WriteString(fmt.Sprintf("| %d | %d | %d | %d |\n", result.Created, result.Updated, result.Skipped, len(result.Errors)))

	if len(result.Errors) > 0 {
		buf.WriteString("\n## Errors\n\n")
		for _, record := range result.Errors {
			buf.WriteString(fmt.Sprintf("- **%s** (`%s`): %s\n", record.Title, record.TaskID, record.Message))
		}
	}

	return buf.Bytes()
}

// ResultToJSON converts an ExportResult to indented JSON
func ResultToJSON(result *models.ExportResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// PlanToText renders dry-run decisions as a plain text report.
func PlanToText(decisions []tasks.Decision) []byte {
	var buf bytes.Buffer

	var creates, updates, skips int
	for _, decision := range decisions {
		switch decision.Action {
		case tasks.ActionCreate:
			creates++
		case tasks.ActionUpdate:
			updates++
		case tasks.ActionSkip:
			skips++
		}
	}

	buf.WriteString(fmt.Sprintf("Plan: %d to create, %d to update, %d to skip\n\n", creates, updates, skips))

	for _, decision := range decisions {
		line := fmt.Sprintf("  %-6s %s", strings.ToUpper(decision.Action.String()), decision.Task.Title)
		if decision.Action == tasks.ActionSkip {
			line += fmt.Sprintf(" (%s)", decision.Reason)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// RunsToText renders run history rows, newest first as given.
func RunsToText(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No runs recorded\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("%-20s  %-16s  %-8s  %s\n", "STARTED", "EXPORTER", "STATUS", "RESULT"))
	for _, run := range runs {
		status := "ok"
		if !run.Success() {
			status = "failed"
		}
		summary := fmt.Sprintf("+%d ~%d =%d !%d", run.Created(), run.Updated(), run.Skipped(), run.ErrorCount())
		buf.WriteString(fmt.Sprintf("%-20s  %-16s  %-8s  %s\n",
			run.StartedAt().Format(time.DateTime),
			run.Exporter(),
			status,
			summary,
		))
	}

	return buf.Bytes()
}

package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/services"
	"github.com/desertthunder/notioncal/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TaskListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       services.TaskSource
	engine       tasks.SyncEngine
	width        int
	height       int
	taskList     list.Model
	tasksData    []models.Task
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *models.ExportResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source services.TaskSource, engine tasks.SyncEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   TaskListView,
		source: source,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching tasks from the source.
func (m *Model) Init() tea.Cmd {
	return m.fetchTasks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.taskList.Width() == 0 {
			m.taskList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TaskListView:
			return m.handleTaskListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case tasksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.tasksData = msg.tasks
		items := make([]list.Item, len(msg.tasks))
		for i, task := range msg.tasks {
			items[i] = taskItem{task: task}
		}
		m.taskList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.taskList.Title = fmt.Sprintf("Tasks from %s", m.source.Name())
		m.taskList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TaskListView:
		return m.renderTaskList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTaskListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TaskListView
		return m, nil
	case "y":
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = TaskListView
		m.result = nil
		m.err = nil
		return m, m.fetchTasks()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == TaskListView {
		m.taskList, cmd = m.taskList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchTasks() tea.Cmd {
	return func() tea.Msg {
		taskList, err := m.source.FetchTasks(m.ctx)
		return tasksFetchedMsg{tasks: taskList, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Reconcile(m.ctx, m.progressChan, m.tasksData)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTaskList() string {
	exportKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export"))
	helpKeys := []key.Binding{exportKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.taskList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Export tasks to Apple Calendar?")
	info := fmt.Sprintf("\nTasks: %d\n", len(m.tasksData))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Exporting Tasks")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTasks:
		phase = "Fetching tasks..."
	case tasks.ValidateTarget:
		phase = "Validating calendar..."
	case tasks.ProcessTasks:
		phase = fmt.Sprintf("Processing tasks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.SaveCache:
		phase = "Saving sync cache..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	var title string
	if m.result.Success {
		title = styles.ok.Render("✓ Export Complete!")
	} else {
		title = styles.warn.Render("Export finished with errors")
	}

	info := fmt.Sprintf(
		"\nCreated: %d\nUpdated: %d\nSkipped: %d",
		m.result.Created,
		m.result.Updated,
		m.result.Skipped,
	)

	var failed string
	if len(m.result.Errors) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to export %d tasks:", len(m.result.Errors))))
		for _, record := range m.result.Errors {
			failed += fmt.Sprintf("\n  • %s: %s", record.Title, record.Message)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}

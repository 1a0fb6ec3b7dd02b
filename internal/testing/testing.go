// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/notioncal/internal/exporters"
	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/shared"
)

// MockSource is a test double for [services.TaskSource]
type MockSource struct {
	Tasks []models.Task
	Err   error
}

func (m *MockSource) FetchTasks(ctx context.Context) ([]models.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tasks, nil
}

func (m *MockSource) Name() string { return "mock source" }

// MockExporter is a test double for [exporters.Exporter].
//
// Creates return "ev-" + task ID so assertions can predict target IDs.
type MockExporter struct {
	Opts        exporters.Options
	ValidateErr error
	CreateErr   error
	UpdateErr   error

	Created []string
	Updated []string
}

func (m *MockExporter) Name() string               { return "mock" }
func (m *MockExporter) Options() exporters.Options { return m.Opts }

func (m *MockExporter) ValidateConfig(ctx context.Context) error { return m.ValidateErr }

func (m *MockExporter) Create(ctx context.Context, task models.Task) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.Created = append(m.Created, task.ID)
	return "ev-" + task.ID, nil
}

func (m *MockExporter) Update(ctx context.Context, targetID string, task models.Task) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = append(m.Updated, targetID)
	return nil
}

// MockCalendarStore is an in-memory test double for [exporters.CalendarStore].
type MockCalendarStore struct {
	Dests  []exporters.Destination
	Events map[string]exporters.Event

	nextID int
}

func (m *MockCalendarStore) Destinations(ctx context.Context) ([]exporters.Destination, error) {
	if len(m.Dests) == 0 {
		return []exporters.Destination{{Name: "iCloud", Type: "caldav"}}, nil
	}
	return m.Dests, nil
}

func (m *MockCalendarStore) EnsureCalendar(ctx context.Context, name string) (string, error) {
	return "cal-" + name, nil
}

func (m *MockCalendarStore) CreateEvent(ctx context.Context, calendarID string, ev exporters.Event) (string, error) {
	if m.Events == nil {
		m.Events = make(map[string]exporters.Event)
	}
	m.nextID++
	id := fmt.Sprintf("event-%d", m.nextID)
	m.Events[id] = ev
	return id, nil
}

func (m *MockCalendarStore) UpdateEvent(ctx context.Context, calendarID, eventID string, ev exporters.Event) error {
	if _, ok := m.Events[eventID]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrEventNotFound, eventID)
	}
	m.Events[eventID] = ev
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/notioncal/internal/shared"
)

const testDatabaseID = "db123"

// newNotionTestServer serves a database lookup and a paged data source query.
func newNotionTestServer(t *testing.T, pages []string, pageSize int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/databases/"+testDatabaseID, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Notion-Version"); got == "" {
			t.Error("expected Notion-Version header")
		}
		fmt.Fprint(w, `{"id": "db123", "data_sources": [{"id": "ds456"}]}`)
	})

	mux.HandleFunc("/data_sources/ds456/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST query, got %s", r.Method)
		}

		var req notionQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode query request: %v", err)
		}

		start := 0
		if req.StartCursor != "" {
			fmt.Sscanf(req.StartCursor, "cursor-%d", &start)
		}

		end := start + pageSize
		if end > len(pages) {
			end = len(pages)
		}

		resp := map[string]any{
			"results":  jsonSlice(pages[start:end]),
			"has_more": end < len(pages),
		}
		if end < len(pages) {
			resp["next_cursor"] = fmt.Sprintf("cursor-%d", end)
		}

		json.NewEncoder(w).Encode(resp)
	})

	return httptest.NewServer(mux)
}

func jsonSlice(pages []string) []json.RawMessage {
	out := make([]json.RawMessage, len(pages))
	for i, p := range pages {
		out[i] = json.RawMessage(p)
	}
	return out
}

func taskPage(id, title, dueStart, dueEnd, status string) string {
	page := map[string]any{
		"id":               id,
		"url":              "https://notion.so/" + id,
		"created_time":     "2025-01-01T00:00:00Z",
		"last_edited_time": "2025-01-02T00:00:00Z",
		"properties": map[string]any{
			"Task name": map[string]any{
				"type":  "title",
				"title": []map[string]any{{"plain_text": title}},
			},
		},
	}
	props := page["properties"].(map[string]any)
	if dueStart != "" {
		date := map[string]any{"start": dueStart}
		if dueEnd != "" {
			date["end"] = dueEnd
		}
		props["Due"] = map[string]any{"type": "date", "date": date}
	}
	if status != "" {
		props["Status"] = map[string]any{"type": "status", "status": map[string]any{"name": status}}
	}

	data, _ := json.Marshal(page)
	return string(data)
}

func TestNotionService(t *testing.T) {
	t.Run("NewNotionService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			svc, err := NewNotionService("secret_token", testDatabaseID, "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.Name() != "Notion" {
				t.Errorf("expected service name 'Notion', got %s", svc.Name())
			}
			if svc.titleProperty != "Task name" {
				t.Errorf("expected default title property 'Task name', got %s", svc.titleProperty)
			}
		})

		t.Run("Missing Token", func(t *testing.T) {
			if _, err := NewNotionService("", testDatabaseID, ""); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Database ID", func(t *testing.T) {
			if _, err := NewNotionService("secret_token", "", ""); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("FetchTasks", func(t *testing.T) {
		pages := []string{
			taskPage("t1", "Write report", "2025-12-15", "", "In progress"),
			taskPage("t2", "Team offsite", "2025-12-20", "2025-12-22", "Not started"),
			taskPage("t3", "Someday idea", "", "", ""),
		}
		server := newNotionTestServer(t, pages, 100)
		defer server.Close()

		svc, err := NewNotionService("secret_token", testDatabaseID, "")
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		svc.SetBaseURL(server.URL)
		svc.SetHTTPClient(server.Client())

		tasks, err := svc.FetchTasks(context.Background())
		if err != nil {
			t.Fatalf("failed to fetch tasks: %v", err)
		}

		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}

		if tasks[0].Title != "Write report" || tasks[0].DueStart != "2025-12-15" {
			t.Errorf("unexpected first task: %+v", tasks[0])
		}
		if tasks[1].DueEnd != "2025-12-22" {
			t.Errorf("expected multi-day due range, got %+v", tasks[1])
		}
		if tasks[2].HasDueDate() {
			t.Errorf("expected dateless task, got %+v", tasks[2])
		}
		if tasks[0].Status != "In progress" {
			t.Errorf("expected status 'In progress', got %s", tasks[0].Status)
		}
	})

	t.Run("FetchTasks paginates", func(t *testing.T) {
		var pages []string
		for i := 0; i < 250; i++ {
			pages = append(pages, taskPage(fmt.Sprintf("t%d", i), fmt.Sprintf("Task %d", i), "2025-12-15", "", ""))
		}
		server := newNotionTestServer(t, pages, 100)
		defer server.Close()

		svc, _ := NewNotionService("secret_token", testDatabaseID, "")
		svc.SetBaseURL(server.URL)
		svc.SetHTTPClient(server.Client())

		tasks, err := svc.FetchTasks(context.Background())
		if err != nil {
			t.Fatalf("failed to fetch tasks: %v", err)
		}
		if len(tasks) != 250 {
			t.Errorf("expected 250 tasks across pages, got %d", len(tasks))
		}
	})

	t.Run("FetchTasks missing database", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc, _ := NewNotionService("secret_token", testDatabaseID, "")
		svc.SetBaseURL(server.URL)
		svc.SetHTTPClient(server.Client())

		if _, err := svc.FetchTasks(context.Background()); !errors.Is(err, shared.ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("FetchTasks API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		svc, _ := NewNotionService("bad_token", testDatabaseID, "")
		svc.SetBaseURL(server.URL)
		svc.SetHTTPClient(server.Client())

		if _, err := svc.FetchTasks(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Custom title property", func(t *testing.T) {
		page := `{
			"id": "t1",
			"properties": {
				"Name": {"type": "title", "title": [{"plain_text": "Custom"}]}
			}
		}`
		server := newNotionTestServer(t, []string{page}, 100)
		defer server.Close()

		svc, _ := NewNotionService("secret_token", testDatabaseID, "Name")
		svc.SetBaseURL(server.URL)
		svc.SetHTTPClient(server.Client())

		tasks, err := svc.FetchTasks(context.Background())
		if err != nil {
			t.Fatalf("failed to fetch tasks: %v", err)
		}
		if tasks[0].Title != "Custom" {
			t.Errorf("expected title from custom property, got %s", tasks[0].Title)
		}
	})
}

func TestNotionPropertyDisplayValue(t *testing.T) {
	num := 42.5
	checked := true
	url := "https://example.com"
	empty := ""

	tests := []struct {
		name string
		prop NotionProperty
		want string
	}{
		{"title", NotionProperty{Type: "title", Title: []RichText{{PlainText: "Hello"}, {PlainText: " world"}}}, "Hello world"},
		{"empty title", NotionProperty{Type: "title"}, "<empty>"},
		{"rich_text", NotionProperty{Type: "rich_text", RichText: []RichText{{PlainText: "note"}}}, "note"},
		{"number", NotionProperty{Type: "number", Number: &num}, "42.5"},
		{"number empty", NotionProperty{Type: "number"}, "<empty>"},
		{"select", NotionProperty{Type: "select", Select: &NamedOption{Name: "High"}}, "High"},
		{"multi_select", NotionProperty{Type: "multi_select", MultiSelect: []NamedOption{{Name: "a"}, {Name: "b"}}}, "a, b"},
		{"status", NotionProperty{Type: "status", Status: &NamedOption{Name: "Done"}}, "Done"},
		{"date range", NotionProperty{Type: "date", Date: &NotionDate{Start: "2025-01-01", End: strPtr("2025-01-03")}}, "2025-01-01 → 2025-01-03"},
		{"date single", NotionProperty{Type: "date", Date: &NotionDate{Start: "2025-01-01"}}, "2025-01-01"},
		{"people", NotionProperty{Type: "people", People: []NotionUser{{Name: "Ada"}, {}}}, "Ada, Unknown"},
		{"checkbox checked", NotionProperty{Type: "checkbox", Checkbox: &checked}, "✓"},
		{"checkbox unchecked", NotionProperty{Type: "checkbox"}, "✗"},
		{"url", NotionProperty{Type: "url", URL: &url}, "https://example.com"},
		{"url empty", NotionProperty{Type: "url", URL: &empty}, "<empty>"},
		{"relation", NotionProperty{Type: "relation", Relation: []json.RawMessage{[]byte("{}")}}, "1 related item(s)"},
		{"unsupported", NotionProperty{Type: "rollup"}, "<unsupported type: rollup>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prop.DisplayValue(); got != tt.want {
				t.Errorf("DisplayValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

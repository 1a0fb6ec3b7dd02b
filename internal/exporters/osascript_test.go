package exporters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/notioncal/internal/shared"
)

func TestOSAScriptStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Destinations parses calendar names", func(t *testing.T) {
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			return "Home\nWork\n\nNotion Tasks", nil
		}}

		dests, err := store.Destinations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(dests) != 3 {
			t.Fatalf("expected 3 destinations, got %d", len(dests))
		}
		if dests[2].Name != "Notion Tasks" {
			t.Errorf("unexpected destination: %+v", dests[2])
		}
	})

	t.Run("Destinations wraps access errors", func(t *testing.T) {
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			return "", fmt.Errorf("osascript failed: Not authorized")
		}}

		if _, err := store.Destinations(ctx); !errors.Is(err, shared.ErrCalendarAccess) {
			t.Errorf("expected ErrCalendarAccess, got %v", err)
		}
	})

	t.Run("CreateEvent builds date assignments", func(t *testing.T) {
		var captured string
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			captured = script
			return "uid-123", nil
		}}

		id, err := store.CreateEvent(ctx, "Notion Tasks", Event{
			Title:     "[Notion] Write report",
			StartDate: "2025-12-15",
			AllDay:    true,
			Notes:     "Status: In progress",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "uid-123" {
			t.Errorf("expected uid-123, got %s", id)
		}

		for _, want := range []string{
			`tell calendar "Notion Tasks"`,
			`summary:"[Notion] Write report"`,
			"set year of startDate to 2025",
			"set month of startDate to 12",
			"set day of startDate to 15",
			// no explicit end: start + 1 day
			"set day of endDate to 16",
			"allday event:true",
		} {
			if !strings.Contains(captured, want) {
				t.Errorf("script missing %q:\n%s", want, captured)
			}
		}
	})

	t.Run("CreateEvent with explicit end date", func(t *testing.T) {
		var captured string
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			captured = script
			return "uid-456", nil
		}}

		_, err := store.CreateEvent(ctx, "cal", Event{Title: "t", StartDate: "2025-12-20", EndDate: "2025-12-22", AllDay: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(captured, "set day of endDate to 22") {
			t.Errorf("expected explicit end date in script:\n%s", captured)
		}
	})

	t.Run("CreateEvent rejects bad dates", func(t *testing.T) {
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			t.Fatal("script should not run for invalid dates")
			return "", nil
		}}

		if _, err := store.CreateEvent(ctx, "cal", Event{Title: "t", StartDate: "not-a-date"}); err == nil {
			t.Error("expected error for invalid start date")
		}
	})

	t.Run("CreateEvent accepts datetime starts", func(t *testing.T) {
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			return "uid-789", nil
		}}

		if _, err := store.CreateEvent(ctx, "cal", Event{Title: "t", StartDate: "2025-12-15T10:00:00Z"}); err != nil {
			t.Errorf("expected RFC3339 start to parse, got %v", err)
		}
	})

	t.Run("UpdateEvent maps missing events to drift error", func(t *testing.T) {
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			return "", fmt.Errorf("osascript failed: exit 1: event not found (-2700)")
		}}

		err := store.UpdateEvent(ctx, "cal", "uid-gone", Event{Title: "t", StartDate: "2025-12-15"})
		if !errors.Is(err, shared.ErrEventNotFound) {
			t.Errorf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("UpdateEvent passes through other errors", func(t *testing.T) {
		store := &OSAScriptStore{run: func(ctx context.Context, script string) (string, error) {
			return "", fmt.Errorf("osascript failed: timeout")
		}}

		err := store.UpdateEvent(ctx, "cal", "uid-1", Event{Title: "t", StartDate: "2025-12-15"})
		if err == nil || errors.Is(err, shared.ErrEventNotFound) {
			t.Errorf("expected passthrough error, got %v", err)
		}
	})
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`has "quotes"`, `"has \"quotes\""`},
		{`back\slash`, `"back\\slash"`},
	}

	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

package exporters

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/desertthunder/notioncal/internal/shared"
)

// scriptRunner executes an AppleScript source and returns its output.
// Injected in tests.
type scriptRunner func(ctx context.Context, script string) (string, error)

// OSAScriptStore implements [CalendarStore] by driving Calendar.app through
// osascript. Only available on macOS.
//
// Calendars are created in the default account; when an explicit account is
// wanted the calendar should be created there first and named in the config.
type OSAScriptStore struct {
	run scriptRunner
}

// NewOSAScriptStore creates a Calendar.app-backed store. Fails on non-macOS
// platforms or when osascript is not on PATH.
func NewOSAScriptStore() (*OSAScriptStore, error) {
	if runtime.GOOS != "darwin" {
		return nil, fmt.Errorf("%w: Apple Calendar requires macOS, running on %s", shared.ErrUnsupportedPlatform, runtime.GOOS)
	}
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("%w: osascript not found", shared.ErrUnsupportedPlatform)
	}
	return &OSAScriptStore{run: runOSAScript}, nil
}

func runOSAScript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("osascript failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// Destinations lists Calendar.app calendars. AppleScript does not expose
// account sources, so every destination reports type "calendar".
func (s *OSAScriptStore) Destinations(ctx context.Context) ([]Destination, error) {
	script := `tell application "Calendar"
	set out to ""
	repeat with c in calendars
		set out to out & name of c & linefeed
	end repeat
	return out
end tell`

	out, err := s.run(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCalendarAccess, err)
	}

	var destinations []Destination
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		destinations = append(destinations, Destination{Name: name, Type: "calendar"})
	}
	return destinations, nil
}

// EnsureCalendar creates the named calendar when missing and returns its name,
// which Calendar.app scripting uses as the identifier.
func (s *OSAScriptStore) EnsureCalendar(ctx context.Context, name string) (string, error) {
	script := fmt.Sprintf(`tell application "Calendar"
	if not (exists calendar %s) then
		make new calendar with properties {name:%s}
	end if
	return name of calendar %s
end tell`, quote(name), quote(name), quote(name))

	out, err := s.run(ctx, script)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCalendarNotFound, err)
	}
	return out, nil
}

// CreateEvent adds an all-day event and returns its uid.
func (s *OSAScriptStore) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
	dates, err := eventDateScript(ev)
	if err != nil {
		return "", err
	}

	script := fmt.Sprintf(`tell application "Calendar"
	tell calendar %s
%s
		set ev to make new event with properties {summary:%s, start date:startDate, end date:endDate, allday event:%t, description:%s}
		return uid of ev
	end tell
end tell`, quote(calendarID), dates, quote(ev.Title), ev.AllDay, quote(ev.Notes))

	uid, err := s.run(ctx, script)
	if err != nil {
		return "", err
	}
	if uid == "" {
		return "", fmt.Errorf("calendar returned empty event id")
	}
	return uid, nil
}

// UpdateEvent rewrites the event with the given uid.
func (s *OSAScriptStore) UpdateEvent(ctx context.Context, calendarID, eventID string, ev Event) error {
	dates, err := eventDateScript(ev)
	if err != nil {
		return err
	}

	script := fmt.Sprintf(`tell application "Calendar"
	tell calendar %s
		set evs to (every event whose uid is %s)
		if (count of evs) is 0 then error "event not found"
		set ev to item 1 of evs
%s
		set summary of ev to %s
		set start date of ev to startDate
		set end date of ev to endDate
		set allday event of ev to %t
		set description of ev to %s
	end tell
end tell`, quote(calendarID), quote(eventID), dates, quote(ev.Title), ev.AllDay, quote(ev.Notes))

	if _, err := s.run(ctx, script); err != nil {
		if strings.Contains(err.Error(), "event not found") {
			return fmt.Errorf("%w: %s", shared.ErrEventNotFound, eventID)
		}
		return err
	}
	return nil
}

// eventDateScript builds locale-independent AppleScript date assignments.
// Setting day to 1 before month avoids end-of-month rollover.
func eventDateScript(ev Event) (string, error) {
	start, err := parseEventDate(ev.StartDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date %q: %w", ev.StartDate, err)
	}

	end := start.AddDate(0, 0, 1)
	if ev.EndDate != "" {
		end, err = parseEventDate(ev.EndDate)
		if err != nil {
			return "", fmt.Errorf("invalid end date %q: %w", ev.EndDate, err)
		}
	}

	return dateAssign("startDate", start) + "\n" + dateAssign("endDate", end), nil
}

func dateAssign(variable string, t time.Time) string {
	return fmt.Sprintf(`		set %s to (current date)
		set time of %s to 0
		set day of %s to 1
		set year of %s to %d
		set month of %s to %d
		set day of %s to %d`,
		variable, variable, variable,
		variable, t.Year(), variable, int(t.Month()), variable, t.Day())
}

// parseEventDate accepts the date layouts Notion emits.
func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// quote escapes a string for embedding in AppleScript source.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

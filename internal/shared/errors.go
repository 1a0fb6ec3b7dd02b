package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrDatabaseNotFound   = fmt.Errorf("notion database not found")

	// Exporter errors
	ErrUnknownExporter     = fmt.Errorf("unknown exporter")
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")
	ErrCalendarNotFound    = fmt.Errorf("calendar not found")
	ErrCalendarAccess      = fmt.Errorf("calendar access denied")
	ErrEventNotFound       = fmt.Errorf("calendar event not found")
	ErrNoCalendarSource    = fmt.Errorf("no calendar account available")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

package constants

import "time"

// RFC 3339 date-time format string.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// ISO8601MillisFormat matches JavaScript's Date.toISOString output when the time is in UTC.
// The record store's date properties are written in this form.
const ISO8601MillisFormat = "2006-01-02T15:04:05.000Z07:00"

const (
	// DefaultRequestTimeout bounds a whole request, outbound calls included.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultShutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
	DefaultShutdownTimeout = 30 * time.Second
)

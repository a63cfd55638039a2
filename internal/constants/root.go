package constants

import "time"

const (
	AppName            = "ritual"
	DefaultKeyringUser = "api-token"
	DefaultConfigPath  = "~/.config/ritual/ritual.db"
	Version            = "v0.3.0"

	// DateFormat is the standard calendar-day format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"
	// TimestampFormat is the wire format for event timestamps
	TimestampFormat = time.RFC3339

	DefaultTimezone  = "Local"
	DefaultServerURL = "https://api.ritualapp.dev"

	// DefaultDebounce absorbs accidental double-taps of the complete command
	DefaultDebounce = 300 * time.Millisecond
	// DefaultUndoWindow is how long a completion stays reversible after it is recorded
	DefaultUndoWindow = 5 * time.Second
	// DefaultMaxSyncRetries bounds reconciliation attempts per queued completion
	DefaultMaxSyncRetries = 5
	// DefaultProbeInterval is how often the connectivity monitor probes the server
	DefaultProbeInterval = 30 * time.Second

	DefaultRequestTimeout = 10 * time.Second
)

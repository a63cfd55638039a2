package models

// Settings holds the user-tunable configuration stored in the local database.
type Settings struct {
	// Timezone is the IANA reference timezone for calendar-day math.
	// "Local" or empty means the system timezone.
	Timezone  string `json:"timezone"`
	ServerURL string `json:"server_url"`
	// DebounceMs suppresses repeat completions of the same habit inside the
	// window. UndoSeconds is how long a completion stays reversible.
	DebounceMs  int `json:"debounce_ms"`
	UndoSeconds int `json:"undo_seconds"`
	// MaxSyncRetries bounds reconciliation attempts before a queued
	// completion is marked failed.
	MaxSyncRetries int `json:"max_sync_retries"`
}

package models

import "time"

// CompletionStatus is the sync state of a queued completion.
type CompletionStatus string

const (
	CompletionPending CompletionStatus = "pending"
	CompletionSyncing CompletionStatus = "syncing"
	CompletionFailed  CompletionStatus = "failed"
)

// CompletionMeta carries the optional detail fields of a completion.
type CompletionMeta struct {
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Notes           string `json:"notes,omitempty"`
	// QualityRating is 1-5, 0 when unset.
	QualityRating int `json:"quality_rating,omitempty"`
}

// QueuedCompletion is a completion recorded while offline, awaiting server
// confirmation. The ID is client-generated and stable across retries so the
// server can dedup replays.
type QueuedCompletion struct {
	ID      string `json:"id"`
	HabitID string `json:"habit_id"`
	// OccurredAt is the logical event time: the moment the user acted, not
	// the moment the record was eventually synced.
	OccurredAt time.Time        `json:"occurred_at"`
	Day        string           `json:"day"` // YYYY-MM-DD in the reference timezone
	Meta       CompletionMeta   `json:"meta"`
	Status     CompletionStatus `json:"status"`
	RetryCount int              `json:"retry_count"`
	QueuedAt   time.Time        `json:"queued_at"`
}

// CompletionResult is what the controller reports back to the caller.
type CompletionResult struct {
	Success bool `json:"success"`
	// Debounced is set when the call was absorbed as a duplicate tap.
	Debounced bool `json:"debounced,omitempty"`
	// AlreadyCompleted is set when the habit already has a completion for
	// today, confirmed or queued.
	AlreadyCompleted bool `json:"already_completed,omitempty"`
	// Queued is set when the completion went to the offline queue instead of
	// the server.
	Queued       bool          `json:"queued,omitempty"`
	CompletionID string        `json:"completion_id,omitempty"`
	Streak       *StreakUpdate `json:"streak,omitempty"`
	// Retryable is set on failure when the error was transient.
	Retryable bool `json:"retryable,omitempty"`
}

// SyncSummary aggregates the outcome of one reconciliation pass.
type SyncSummary struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

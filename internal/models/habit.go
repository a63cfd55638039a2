package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// HabitStatus is the locally cached completion view of a single habit. It
// mirrors server truth between syncs and carries optimistic projections in
// between. All writes to it go through the controller or the reconciler.
type HabitStatus struct {
	HabitID string `json:"habit_id"`
	// CompletionID is the server id of the most recent confirmed completion,
	// empty while the completion is only queued locally.
	CompletionID string       `json:"completion_id,omitempty"`
	Streak       StreakRecord `json:"streak"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CompletedOn reports whether the habit has a completion recorded for the
// given calendar day (YYYY-MM-DD).
func (s HabitStatus) CompletedOn(day string) bool {
	return s.Streak.LastCompletedDate == day
}

// HabitWithStatus pairs a habit definition with its cached completion state.
type HabitWithStatus struct {
	Habit  Habit       `json:"habit"`
	Status HabitStatus `json:"status"`
}

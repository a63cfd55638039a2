package storage

import (
	"errors"

	"github.com/ritualapp/ritual-cli/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits (local mirror of habit definitions)
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Completion queue. The queue stores status and retry counts only;
	// failure classification is the reconciler's job.
	EnqueueCompletion(models.QueuedCompletion) error
	GetQueuedCompletion(id string) (models.QueuedCompletion, error)
	// ListPendingCompletions returns pending records in enqueue order, which
	// is also the retry order.
	ListPendingCompletions() ([]models.QueuedCompletion, error)
	ListFailedCompletions() ([]models.QueuedCompletion, error)
	UpdateCompletionStatus(id string, status models.CompletionStatus) error
	IncrementCompletionRetry(id string) error
	// RequeueCompletion puts a failed record back in the pending stream with
	// a fresh retry budget.
	RequeueCompletion(id string) error
	RemoveCompletion(id string) error
	// HasCompletionToday reports whether a pending or syncing record exists
	// for the habit on the given day. It must see offline-queued items, not
	// just server state.
	HasCompletionToday(habitID, day string) (bool, error)
	CountCompletionsByStatus(status models.CompletionStatus) (int, error)

	// Cached habit completion state
	GetHabitStatus(habitID string) (models.HabitStatus, error)
	SaveHabitStatus(models.HabitStatus) error
	DeleteHabitStatus(habitID string) error
	// ReplaceHabitStatuses swaps the whole cache for server truth after a
	// reconciliation pass.
	ReplaceHabitStatuses([]models.HabitStatus) error

	// Utils
	GetConfigPath() string
}

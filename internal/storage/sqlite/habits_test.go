package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
)

func TestHabitCRUD(t *testing.T) {
	s := newTestStore(t)

	habit := models.Habit{
		ID:        "h1",
		Name:      "meditate",
		CreatedAt: time.Now().Truncate(time.Second),
	}
	if err := s.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	got, err := s.GetHabit("h1")
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if got.Name != "meditate" {
		t.Errorf("Name = %q, want meditate", got.Name)
	}

	byName, err := s.GetHabitByName("meditate")
	if err != nil {
		t.Fatalf("failed to get habit by name: %v", err)
	}
	if byName.ID != "h1" {
		t.Errorf("ID = %q, want h1", byName.ID)
	}

	if _, err := s.GetHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHabitArchiveAndDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddHabit(models.Habit{ID: "h1", Name: "run", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := s.AddHabit(models.Habit{ID: "h2", Name: "read", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := s.ArchiveHabit("h1"); err != nil {
		t.Fatalf("failed to archive: %v", err)
	}

	active, err := s.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(active) != 1 || active[0].ID != "h2" {
		t.Errorf("active habits = %+v, want only h2", active)
	}

	all, err := s.GetAllHabits(true, false)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d habits including archived, want 2", len(all))
	}

	if err := s.UnarchiveHabit("h1"); err != nil {
		t.Fatalf("failed to unarchive: %v", err)
	}
	if err := s.DeleteHabit("h2"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := s.GetHabit("h2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted habit still visible: %v", err)
	}
	if err := s.RestoreHabit("h2"); err != nil {
		t.Fatalf("failed to restore: %v", err)
	}
	if _, err := s.GetHabit("h2"); err != nil {
		t.Errorf("restored habit not visible: %v", err)
	}

	if err := s.ArchiveHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound archiving missing habit, got %v", err)
	}
}

func TestHabitStatusRoundTrip(t *testing.T) {
	s := newTestStore(t)

	st := models.HabitStatus{
		HabitID:      "h1",
		CompletionID: "srv-42",
		Streak: models.StreakRecord{
			CurrentStreak:     6,
			LongestStreak:     9,
			LastCompletedDate: "2026-04-10",
		},
		UpdatedAt: time.Now().Truncate(time.Second),
	}
	if err := s.SaveHabitStatus(st); err != nil {
		t.Fatalf("failed to save status: %v", err)
	}

	got, err := s.GetHabitStatus("h1")
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}
	if got.Streak != st.Streak || got.CompletionID != st.CompletionID {
		t.Errorf("got %+v, want %+v", got, st)
	}

	// Upsert replaces
	st.Streak.CurrentStreak = 7
	if err := s.SaveHabitStatus(st); err != nil {
		t.Fatalf("failed to upsert status: %v", err)
	}
	got, err = s.GetHabitStatus("h1")
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}
	if got.Streak.CurrentStreak != 7 {
		t.Errorf("CurrentStreak = %d after upsert, want 7", got.Streak.CurrentStreak)
	}

	if err := s.DeleteHabitStatus("h1"); err != nil {
		t.Fatalf("failed to delete status: %v", err)
	}
	if _, err := s.GetHabitStatus("h1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReplaceHabitStatuses(t *testing.T) {
	s := newTestStore(t)

	old := models.HabitStatus{HabitID: "h1", UpdatedAt: time.Now()}
	if err := s.SaveHabitStatus(old); err != nil {
		t.Fatalf("failed to save status: %v", err)
	}

	fresh := []models.HabitStatus{
		{HabitID: "h2", Streak: models.StreakRecord{CurrentStreak: 1, LongestStreak: 1, LastCompletedDate: "2026-04-10"}, UpdatedAt: time.Now()},
		{HabitID: "h3", Streak: models.StreakRecord{CurrentStreak: 3, LongestStreak: 5, LastCompletedDate: "2026-04-10"}, UpdatedAt: time.Now()},
	}
	if err := s.ReplaceHabitStatuses(fresh); err != nil {
		t.Fatalf("failed to replace statuses: %v", err)
	}

	if _, err := s.GetHabitStatus("h1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("stale status survived replace: %v", err)
	}
	for _, id := range []string{"h2", "h3"} {
		if _, err := s.GetHabitStatus(id); err != nil {
			t.Errorf("missing replaced status %s: %v", id, err)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := models.Settings{
		Timezone:       "Europe/Berlin",
		ServerURL:      "https://api.example.com",
		DebounceMs:     250,
		UndoSeconds:    8,
		MaxSyncRetries: 3,
	}
	if err := s.SaveSettings(want); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

package streak

import (
	"testing"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
)

func date(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeUpdate(t *testing.T) {
	tests := []struct {
		name          string
		current       models.StreakRecord
		completionDay string
		wantStreak    int
		wantLongest   int
		wantReset     bool
		wantMilestone bool
	}{
		{
			name:          "first ever completion",
			current:       models.StreakRecord{},
			completionDay: "2026-04-10",
			wantStreak:    1,
			wantLongest:   1,
		},
		{
			name: "same day is a no-op",
			current: models.StreakRecord{
				CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: "2026-04-10",
			},
			completionDay: "2026-04-10",
			wantStreak:    4,
			wantLongest:   9,
		},
		{
			name: "next day increments",
			current: models.StreakRecord{
				CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: "2026-04-10",
			},
			completionDay: "2026-04-11",
			wantStreak:    5,
			wantLongest:   9,
		},
		{
			name: "increment past longest raises longest",
			current: models.StreakRecord{
				CurrentStreak: 9, LongestStreak: 9, LastCompletedDate: "2026-04-10",
			},
			completionDay: "2026-04-11",
			wantStreak:    10,
			wantLongest:   10,
		},
		{
			name: "two day gap resets",
			current: models.StreakRecord{
				CurrentStreak: 10, LongestStreak: 10, LastCompletedDate: "2026-04-10",
			},
			completionDay: "2026-04-12",
			wantStreak:    1,
			wantLongest:   10,
			wantReset:     true,
		},
		{
			name: "three day gap resets",
			current: models.StreakRecord{
				CurrentStreak: 10, LongestStreak: 12, LastCompletedDate: "2026-04-07",
			},
			completionDay: "2026-04-10",
			wantStreak:    1,
			wantLongest:   12,
			wantReset:     true,
		},
		{
			name: "backdated completion resets",
			current: models.StreakRecord{
				CurrentStreak: 6, LongestStreak: 6, LastCompletedDate: "2026-04-10",
			},
			completionDay: "2026-04-08",
			wantStreak:    1,
			wantLongest:   6,
			wantReset:     true,
		},
		{
			name: "six becomes seven and hits the week milestone",
			current: models.StreakRecord{
				CurrentStreak: 6, LongestStreak: 6, LastCompletedDate: "2026-04-10",
			},
			completionDay: "2026-04-11",
			wantStreak:    7,
			wantLongest:   7,
			wantMilestone: true,
		},
		{
			name: "first completion is not a milestone",
			current: models.StreakRecord{
				CurrentStreak: 10, LongestStreak: 10, LastCompletedDate: "2026-04-07",
			},
			completionDay: "2026-04-10",
			wantStreak:    1,
			wantLongest:   10,
			wantReset:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeUpdate(tt.current, date(tt.completionDay), time.UTC)
			if got.Record.CurrentStreak != tt.wantStreak {
				t.Errorf("CurrentStreak = %d, want %d", got.Record.CurrentStreak, tt.wantStreak)
			}
			if got.Record.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", got.Record.LongestStreak, tt.wantLongest)
			}
			if got.WasReset != tt.wantReset {
				t.Errorf("WasReset = %v, want %v", got.WasReset, tt.wantReset)
			}
			if got.IsMilestone != tt.wantMilestone {
				t.Errorf("IsMilestone = %v, want %v", got.IsMilestone, tt.wantMilestone)
			}
			if got.Record.LongestStreak < got.Record.CurrentStreak {
				t.Errorf("invariant violated: longest %d < current %d",
					got.Record.LongestStreak, got.Record.CurrentStreak)
			}
			if tt.wantReset && got.Encouragement == "" {
				t.Error("reset produced no encouragement message")
			}
			if !tt.wantReset && got.Encouragement != "" {
				t.Errorf("non-reset produced encouragement %q", got.Encouragement)
			}
		})
	}
}

func TestComputeUpdateDeterministic(t *testing.T) {
	current := models.StreakRecord{
		CurrentStreak: 5, LongestStreak: 8, LastCompletedDate: "2026-04-08",
	}
	first := ComputeUpdate(current, date("2026-04-11"), time.UTC)
	for i := 0; i < 10; i++ {
		again := ComputeUpdate(current, date("2026-04-11"), time.UTC)
		if again != first {
			t.Fatalf("ComputeUpdate is not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestComputeUpdateSameDayIdempotent(t *testing.T) {
	record := models.StreakRecord{}
	day := date("2026-04-10")

	once := ComputeUpdate(record, day, time.UTC)
	twice := ComputeUpdate(once.Record, day, time.UTC)

	if twice.Record != once.Record {
		t.Errorf("same-day re-completion changed the record: %+v vs %+v", twice.Record, once.Record)
	}
	if twice.WasReset {
		t.Error("same-day re-completion reported a reset")
	}
}

func TestComputeUpdateTimezoneBoundary(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 03:00 UTC on the 11th is still the evening of the 10th in New York,
	// so in the user's reference timezone this is a same-day duplicate.
	current := models.StreakRecord{
		CurrentStreak: 3, LongestStreak: 3, LastCompletedDate: "2026-04-10",
	}
	instant := time.Date(2026, 4, 11, 3, 0, 0, 0, time.UTC)

	got := ComputeUpdate(current, instant, ny)
	if got.Record.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (same day in reference timezone)", got.Record.CurrentStreak)
	}

	got = ComputeUpdate(current, instant, time.UTC)
	if got.Record.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4 (next day in UTC)", got.Record.CurrentStreak)
	}
}

func TestComputeStatus(t *testing.T) {
	now := date("2026-04-11")

	tests := []struct {
		name           string
		record         models.StreakRecord
		completedToday bool
		wantAtRisk     bool
		wantProgress   float64
	}{
		{
			name:         "empty record",
			record:       models.StreakRecord{},
			wantAtRisk:   false,
			wantProgress: 0,
		},
		{
			name: "completed yesterday and not yet today is at risk",
			record: models.StreakRecord{
				CurrentStreak: 5, LongestStreak: 5, LastCompletedDate: "2026-04-10",
			},
			wantAtRisk:   true,
			wantProgress: 5.0 / 7.0,
		},
		{
			name: "completed today is not at risk",
			record: models.StreakRecord{
				CurrentStreak: 6, LongestStreak: 6, LastCompletedDate: "2026-04-11",
			},
			completedToday: true,
			wantAtRisk:     false,
			wantProgress:   6.0 / 7.0,
		},
		{
			name: "lapsed two days ago is no longer at risk",
			record: models.StreakRecord{
				CurrentStreak: 5, LongestStreak: 5, LastCompletedDate: "2026-04-09",
			},
			wantAtRisk:   false,
			wantProgress: 5.0 / 7.0,
		},
		{
			name: "between milestones",
			record: models.StreakRecord{
				CurrentStreak: 10, LongestStreak: 10, LastCompletedDate: "2026-04-11",
			},
			completedToday: true,
			wantAtRisk:     false,
			// 10 sits between the 7 and 14 day milestones
			wantProgress: 3.0 / 7.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStatus(tt.record, tt.completedToday, now, time.UTC)
			if got.AtRisk != tt.wantAtRisk {
				t.Errorf("AtRisk = %v, want %v", got.AtRisk, tt.wantAtRisk)
			}
			if diff := got.MilestoneProgress - tt.wantProgress; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("MilestoneProgress = %f, want %f", got.MilestoneProgress, tt.wantProgress)
			}
			if got.MilestoneProgress < 0 || got.MilestoneProgress > 1 {
				t.Errorf("MilestoneProgress %f out of [0,1]", got.MilestoneProgress)
			}
			if got.NextMilestone == nil {
				t.Error("NextMilestone is nil")
			}
		})
	}
}

// Package streak holds the deterministic streak transition function shared
// by the optimistic client path and the authoritative server path. Given
// identical inputs both sides must produce identical output; that identity
// is what makes optimistic updates safe to show before the server confirms.
package streak

import (
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/utils"
)

// ComputeUpdate applies one completion to a streak record and returns the
// resulting state. It is pure and total: no I/O, no clock reads, and no
// errors for any well-formed record.
//
// Transition rules:
//   - no prior completion: the streak starts at 1
//   - same calendar day as the last completion: no-op (same-day dedup)
//   - exactly the next calendar day: increment
//   - anything else (gap, backdate, future date): reset to 1
func ComputeUpdate(current models.StreakRecord, completionDate time.Time, loc *time.Location) models.StreakUpdate {
	day := utils.DayOf(completionDate, loc)

	if current.LastCompletedDate == "" {
		return finish(current, 1, day, false)
	}

	gap, err := utils.DaysBetween(current.LastCompletedDate, day, loc)
	if err != nil {
		// A malformed stored date can only come from outside the engine.
		// Treat it as no prior history rather than failing.
		return finish(current, 1, day, false)
	}

	switch {
	case gap == 0:
		// Completing twice on the same day never advances or resets.
		return models.StreakUpdate{Record: current}
	case gap == 1:
		return finish(current, current.CurrentStreak+1, day, false)
	default:
		return finish(current, 1, day, true)
	}
}

func finish(current models.StreakRecord, newStreak int, day string, wasReset bool) models.StreakUpdate {
	record := models.StreakRecord{
		CurrentStreak:     newStreak,
		LongestStreak:     max(current.LongestStreak, newStreak),
		LastCompletedDate: day,
	}
	update := models.StreakUpdate{
		Record:   record,
		WasReset: wasReset,
	}
	if m := MilestoneFor(newStreak); m != nil {
		update.IsMilestone = true
		update.Milestone = m
	}
	if wasReset {
		update.Encouragement = pickEncouragement(fmt.Sprintf("%s/%d", day, current.CurrentStreak))
	}
	return update
}

// ComputeStatus derives the display state of a streak record: whether the
// streak is at risk of lapsing today, and how far along the user is toward
// the next milestone.
func ComputeStatus(record models.StreakRecord, completedToday bool, now time.Time, loc *time.Location) models.StreakInfo {
	info := models.StreakInfo{
		CurrentStreak:  record.CurrentStreak,
		LongestStreak:  record.LongestStreak,
		CompletedToday: completedToday,
	}

	if record.CurrentStreak > 0 && !completedToday && record.LastCompletedDate != "" {
		gap, err := utils.DaysBetween(record.LastCompletedDate, utils.DayOf(now, loc), loc)
		// At risk means the last completion was exactly yesterday: the streak
		// survives only if today gets a completion before it ends.
		info.AtRisk = err == nil && gap == 1
	}

	next := NextMilestone(record.CurrentStreak)
	info.NextMilestone = &next
	prev := PrevMilestone(record.CurrentStreak)
	if span := next.Days - prev; span > 0 {
		info.MilestoneProgress = float64(record.CurrentStreak-prev) / float64(span)
	}
	return info
}

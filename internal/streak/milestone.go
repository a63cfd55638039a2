package streak

import "github.com/ritualapp/ritual-cli/internal/models"

// ladder is the fixed set of celebrated streak lengths. Past the last entry
// every further multiple of repeatEvery days counts as a milestone.
var ladder = []models.Milestone{
	{Days: 7, Name: "One Week"},
	{Days: 14, Name: "Two Weeks"},
	{Days: 30, Name: "One Month"},
	{Days: 66, Name: "Habit Formed"},
	{Days: 100, Name: "Century"},
	{Days: 180, Name: "Half Year"},
	{Days: 365, Name: "One Year"},
}

const repeatEvery = 365

// MilestoneFor returns the milestone matching exactly the given streak
// length, or nil if the length is not a milestone.
func MilestoneFor(streak int) *models.Milestone {
	for i := range ladder {
		if ladder[i].Days == streak {
			m := ladder[i]
			return &m
		}
	}
	last := ladder[len(ladder)-1].Days
	if streak > last && (streak-last)%repeatEvery == 0 {
		years := streak / repeatEvery
		return &models.Milestone{Days: streak, Name: yearName(years)}
	}
	return nil
}

// NextMilestone returns the smallest milestone strictly greater than the
// given streak length.
func NextMilestone(streak int) models.Milestone {
	for i := range ladder {
		if ladder[i].Days > streak {
			return ladder[i]
		}
	}
	last := ladder[len(ladder)-1].Days
	// Next multiple of repeatEvery past the ladder.
	n := ((streak-last)/repeatEvery + 1) * repeatEvery
	return models.Milestone{Days: last + n, Name: yearName((last + n) / repeatEvery)}
}

// PrevMilestone returns the largest milestone threshold less than or equal
// to the given streak length, or 0 when none has been reached yet.
func PrevMilestone(streak int) int {
	prev := 0
	for i := range ladder {
		if ladder[i].Days <= streak {
			prev = ladder[i].Days
		}
	}
	last := ladder[len(ladder)-1].Days
	if streak > last {
		prev = last + (streak-last)/repeatEvery*repeatEvery
	}
	return prev
}

func yearName(years int) string {
	switch years {
	case 1:
		return "One Year"
	case 2:
		return "Two Years"
	case 3:
		return "Three Years"
	default:
		return "Year After Year"
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
)

type LogCmd struct {
	Habit string `help:"Show the journal for one habit only."`
}

// Run prints the local completion journal: queued, syncing and failed
// records, plus each habit's last confirmed completion.
func (c *LogCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true, false)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(habits))
	var filterID string
	for _, h := range habits {
		names[h.ID] = h.Name
		if c.Habit != "" && h.Name == c.Habit {
			filterID = h.ID
		}
	}
	if c.Habit != "" && filterID == "" {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	pending, err := ctx.Store.ListPendingCompletions()
	if err != nil {
		return err
	}
	failed, err := ctx.Store.ListFailedCompletions()
	if err != nil {
		return err
	}

	printed := 0
	printGroup := func(title string, records []models.QueuedCompletion) {
		shown := false
		for _, qc := range records {
			if filterID != "" && qc.HabitID != filterID {
				continue
			}
			if !shown {
				fmt.Printf("%s:\n", title)
				shown = true
			}
			name := names[qc.HabitID]
			if name == "" {
				name = qc.HabitID
			}
			line := fmt.Sprintf("  %s  %s  %s", qc.OccurredAt.Format("2006-01-02 15:04"), name, qc.ID)
			if qc.RetryCount > 0 {
				line += fmt.Sprintf("  (%d attempts)", qc.RetryCount)
			}
			fmt.Println(line)
			printed++
		}
		if shown {
			fmt.Println()
		}
	}
	printGroup("Awaiting sync", pending)
	printGroup("Failed (see 'ritual sync retry' / 'ritual sync discard')", failed)

	// Last confirmed completion per habit, from the status cache.
	fmt.Println("Last completed:")
	for _, h := range habits {
		if filterID != "" && h.ID != filterID {
			continue
		}
		status, err := ctx.Store.GetHabitStatus(h.ID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if status.Streak.LastCompletedDate == "" {
			continue
		}
		fmt.Printf("  %s  %s  streak %d (best %d)\n",
			status.Streak.LastCompletedDate, h.Name,
			status.Streak.CurrentStreak, status.Streak.LongestStreak)
		printed++
	}

	if printed == 0 {
		fmt.Println("  nothing recorded yet")
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
	"github.com/ritualapp/ritual-cli/internal/streak"
	"github.com/ritualapp/ritual-cli/internal/utils"
)

var (
	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	atRiskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	ctx.MaybeStartupSync()

	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found. Add one with 'ritual habit add'.")
		return nil
	}

	now := time.Now().In(eng.Loc)
	day := utils.DayOf(now, eng.Loc)
	fmt.Printf("Habits for %s:\n\n", day)

	done := 0
	for _, habit := range habits {
		if habit.ArchivedAt != nil {
			continue
		}
		line, completed, err := todayLine(ctx, eng, habit, now)
		if err != nil {
			return err
		}
		if completed {
			done++
		}
		fmt.Println(line)
	}

	active := 0
	for _, habit := range habits {
		if habit.ArchivedAt == nil {
			active++
		}
	}
	fmt.Printf("\nDone: %d/%d", done, active)
	if !eng.Monitor.Online() {
		fmt.Printf("  %s", atRiskStyle.Render("(offline)"))
	}
	fmt.Println()
	return nil
}

func todayLine(ctx *Context, eng *Engine, habit models.Habit, now time.Time) (string, bool, error) {
	record := models.StreakRecord{}
	status, err := ctx.Store.GetHabitStatus(habit.ID)
	if err == nil {
		record = status.Streak
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", false, err
	}

	completed, err := eng.Controller.IsCompletedToday(habit.ID)
	if err != nil {
		return "", false, err
	}

	info := streak.ComputeStatus(record, completed, now, eng.Loc)

	box := "[ ]"
	if completed {
		box = doneStyle.Render("[x]")
	}
	line := fmt.Sprintf("%s %s", box, habit.Name)
	if info.CurrentStreak > 0 {
		line += "  " + streakStyle.Render(fmt.Sprintf("%dd", info.CurrentStreak))
	}
	if info.AtRisk {
		line += "  " + atRiskStyle.Render("at risk")
	}
	if info.NextMilestone != nil && info.CurrentStreak > 0 {
		line += "  " + mutedStyle.Render(fmt.Sprintf("next: %s (%d)", info.NextMilestone.Name, info.NextMilestone.Days))
	}
	return line, completed, nil
}

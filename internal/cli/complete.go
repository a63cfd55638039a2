package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/api"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
	"github.com/ritualapp/ritual-cli/internal/utils"
)

type CompleteCmd struct {
	Name     string `arg:"" help:"Habit name to complete."`
	Duration int    `help:"Minutes spent, if worth recording." default:"0"`
	Note     string `help:"Optional note for this completion." default:""`
	Rating   int    `help:"Quality rating 1-5." default:"0"`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Name)
	if err != nil {
		return err
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	ctx.MaybeStartupSync()

	meta := models.CompletionMeta{
		DurationMinutes: c.Duration,
		Notes:           c.Note,
		QualityRating:   c.Rating,
	}
	res, err := eng.Controller.Complete(context.Background(), habit.ID, meta)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("server rejected the API token; run 'ritual auth set-token'")
		}
		if res.Retryable {
			return fmt.Errorf("could not reach the server (%v); try again or go offline with RITUAL_OFFLINE=1", err)
		}
		return err
	}

	switch {
	case res.Debounced:
		// A quick duplicate tap; the first call already did the work.
		return nil
	case res.AlreadyCompleted:
		fmt.Printf("%q is already done for today.\n", c.Name)
		return nil
	}

	printStreak(c.Name, res)
	if res.Queued {
		fmt.Println("  (offline - will sync when the server is reachable)")
	}
	return nil
}

func printStreak(name string, res models.CompletionResult) {
	if res.Streak == nil {
		fmt.Printf("Completed %q.\n", name)
		return
	}
	up := res.Streak
	switch {
	case up.IsMilestone && up.Milestone != nil:
		fmt.Printf("Completed %q: %d day streak. Milestone reached: %s!\n",
			name, up.Record.CurrentStreak, up.Milestone.Name)
	case up.WasReset && up.Record.LongestStreak > 1:
		fmt.Printf("Completed %q: streak restarted at day 1. %s\n", name, up.Encouragement)
	default:
		fmt.Printf("Completed %q: %d day streak.\n", name, up.Record.CurrentStreak)
	}
}

type UndoCmd struct {
	Name string `arg:"" help:"Habit name to undo today's completion for."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Name)
	if err != nil {
		return err
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	// In-process undo window first; one-shot invocations fall through to a
	// late undo of today's completion.
	undone, err := eng.Controller.Undo(context.Background(), habit.ID)
	if err != nil {
		return err
	}
	if undone {
		fmt.Printf("Undid today's completion of %q.\n", c.Name)
		return nil
	}

	return c.lateUndo(ctx, eng, habit.ID)
}

// lateUndo reverts today's completion after the controller's window has
// passed: a queued record is simply removed, a confirmed one needs the
// server.
func (c *UndoCmd) lateUndo(ctx *Context, eng *Engine, habitID string) error {
	day := utils.DayOf(time.Now().In(eng.Loc), eng.Loc)

	// Queued-but-unsynced completion: drop it locally.
	pending, err := ctx.Store.ListPendingCompletions()
	if err != nil {
		return err
	}
	for _, qc := range pending {
		if qc.HabitID == habitID && qc.Day == day {
			if err := ctx.Store.RemoveCompletion(qc.ID); err != nil {
				return err
			}
			if err := dropProjection(ctx, habitID, day); err != nil {
				return err
			}
			fmt.Printf("Removed today's queued completion of %q.\n", c.Name)
			return nil
		}
	}

	status, err := ctx.Store.GetHabitStatus(habitID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !status.CompletedOn(day)) {
		return fmt.Errorf("%q has no completion for today", c.Name)
	}
	if err != nil {
		return err
	}

	if !eng.Monitor.Online() {
		return fmt.Errorf("cannot undo a synced completion while offline")
	}
	if err := eng.API.UndoCompletion(context.Background(), habitID); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("server rejected the API token; run 'ritual auth set-token'")
		}
		return err
	}
	if err := ctx.Store.DeleteHabitStatus(habitID); err != nil {
		return err
	}
	fmt.Printf("Undid today's completion of %q.\n", c.Name)
	fmt.Println("Streak state refreshes on the next sync.")
	return nil
}

// dropProjection removes the optimistic status row backing a removed queued
// completion, leaving confirmed server state alone.
func dropProjection(ctx *Context, habitID, day string) error {
	status, err := ctx.Store.GetHabitStatus(habitID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if status.CompletionID == "" && status.CompletedOn(day) {
		return ctx.Store.DeleteHabitStatus(habitID)
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/ritualapp/ritual-cli/internal/api"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/syncer"
	"github.com/ritualapp/ritual-cli/internal/tui"
)

type SyncCmd struct {
	Now     SyncRunCmd     `cmd:"" help:"Run one reconciliation pass." default:"1"`
	Status  SyncStatusCmd  `cmd:"" help:"Show connectivity and queue state."`
	Retry   SyncRetryCmd   `cmd:"" help:"Put a failed completion back in the sync queue."`
	Discard SyncDiscardCmd `cmd:"" help:"Drop a failed completion."`
}

type SyncRunCmd struct {
	Watch bool `help:"Keep running and sync on every reconnect."`
}

func (c *SyncRunCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	if c.Watch {
		ctx.PerformAutomaticBackup()
		go eng.Monitor.Run(context.Background())
		program := tea.NewProgram(tui.NewWatch(ctx.Store, eng.Monitor, eng.Reconciler))
		_, err := program.Run()
		return err
	}

	if !eng.Monitor.Online() {
		return fmt.Errorf("server not reachable; completions stay queued until it is")
	}

	summary, err := eng.Reconciler.Run(context.Background())
	if errors.Is(err, syncer.ErrSyncInProgress) {
		fmt.Println("A sync is already running.")
		return nil
	}
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("server rejected the API token; run 'ritual auth set-token'")
		}
		return err
	}

	fmt.Printf("Synced %d completion(s), %d failed.\n", summary.Synced, summary.Failed)
	if summary.Failed > 0 {
		fmt.Println("Inspect failures with 'ritual log' and 'ritual sync retry <id>'.")
	}
	return nil
}

type SyncStatusCmd struct{}

func (c *SyncStatusCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	pending, err := ctx.Store.CountCompletionsByStatus(models.CompletionPending)
	if err != nil {
		return err
	}
	failed, err := ctx.Store.CountCompletionsByStatus(models.CompletionFailed)
	if err != nil {
		return err
	}

	state := "offline"
	if eng.Monitor.Online() {
		state = "online"
	}
	fmt.Printf("Server:  %s (%s)\n", eng.Settings.ServerURL, state)
	fmt.Printf("Pending: %d\n", pending)
	fmt.Printf("Failed:  %d\n", failed)
	return nil
}

type SyncRetryCmd struct {
	ID string `arg:"" help:"Failed completion id (see 'ritual log')."`
}

func (c *SyncRetryCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := eng.Reconciler.RetryFailed(c.ID); err != nil {
		return err
	}
	fmt.Printf("Completion %s is queued again.\n", c.ID)
	if eng.Monitor.Online() {
		summary, err := eng.Reconciler.Run(context.Background())
		if err != nil && !errors.Is(err, syncer.ErrSyncInProgress) {
			return err
		}
		if err == nil {
			fmt.Printf("Synced %d completion(s), %d failed.\n", summary.Synced, summary.Failed)
		}
	}
	return nil
}

type SyncDiscardCmd struct {
	ID  string `arg:"" help:"Failed completion id (see 'ritual log')."`
	Yes bool   `help:"Skip the confirmation prompt."`
}

func (c *SyncDiscardCmd) Run(ctx *Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	if !c.Yes {
		var confirmed bool
		err := huh.NewConfirm().
			Title("Discard this completion?").
			Description("The record is dropped for good; the server never sees it.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := eng.Reconciler.DiscardFailed(c.ID); err != nil {
		return err
	}
	fmt.Printf("Discarded completion %s.\n", c.ID)
	return nil
}

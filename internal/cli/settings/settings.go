package settings

import (
	"fmt"

	"github.com/ritualapp/ritual-cli/internal/cli"
	"github.com/ritualapp/ritual-cli/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone       *string `help:"IANA reference timezone for calendar-day math (e.g. America/New_York)."`
	ServerURL      *string `name:"server-url" help:"Base URL of the ritual server."`
	DebounceMs     *int    `help:"Duplicate-tap window for completions, in milliseconds."`
	UndoSeconds    *int    `help:"How long a completion stays undoable, in seconds."`
	MaxSyncRetries *int    `help:"Sync attempts before a queued completion is marked failed."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:         %s\n", settings.Timezone)
		fmt.Printf("  Server URL:       %s\n", settings.ServerURL)
		fmt.Println("\nSync Policy:")
		fmt.Printf("  Debounce:         %d ms\n", settings.DebounceMs)
		fmt.Printf("  Undo Window:      %d s\n", settings.UndoSeconds)
		fmt.Printf("  Max Sync Retries: %d\n", settings.MaxSyncRetries)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if err := validation.ValidateTimezone(*c.Timezone); err != nil {
			return err
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.ServerURL != nil {
		settings.ServerURL = *c.ServerURL
		updated = true
	}
	if c.DebounceMs != nil {
		if *c.DebounceMs < 0 {
			return fmt.Errorf("debounce must not be negative")
		}
		settings.DebounceMs = *c.DebounceMs
		updated = true
	}
	if c.UndoSeconds != nil {
		if *c.UndoSeconds < 0 {
			return fmt.Errorf("undo window must not be negative")
		}
		settings.UndoSeconds = *c.UndoSeconds
		updated = true
	}
	if c.MaxSyncRetries != nil {
		if *c.MaxSyncRetries < 1 {
			return fmt.Errorf("max sync retries must be at least 1")
		}
		settings.MaxSyncRetries = *c.MaxSyncRetries
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/api"
	"github.com/ritualapp/ritual-cli/internal/backup"
	"github.com/ritualapp/ritual-cli/internal/config"
	"github.com/ritualapp/ritual-cli/internal/connectivity"
	"github.com/ritualapp/ritual-cli/internal/constants"
	"github.com/ritualapp/ritual-cli/internal/controller"
	"github.com/ritualapp/ritual-cli/internal/keyring"
	"github.com/ritualapp/ritual-cli/internal/logger"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
	"github.com/ritualapp/ritual-cli/internal/storage/sqlite"
	"github.com/ritualapp/ritual-cli/internal/syncer"
	"github.com/ritualapp/ritual-cli/internal/utils"
)

// Context is the dependency carrier handed to every command's Run method.
type Context struct {
	Store storage.Provider
	Env   config.Env

	engine *Engine
}

// Engine bundles the sync machinery built on top of a loaded store. It is
// assembled lazily because it needs the stored settings.
type Engine struct {
	Settings   models.Settings
	Loc        *time.Location
	API        api.Client
	Monitor    *connectivity.Monitor
	Controller *controller.Controller
	Reconciler *syncer.Reconciler
}

// Engine builds (once) the API client, connectivity monitor, completion
// controller and reconciler from the stored settings plus env overrides.
func (c *Context) Engine() (*Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q in settings: %w", settings.Timezone, err)
	}

	serverURL := settings.ServerURL
	if c.Env.ServerURL != "" {
		serverURL = c.Env.ServerURL
	}
	if serverURL == "" {
		serverURL = constants.DefaultServerURL
	}

	token := c.Env.APIToken
	if token == "" {
		token, err = keyring.GetToken()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("keyring unavailable, proceeding without token", "error", err)
		}
	}

	client := api.NewHTTPClient(serverURL, token)

	var opts []connectivity.Option
	if c.Env.Offline {
		opts = append(opts, connectivity.ForcedOffline())
	}
	monitor := connectivity.NewMonitor(client.Ping, constants.DefaultProbeInterval, opts...)
	if !c.Env.Offline {
		probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		monitor.Probe(probeCtx)
		cancel()
	}

	c.engine = &Engine{
		Settings:   settings,
		Loc:        loc,
		API:        client,
		Monitor:    monitor,
		Controller: controller.New(c.Store, client, monitor, controller.PolicyFromSettings(settings), loc, nil),
		Reconciler: syncer.New(c.Store, client, settings.MaxSyncRetries),
	}
	return c.engine, nil
}

// MaybeStartupSync drains completions queued by earlier offline sessions.
// It runs only when the server is reachable and the queue is non-empty, and
// never fails the command that triggered it.
func (c *Context) MaybeStartupSync() {
	eng, err := c.Engine()
	if err != nil || !eng.Monitor.Online() {
		return
	}
	pending, err := c.Store.CountCompletionsByStatus(models.CompletionPending)
	if err != nil || pending == 0 {
		return
	}

	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	summary, err := eng.Reconciler.Run(syncCtx)
	if err != nil {
		if !errors.Is(err, syncer.ErrSyncInProgress) {
			logger.Warn("Startup sync failed", "error", err)
		}
		return
	}
	if summary.Synced > 0 {
		fmt.Printf("Synced %d queued completion(s).\n", summary.Synced)
	}
}

// PerformAutomaticBackup creates an automatic backup and silently handles
// errors so it never interrupts the user's workflow.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveHabit finds a habit by name, active habits first.
func (c *Context) ResolveHabit(name string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByName(name)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q not found", name)
	}
	return habit, nil
}

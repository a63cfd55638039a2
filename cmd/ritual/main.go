package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ritualapp/ritual-cli/internal/cli"
	"github.com/ritualapp/ritual-cli/internal/cli/backups"
	"github.com/ritualapp/ritual-cli/internal/cli/settings"
	"github.com/ritualapp/ritual-cli/internal/cli/system"
	"github.com/ritualapp/ritual-cli/internal/config"
	"github.com/ritualapp/ritual-cli/internal/constants"
	apperrors "github.com/ritualapp/ritual-cli/internal/errors"
	"github.com/ritualapp/ritual-cli/internal/logger"
	"github.com/ritualapp/ritual-cli/internal/storage"
	"github.com/ritualapp/ritual-cli/internal/storage/postgres"
	"github.com/ritualapp/ritual-cli/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or OS keyring instead." type:"string" default:"~/.config/ritual/ritual.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd       `cmd:"" help:"Initialize ritual storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Today    cli.TodayCmd         `cmd:"" help:"Show today's habits and their completion state." default:"1"`
	Complete cli.CompleteCmd      `cmd:"" help:"Record a habit completion."`
	Undo     cli.UndoCmd          `cmd:"" help:"Undo a habit completion."`
	Log      cli.LogCmd           `cmd:"" help:"Show the local completion journal."`
	Habit    cli.HabitCmd         `cmd:"" help:"Manage habits."`
	Sync     cli.SyncCmd          `cmd:"" help:"Reconcile queued completions with the server."`
	Auth     cli.AuthCmd          `cmd:"" help:"Manage the server API token."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ritual"),
		kong.Description("Habit tracker with offline-first completion sync"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	env, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	configStr := CLI.Config
	if env.DB != "" {
		configStr = env.DB
	}

	// Initialize storage based on config format
	var store storage.Provider
	var configDir string
	if storage.IsPostgresConnString(configStr) {
		if storage.HasEmbeddedCredentials(configStr) {
			fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
			fmt.Fprintf(os.Stderr, "       Use one of these secure alternatives:\n")
			fmt.Fprintf(os.Stderr, "       1. Environment:   export RITUAL_DB=\"postgresql://user@host:5432/ritual\" with PGPASSWORD set\n")
			fmt.Fprintf(os.Stderr, "       2. .pgpass file:  Use a connection string without a password\n")
			os.Exit(1)
		}
		store = postgres.NewStore(configStr)
		userConfigDir, err := os.UserConfigDir()
		if err == nil {
			configDir = filepath.Join(userConfigDir, constants.AppName)
		}
	} else {
		dbPath, err := expandHome(configStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store = sqlite.NewStore(dbPath)
		configDir = filepath.Dir(dbPath)
	}

	if configDir != "" {
		if err := logger.Init(logger.Config{Debug: CLI.Debug || env.Debug, ConfigDir: configDir}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
		}
	}

	// Load the store before running the command. Init handles its own
	// loading, and migrate must open an outdated schema without validation.
	command := ctx.Command()
	if name, _, _ := strings.Cut(command, " "); name != "init" && name != "migrate" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store: store,
		Env:   env,
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

// expandHome resolves a leading ~ in the database path. The flag is declared
// type:"string" so kong leaves PostgreSQL connection strings alone, which
// means tilde expansion is on us.
func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

package system

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/ritualapp/ritual-cli/internal/backup"
	"github.com/ritualapp/ritual-cli/internal/cli"
	"github.com/ritualapp/ritual-cli/internal/constants"
	"github.com/ritualapp/ritual-cli/internal/keyring"
	"github.com/ritualapp/ritual-cli/internal/migration"
	"github.com/ritualapp/ritual-cli/internal/storage/sqlite"
	"github.com/ritualapp/ritual-cli/internal/validation"
	"github.com/ritualapp/ritual-cli/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	var db *sql.DB
	var driver string

	// Check 1: DB reachable
	var err error
	db, driver, err = storeHandle(ctx)
	if err == nil {
		var one int
		err = db.QueryRow("SELECT 1").Scan(&one)
	}
	if err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version / migrations complete
	if dbReachable {
		if err := checkSchemaVersion(db, driver); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Backups present (warning only, SQLite only)
	if _, ok := ctx.Store.(*sqlite.Store); ok {
		if err := checkBackupsPresent(ctx); err != nil {
			fmt.Printf("⚠ Backups present: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Backups present: OK\n")
		}
	} else {
		fmt.Printf("⊘ Backups present: SKIPPED (not using SQLite storage)\n")
	}

	// Check 4: Timezone setting valid
	if dbReachable {
		if err := checkTimezone(ctx); err != nil {
			fmt.Printf("❌ Timezone setting: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Timezone setting: OK\n")
		}
	} else {
		fmt.Printf("⊘ Timezone setting: SKIPPED (database not reachable)\n")
	}

	// Check 5: Server reachable (warning only; offline is a supported state)
	if dbReachable {
		if err := checkServerReachable(ctx); err != nil {
			fmt.Printf("⚠ Server reachable: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Server reachable: OK\n")
		}
	} else {
		fmt.Printf("⊘ Server reachable: SKIPPED (database not reachable)\n")
	}

	// Check 6: Keyring available (warning only; env var tokens still work)
	if keyring.IsAvailable() {
		fmt.Printf("✓ Keyring available: OK\n")
	} else {
		fmt.Printf("⚠ Keyring available: WARNING\n")
		fmt.Printf("   OS keyring unavailable - use RITUAL_API_TOKEN instead\n")
	}

	// Check 7: Queue integrity
	if dbReachable {
		if err := checkQueueIntegrity(db); err != nil {
			fmt.Printf("❌ Queue integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Queue integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Queue integrity: SKIPPED (database not reachable)\n")
	}

	// Check 8: Status cache integrity
	if dbReachable {
		if err := checkStatusCacheIntegrity(db); err != nil {
			fmt.Printf("❌ Status cache integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Status cache integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Status cache integrity: SKIPPED (database not reachable)\n")
	}

	// Check 9: Concurrent ritual processes (warning only)
	if err := checkConcurrentProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	// Check 10: Clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ System clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ System clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(db *sql.DB, driver string) error {
	subFS, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("failed to access %s migrations: %w", driver, err)
	}
	return migration.NewRunner(db, subFS).ValidateVersion()
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'ritual backup create'")
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.Timezone == "" {
		return fmt.Errorf("timezone is not set, run 'ritual settings --timezone <tz>'")
	}
	return validation.ValidateTimezone(settings.Timezone)
}

func checkServerReachable(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eng.API.Ping(pingCtx); err != nil {
		return fmt.Errorf("server not reachable (queued completions will sync later): %v", err)
	}
	return nil
}

// checkQueueIntegrity looks for queue records referencing missing habits and
// for duplicate pending records for the same habit and day.
func checkQueueIntegrity(db *sql.DB) error {
	var orphaned int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM completion_queue q
		LEFT JOIN habits h ON q.habit_id = h.id
		WHERE h.id IS NULL
	`).Scan(&orphaned)
	if err != nil {
		return fmt.Errorf("failed to check orphaned queue records: %w", err)
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d queue records referencing non-existent habits", orphaned)
	}

	var duplicates int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM (
			SELECT habit_id, day
			FROM completion_queue
			WHERE status IN ('pending', 'syncing')
			GROUP BY habit_id, day
			HAVING COUNT(*) > 1
		) d
	`).Scan(&duplicates)
	if err != nil {
		return fmt.Errorf("failed to check duplicate queue records: %w", err)
	}
	if duplicates > 0 {
		return fmt.Errorf("found %d habit/day pairs with duplicate pending records", duplicates)
	}
	return nil
}

func checkStatusCacheIntegrity(db *sql.DB) error {
	var orphaned int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM habit_status s
		LEFT JOIN habits h ON s.habit_id = h.id
		WHERE h.id IS NULL
	`).Scan(&orphaned)
	if err != nil {
		return fmt.Errorf("failed to check status cache: %w", err)
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d cached statuses for non-existent habits", orphaned)
	}
	return nil
}

// checkConcurrentProcesses warns when another ritual process is running,
// since a long-lived 'ritual sync --watch' holds the sync single-flight.
func checkConcurrentProcesses() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	self := os.Getpid()
	var others []int
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			others = append(others, p.Pid())
		}
	}
	if len(others) > 0 {
		return fmt.Errorf("another %s process is running (PIDs %v) - a 'ritual sync --watch' session may already be syncing", constants.AppName, others)
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

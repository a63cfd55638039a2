package system

import (
	"fmt"
	"io/fs"

	"github.com/ritualapp/ritual-cli/internal/cli"
	"github.com/ritualapp/ritual-cli/internal/migration"
	"github.com/ritualapp/ritual-cli/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	db, driver, err := storeHandle(ctx)
	if err != nil {
		return err
	}
	defer ctx.Store.Close()

	subFS, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("failed to access %s migrations: %w", driver, err)
	}

	runner := migration.NewRunner(db, subFS)
	count, err := runner.Apply(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}

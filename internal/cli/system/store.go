package system

import (
	"database/sql"
	"fmt"

	"github.com/ritualapp/ritual-cli/internal/cli"
	"github.com/ritualapp/ritual-cli/internal/storage/postgres"
	"github.com/ritualapp/ritual-cli/internal/storage/sqlite"
)

// storeHandle opens the store without schema validation and returns the raw
// connection plus the migration driver name ("sqlite" or "postgres").
func storeHandle(ctx *cli.Context) (*sql.DB, string, error) {
	switch s := ctx.Store.(type) {
	case *sqlite.Store:
		if err := s.Open(); err != nil {
			return nil, "", err
		}
		return s.GetDB(), "sqlite", nil
	case *postgres.Store:
		if err := s.Open(); err != nil {
			return nil, "", err
		}
		return s.GetDB(), "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported storage backend %T", ctx.Store)
	}
}

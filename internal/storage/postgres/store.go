package postgres

import (
	"database/sql"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/ritualapp/ritual-cli/internal/constants"
	"github.com/ritualapp/ritual-cli/internal/migration"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/migrations"
)

// Store is the PostgreSQL-backed Provider. It exists for users who point
// several machines at a shared local database; the SQLite store remains the
// default.
type Store struct {
	connStr string
	db      *sql.DB
}

func NewStore(connStr string) *Store {
	s := &Store{connStr: connStr}
	s.ensureSearchPath()
	return s
}

// ensureSearchPath pins the schema so our tables do not land in public.
func (s *Store) ensureSearchPath() {
	if !strings.HasPrefix(s.connStr, "postgres://") && !strings.HasPrefix(s.connStr, "postgresql://") {
		return
	}
	u, err := url.Parse(s.connStr)
	if err != nil {
		return
	}
	q := u.Query()
	if q.Get("search_path") == "" {
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
		s.connStr = u.String()
	}
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	settings, err := s.GetSettings()
	if err != nil || settings.Timezone == "" {
		defaults := models.Settings{
			Timezone:       constants.DefaultTimezone,
			ServerURL:      constants.DefaultServerURL,
			DebounceMs:     int(constants.DefaultDebounce.Milliseconds()),
			UndoSeconds:    int(constants.DefaultUndoWindow.Seconds()),
			MaxSyncRetries: constants.DefaultMaxSyncRetries,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.Open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

// Open opens the database connection without checking the schema version.
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}
	return s.open()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

// GetDB returns the underlying database connection, or nil when the store
// has not been opened.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// GetConfigPath returns the connection string with any userinfo stripped so
// it is safe to print.
func (s *Store) GetConfigPath() string {
	u, err := url.Parse(s.connStr)
	if err != nil {
		return s.connStr
	}
	u.User = nil
	return u.String()
}

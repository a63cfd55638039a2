package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestApplyFreshDatabase(t *testing.T) {
	db := newTestDB(t)
	r := NewRunner(db, testFS(map[string]string{
		"001_init.sql":  "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_notes.sql": "ALTER TABLE habits ADD COLUMN notes TEXT;",
	}))

	count, err := r.Apply(nil)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}

	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}

	if _, err := db.Exec("INSERT INTO habits (id, notes) VALUES ('h1', 'n')"); err != nil {
		t.Errorf("migrated schema not usable: %v", err)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := NewRunner(db, testFS(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}))

	if _, err := r.Apply(nil); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	count, err := r.Apply(nil)
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no migrations on second apply, got %d", count)
	}
}

func TestApplyPicksUpNewMigrations(t *testing.T) {
	db := newTestDB(t)

	r1 := NewRunner(db, testFS(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}))
	if _, err := r1.Apply(nil); err != nil {
		t.Fatalf("initial apply failed: %v", err)
	}

	r2 := NewRunner(db, testFS(map[string]string{
		"001_init.sql":  "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_queue.sql": "CREATE TABLE completion_queue (id TEXT PRIMARY KEY);",
	}))
	count, err := r2.Apply(nil)
	if err != nil {
		t.Fatalf("upgrade apply failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 new migration, got %d", count)
	}

	version, _ := r2.CurrentVersion()
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := newTestDB(t)
	r := NewRunner(db, testFS(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_bad.sql":  "THIS IS NOT SQL;",
	}))

	count, err := r.Apply(nil)
	if err == nil {
		t.Fatal("expected apply to fail on invalid SQL")
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", count)
	}

	version, verr := r.CurrentVersion()
	if verr != nil {
		t.Fatalf("failed to read version: %v", verr)
	}
	if version != 1 {
		t.Errorf("expected version to stay at 1 after failure, got %d", version)
	}
}

func TestReadMigrationsRejectsBadFilenames(t *testing.T) {
	db := newTestDB(t)

	for _, name := range []string{"init.sql", "abc_init.sql", "000_init.sql"} {
		r := NewRunner(db, testFS(map[string]string{name: "SELECT 1;"}))
		if _, err := r.ReadMigrations(); err == nil {
			t.Errorf("expected error for filename %q", name)
		}
	}
}

func TestReadMigrationsRejectsDuplicateVersions(t *testing.T) {
	db := newTestDB(t)
	r := NewRunner(db, testFS(map[string]string{
		"001_init.sql":  "SELECT 1;",
		"001_other.sql": "SELECT 1;",
	}))
	if _, err := r.ReadMigrations(); err == nil {
		t.Error("expected error for duplicate versions")
	}
}

func TestValidateVersion(t *testing.T) {
	db := newTestDB(t)
	full := testFS(map[string]string{
		"001_init.sql":  "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_queue.sql": "CREATE TABLE completion_queue (id TEXT PRIMARY KEY);",
	})

	// Behind: only the first migration applied.
	partial := NewRunner(db, testFS(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}))
	if _, err := partial.Apply(nil); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	err := NewRunner(db, full).ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "behind") {
		t.Errorf("expected behind error, got %v", err)
	}

	// Current: everything applied.
	if _, err := NewRunner(db, full).Apply(nil); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := NewRunner(db, full).ValidateVersion(); err != nil {
		t.Errorf("expected valid version, got %v", err)
	}

	// Ahead: binary knows fewer migrations than the database has applied.
	err = partial.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("expected newer-than-binary error, got %v", err)
	}
}

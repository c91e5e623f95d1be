package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	return db, func() { db.Close() }
}

func setupTestMigrations(t *testing.T, migrations map[string]string) fs.FS {
	dir := t.TempDir()
	for filename, content := range migrations {
		if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test migration %s: %v", filename, err)
		}
	}
	return os.DirFS(dir)
}

func TestGetCurrentVersion_FreshDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}), DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 for fresh database, got %d", version)
	}

	if err := runner.SetVersion(4); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if version, _ = runner.GetCurrentVersion(); version != 4 {
		t.Errorf("expected version 4 after SetVersion, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"002_reminders.sql":  "CREATE TABLE reminders (id INTEGER);",
		"001_activities.sql": "CREATE TABLE activities (id INTEGER);",
		"README.md":          "not a migration",
	}), DriverSQLite)

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "activities" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "reminders" {
		t.Errorf("unexpected second migration: %+v", migrations[1])
	}
}

func TestApplyMigrations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql":    "CREATE TABLE activities (id TEXT PRIMARY KEY);",
		"002_indexes.sql": "CREATE INDEX idx_activities_id ON activities(id);",
	}), DriverSQLite)

	var messages []string
	applied, err := runner.ApplyMigrations(func(msg string) { messages = append(messages, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 applied migrations, got %d", applied)
	}
	if len(messages) == 0 {
		t.Error("expected progress messages")
	}

	version, _ := runner.GetCurrentVersion()
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// second run is a no-op
	applied, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 applied migrations on second run, got %d", applied)
	}
}

func TestApplyMigrations_Incremental(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	first := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE activities (id TEXT PRIMARY KEY);",
	}), DriverSQLite)
	if _, err := first.ApplyMigrations(nil); err != nil {
		t.Fatalf("initial ApplyMigrations failed: %v", err)
	}

	second := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql":      "CREATE TABLE activities (id TEXT PRIMARY KEY);",
		"002_reminders.sql": "CREATE TABLE reminders (id INTEGER);",
	}), DriverSQLite)
	applied, err := second.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("incremental ApplyMigrations failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected only the new migration to apply, got %d", applied)
	}
}

func TestApplyMigrations_RollbackOnError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql":   "CREATE TABLE activities (id TEXT PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE reminders (id INTEGER); THIS IS NOT SQL;",
	}), DriverSQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", applied)
	}
	if !strings.Contains(err.Error(), "migration 2") {
		t.Errorf("error should name the failing migration: %v", err)
	}

	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("expected version to stay at 1, got %d", version)
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE activities (id TEXT PRIMARY KEY);",
	}), DriverSQLite)

	if err := runner.SetVersion(9); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("expected newer-schema error, got %v", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer database")
	}
}

func TestReadMigrationFiles_InvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001init.sql": "SELECT 1;"}},
		{"non-numeric version", map[string]string{"abc_init.sql": "SELECT 1;"}},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}},
		{"duplicate version", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			runner := NewRunner(db, setupTestMigrations(t, tt.files), DriverSQLite)
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("expected error for invalid migration files")
			}
		})
	}
}

func TestGetLatestVersion_Empty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, setupTestMigrations(t, map[string]string{}), DriverSQLite)
	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 0 {
		t.Errorf("expected latest version 0, got %d", latest)
	}
}

package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestMigrations(migrations map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for filename, content := range migrations {
		fsys[filename] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func newTestRunner(t *testing.T, db *sql.DB, migrations map[string]string) *Runner {
	t.Helper()
	runner, err := NewRunner(db, setupTestMigrations(migrations), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	})

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, map[string]string{
		"003_third.sql":  "CREATE TABLE third (id INTEGER);",
		"001_first.sql":  "CREATE TABLE first (id INTEGER);",
		"002_second.sql": "CREATE TABLE second (id INTEGER);",
		"README.md":      "not a migration",
	})

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	wantNames := []string{"first", "second", "third"}
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migration %d: expected version %d, got %d", i, i+1, m.Version)
		}
		if m.Name != wantNames[i] {
			t.Errorf("migration %d: expected name %q, got %q", i, wantNames[i], m.Name)
		}
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, map[string]string{
		"001_habits.sql":      "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_completions.sql": "CREATE TABLE completions (id TEXT PRIMARY KEY, habit_id TEXT);",
	})

	var logs []string
	count, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	for _, table := range []string{"habits", "completions"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	migrations := map[string]string{
		"001_habits.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}

	if _, err := newTestRunner(t, db, migrations).ApplyMigrations(nil); err != nil {
		t.Fatalf("first ApplyMigrations failed: %v", err)
	}

	migrations["002_settings.sql"] = "CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT);"
	runner := newTestRunner(t, db, migrations)

	pending, err := runner.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("expected 1 pending migration, got %d", pending)
	}

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}
}

func TestApplyMigrationsNoOp(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, map[string]string{
		"001_habits.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	})

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	var logs []string
	count, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations applied, got %d", count)
	}
	if len(logs) != 1 || !strings.Contains(logs[0], "up to date") {
		t.Errorf("expected up to date message, got %v", logs)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, map[string]string{
		"001_good.sql": "CREATE TABLE good (id INTEGER);",
		"002_bad.sql":  "CREATE TABLE broken (id INTEGER; INVALID SQL",
	})

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from invalid migration")
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after rollback, got %d", version)
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, map[string]string{
		"001_habits.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	})

	if err := runner.SetVersion(9); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil {
		t.Fatal("expected error for database newer than application")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer database")
	}
}

func TestGetLatestVersion(t *testing.T) {
	tests := []struct {
		name       string
		migrations map[string]string
		want       int
	}{
		{name: "empty", migrations: map[string]string{}, want: 0},
		{name: "single", migrations: map[string]string{"001_a.sql": "SELECT 1;"}, want: 1},
		{
			name: "gap in numbering",
			migrations: map[string]string{
				"001_a.sql": "SELECT 1;",
				"007_b.sql": "SELECT 1;",
			},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newTestRunner(t, setupTestDB(t), tt.migrations)
			got, err := runner.GetLatestVersion()
			if err != nil {
				t.Fatalf("GetLatestVersion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("GetLatestVersion() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMigrationFilenameValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{name: "no underscore", filename: "001.sql"},
		{name: "non numeric version", filename: "abc_habits.sql"},
		{name: "zero version", filename: "000_habits.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newTestRunner(t, setupTestDB(t), map[string]string{
				tt.filename: "SELECT 1;",
			})
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Errorf("expected error for filename %s", tt.filename)
			}
		})
	}
}

func TestDuplicateVersionDetection(t *testing.T) {
	runner := newTestRunner(t, setupTestDB(t), map[string]string{
		"001_first.sql": "SELECT 1;",
		"001_again.sql": "SELECT 1;",
	})

	_, err := runner.ReadMigrationFiles()
	if err == nil {
		t.Fatal("expected error for duplicate versions")
	}
	if !strings.Contains(err.Error(), "duplicate migration version") {
		t.Errorf("unexpected error: %v", err)
	}
}

package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitrack/internal/constants"
)

func setupTestDB(t *testing.T, names ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitrack.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create habits table: %v", err)
	}
	for i, name := range names {
		if _, err := db.Exec("INSERT INTO habits (id, name) VALUES (?, ?)", i, name); err != nil {
			t.Fatalf("failed to insert habit: %v", err)
		}
	}
	return dbPath
}

// steppingClock advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to count habits: %v", err)
	}
	return count
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read", "Stretch")

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(backupPath), mgr.GetBackupDir())
	}
	if !strings.HasPrefix(filepath.Base(backupPath), constants.BackupFilePrefix) {
		t.Errorf("unexpected backup name %s", filepath.Base(backupPath))
	}
	if got := countHabits(t, backupPath); got != 2 {
		t.Errorf("expected 2 habits in backup, got %d", got)
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("CreateBackup should fail without a database")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, "Read")

	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2026, 10, 1, 8, 0, 0, 0, time.Local))

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted newest first at %d", i)
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t, "Read")

	mgr := NewManager(dbPath)
	frozen := time.Date(2026, 10, 1, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return frozen }

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	// Same second: the highest counter is the newest.
	if !strings.HasSuffix(backups[0].Path, "-2"+constants.BackupFileSuffix) {
		t.Errorf("newest backup = %s, want the -2 copy", filepath.Base(backups[0].Path))
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath)
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	for _, name := range []string{"notes.txt", "habitrack-latest.db", "habitrack-2026.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}
}

func TestListBackupsMissingDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "habitrack.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
	if _, err := mgr.Latest(); !errors.Is(err, ErrNoBackups) {
		t.Errorf("Latest() error = %v, want ErrNoBackups", err)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read", "Stretch")

	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2026, 10, 1, 8, 0, 0, 0, time.Local))

	snapshot, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("DELETE FROM habits"); err != nil {
		t.Fatalf("failed to delete habits: %v", err)
	}
	db.Close()

	previous, err := mgr.RestoreBackup(snapshot)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("expected 2 habits after restore, got %d", got)
	}
	if previous == "" {
		t.Fatal("RestoreBackup should back up the current database first")
	}
	if got := countHabits(t, previous); got != 0 {
		t.Errorf("pre-restore backup holds %d habits, want 0", got)
	}

	latest, err := mgr.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Path != previous {
		t.Errorf("Latest() = %s, want the pre-restore backup %s", latest.Path, previous)
	}
}

func TestRestoreWithInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath)

	corrupt := filepath.Join(t.TempDir(), "corrupt.db")
	if err := os.WriteFile(corrupt, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
	if _, err := mgr.RestoreBackup(corrupt); err == nil {
		t.Error("RestoreBackup should reject a corrupted file")
	}

	foreign := filepath.Join(t.TempDir(), "foreign.db")
	db, _ := sql.Open("sqlite", foreign)
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatalf("failed to create foreign db: %v", err)
	}
	db.Close()
	if _, err := mgr.RestoreBackup(foreign); err == nil {
		t.Error("RestoreBackup should reject a database without habits")
	}

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("RestoreBackup should reject a missing file")
	}

	if got := countHabits(t, dbPath); got != 1 {
		t.Errorf("failed restores changed the database: %d habits", got)
	}
}

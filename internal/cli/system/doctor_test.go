package system

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitrack/internal/backup"
	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) *cli.Context {
	t.Helper()
	ctx, _ := newTestContext(t, filepath.Join(t.TempDir(), "test.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx := setupTestDoctorDB(t)
	if _, err := ctx.Tracker.Seed(now); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	// Missing backups is only a warning.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
	if checkBackupsPresent(ctx) != nil {
		t.Error("checkBackupsPresent should pass once a backup exists")
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
	if err := checkSchemaVersion(ctx); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("checkSchemaVersion() error = %v", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, out := newTestContext(t, filepath.Join(t.TempDir(), "missing.db"))

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor command should fail without a database")
	}
	if !strings.Contains(out.String(), "Database reachable: FAIL") ||
		!strings.Contains(out.String(), "Schema version: SKIPPED") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestCheckPeriodKeys(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "unparsable", key: "14/10/2026", wantErr: "invalid period key"},
		{name: "wrong period", key: "1999-01-01", wantErr: "expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDoctorDB(t)
			if _, err := ctx.Tracker.Seed(now); err != nil {
				t.Fatalf("Seed() error = %v", err)
			}
			if err := checkPeriodKeys(ctx); err != nil {
				t.Fatalf("checkPeriodKeys() on seeded data error = %v", err)
			}

			db := ctx.Store.(*sqlite.Store).GetDB()
			if _, err := db.Exec("UPDATE completions SET period_key = ? WHERE id = (SELECT id FROM completions LIMIT 1)", tt.key); err != nil {
				t.Fatalf("failed to corrupt period key: %v", err)
			}

			err := checkPeriodKeys(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("checkPeriodKeys() error = %v, want %q", err, tt.wantErr)
			}
			if err := (&DoctorCmd{}).Run(ctx); err == nil {
				t.Error("doctor command should fail with a corrupted period key")
			}
		})
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	current, _, err := schemaStatus(ctx)
	if err != nil {
		t.Fatalf("schemaStatus() error = %v", err)
	}

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", current-1); err != nil {
		t.Fatalf("failed to insert downgraded schema version: %v", err)
	}

	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestCheckSettings_InvalidTimezone(t *testing.T) {
	ctx := setupTestDoctorDB(t)
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	settings.Timezone = "Mars/Olympus_Mons"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	if err := checkSettings(ctx); err == nil {
		t.Error("checkSettings should reject an unknown timezone")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx := setupTestDoctorDB(t)
	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}

	stale := cli.NewContext(ctx.Store, ctx.Target, func() time.Time {
		return time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	if err := checkClockTimezone(stale); err == nil {
		t.Error("checkClockTimezone should flag a clock stuck in 1999")
	}
}

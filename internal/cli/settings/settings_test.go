package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/config"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	target := config.Target{Backend: config.BackendSQLite, Location: dbPath, Source: config.SourceFlag}
	ctx := cli.NewContext(store, target, time.Now)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestSettingsCmdList(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"Timezone:            Local", "Auto Backup:         true", "Default Periodicity: daily"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsCmdUpdate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SettingsCmd
		wantErr bool
	}{
		{name: "timezone", cmd: SettingsCmd{Timezone: strPtr("Europe/Berlin")}},
		{name: "bad timezone", cmd: SettingsCmd{Timezone: strPtr("Nowhere/Special")}, wantErr: true},
		{name: "auto backup", cmd: SettingsCmd{AutoBackup: boolPtr(false)}},
		{name: "periodicity", cmd: SettingsCmd{DefaultPeriodicity: strPtr("Weekly")}},
		{name: "bad periodicity", cmd: SettingsCmd{DefaultPeriodicity: strPtr("monthly")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestContext(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.Contains(out.String(), "Settings updated successfully.") {
				t.Errorf("unexpected output: %q", out.String())
			}

			got, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}
			switch {
			case tt.cmd.Timezone != nil && got.Timezone != *tt.cmd.Timezone:
				t.Errorf("timezone = %q", got.Timezone)
			case tt.cmd.AutoBackup != nil && got.AutoBackup != *tt.cmd.AutoBackup:
				t.Errorf("auto backup = %v", got.AutoBackup)
			case tt.cmd.DefaultPeriodicity != nil && got.DefaultPeriodicity != "weekly":
				t.Errorf("default periodicity = %q", got.DefaultPeriodicity)
			}
		})
	}
}

func TestSettingsCmdNoChanges(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/storage/postgres"
)

func TestLoad(t *testing.T) {
	t.Setenv(constants.EnvDB, "/tmp/h.db")
	t.Setenv(constants.EnvDBConnection, "")
	t.Setenv(constants.EnvTimezone, "Europe/Berlin")
	t.Setenv(constants.EnvDebug, "true")

	env, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if env.DB != "/tmp/h.db" || env.Timezone != "Europe/Berlin" || !env.Debug {
		t.Errorf("Load() = %+v", env)
	}
	if env.DefaultDBPath() != "/tmp/h.db" {
		t.Errorf("DefaultDBPath() = %s", env.DefaultDBPath())
	}
}

func TestLoadRejectsBadBool(t *testing.T) {
	t.Setenv(constants.EnvDebug, "sometimes")
	if _, err := Load(); err == nil {
		t.Error("Load() should reject a non boolean HABITRACK_DEBUG")
	}
}

func TestDefaultDBPath(t *testing.T) {
	if got := (Env{}).DefaultDBPath(); got != constants.DefaultConfigPath {
		t.Errorf("DefaultDBPath() = %s, want %s", got, constants.DefaultConfigPath)
	}
}

func TestUsage(t *testing.T) {
	if !strings.Contains(Usage(), constants.EnvDBConnection) {
		t.Errorf("Usage() does not mention %s", constants.EnvDBConnection)
	}
}

func noKeyring() (string, bool, error) { return "", false, nil }

func TestResolve(t *testing.T) {
	stored := func() (string, bool, error) { return "postgres://me:secret@db/habits", true, nil }
	broken := func() (string, bool, error) { return "", false, errors.New("no dbus") }

	tests := []struct {
		name       string
		flag       string
		env        Env
		lookup     KeyringLookup
		wantBack   Backend
		wantSource Source
		wantLoc    string
	}{
		{
			name:       "sqlite path from flag",
			flag:       "/data/habits.db",
			lookup:     noKeyring,
			wantBack:   BackendSQLite,
			wantSource: SourceFlag,
			wantLoc:    "/data/habits.db",
		},
		{
			name:       "postgres from flag",
			flag:       "postgres://me@db/habits",
			lookup:     stored,
			wantBack:   BackendPostgres,
			wantSource: SourceFlag,
			wantLoc:    "postgres://me@db/habits",
		},
		{
			name:       "env connection beats keyring",
			flag:       "/data/habits.db",
			env:        Env{DBConnection: "host=db dbname=habits"},
			lookup:     stored,
			wantBack:   BackendPostgres,
			wantSource: SourceEnv,
			wantLoc:    "host=db dbname=habits",
		},
		{
			name:       "keyring beats sqlite path",
			flag:       "/data/habits.db",
			lookup:     stored,
			wantBack:   BackendPostgres,
			wantSource: SourceKeyring,
			wantLoc:    "postgres://me:secret@db/habits",
		},
		{
			name:       "unavailable keyring falls through",
			flag:       "/data/habits.db",
			lookup:     broken,
			wantBack:   BackendSQLite,
			wantSource: SourceFlag,
			wantLoc:    "/data/habits.db",
		},
		{
			name:       "empty flag uses env path",
			env:        Env{DB: "/env/habits.db"},
			wantBack:   BackendSQLite,
			wantSource: SourceFlag,
			wantLoc:    "/env/habits.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.flag, tt.env, tt.lookup)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Backend != tt.wantBack || got.Source != tt.wantSource || got.Location != tt.wantLoc {
				t.Errorf("Resolve() = %+v, want %s/%s/%s", got, tt.wantBack, tt.wantSource, tt.wantLoc)
			}
		})
	}
}

func TestResolveRejectsEmbeddedPassword(t *testing.T) {
	_, err := Resolve("postgres://me:secret@db/habits", Env{}, noKeyring)
	if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		t.Errorf("Resolve() error = %v, want ErrEmbeddedCredentials", err)
	}
}

func TestResolveDefaultExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := Resolve(constants.DefaultConfigPath, Env{}, noKeyring)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := filepath.Join(home, ".config", "habitrack", "habitrack.db")
	if got.Location != want || got.Source != SourceDefault {
		t.Errorf("Resolve() = %+v, want %s from default", got, want)
	}
	if got.ConfigDir() != filepath.Dir(want) {
		t.Errorf("ConfigDir() = %s", got.ConfigDir())
	}
}

func TestExpandHome(t *testing.T) {
	if got := ExpandHome("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("ExpandHome() changed an absolute path: %s", got)
	}
	if got := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("ExpandHome() should only expand ~ and ~/: %s", got)
	}
}

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/cli/backups"
	"github.com/julianstephens/habitrack/internal/cli/habits"
	"github.com/julianstephens/habitrack/internal/cli/settings"
	"github.com/julianstephens/habitrack/internal/cli/stats"
	"github.com/julianstephens/habitrack/internal/cli/system"
	"github.com/julianstephens/habitrack/internal/config"
	"github.com/julianstephens/habitrack/internal/constants"
	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/keyring"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/internal/storage/postgres"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
	"github.com/julianstephens/habitrack/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use HABITRACK_DB_CONNECTION, .pgpass or the OS keyring instead." type:"string" default:"${default_config}"`
	Debug    bool   `help:"Log debug output to stderr."`
	Timezone string `help:"IANA timezone used for period boundaries (overrides the stored setting)."`

	Init      system.InitCmd       `cmd:"" help:"Initialize habitrack storage."`
	Migrate   system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Add       habits.AddCmd        `cmd:"" help:"Create a habit."`
	Complete  habits.CompleteCmd   `cmd:"" help:"Mark a habit as completed."`
	Remove    habits.RemoveCmd     `cmd:"" help:"Delete a habit."`
	Restore   habits.RestoreCmd    `cmd:"" help:"Restore a deleted habit."`
	Status    habits.StatusCmd     `cmd:"" help:"Show one habit in detail."`
	List      habits.ListCmd       `cmd:"" help:"List habits."`
	Seed      habits.SeedCmd       `cmd:"" help:"Load sample habits with four weeks of history."`
	Analytics stats.AnalyticsCmd   `cmd:"" help:"Streak and lifecycle analytics."`
	Backup    backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	ConfigCmd system.ConfigCmd     `cmd:"" name:"config" help:"Manage the stored PostgreSQL connection."`
	Settings  settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

// unloaded commands open (or never need) the store themselves.
var unloaded = map[string]bool{
	"init":   true,
	"doctor": true,
	"config": true,
}

func main() {
	env, err := config.Load()
	if err != nil {
		apperrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streak and lifecycle analytics.\n\n"+config.Usage()),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": env.DefaultDBPath(),
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug || env.Debug, ConfigDir: logDir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	target, err := config.Resolve(CLI.Config, env, keyring.LookupConnectionString)
	if err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Resolved store", "backend", target.Backend, "source", target.Source)

	var store storage.Provider
	switch target.Backend {
	case config.BackendPostgres:
		store = postgres.New(target.Location)
	default:
		store = sqlite.NewStore(target.Location)
	}
	defer store.Close()

	command := strings.Fields(ctx.Command())[0]
	loaded := !unloaded[command]
	if loaded {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	clock, err := clockFor(store, loaded, env)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := cli.NewContext(store, target, clock)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// logDir is where logs go before the store is resolved.
func logDir(configFlag string) string {
	t := config.Target{Backend: config.BackendSQLite, Location: config.ExpandHome(configFlag)}
	if postgres.IsConnString(configFlag) {
		t.Backend = config.BackendPostgres
	}
	return t.ConfigDir()
}

// clockFor picks the timezone from --timezone, then HABITRACK_TIMEZONE, then
// the stored setting.
func clockFor(store storage.Provider, loaded bool, env config.Env) (func() time.Time, error) {
	tz := CLI.Timezone
	if tz == "" {
		tz = env.Timezone
	}
	if tz == "" && loaded {
		if s, err := store.GetSettings(); err == nil {
			tz = s.Timezone
		} else {
			logger.Warn("Could not read timezone setting", "error", err)
		}
	}
	return utils.ClockIn(tz)
}

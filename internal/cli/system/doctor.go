package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitrack/internal/backup"
	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/period"
	"github.com/julianstephens/habitrack/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly failures do not fail the command.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Period keys", needsDB: true, run: checkPeriodKeys},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("%s Database reachable: FAIL\n", cli.ErrorStyle.Render("❌"))
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("%s Database reachable: OK\n", cli.SuccessStyle.Render("✓"))
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", cli.SuccessStyle.Render("✓"), c.name)
		case c.warnOnly:
			ctx.Printf("%s %s: WARNING\n", cli.WarnStyle.Render("⚠"), c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("%s %s: FAIL\n", cli.ErrorStyle.Render("❌"), c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if r, ok := ctx.Store.(schemaReporter); ok {
		if err := r.Ping(); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaStatus(ctx *cli.Context) (current, latest int, err error) {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return 0, 0, nil
	}
	current, latest, err = r.SchemaStatus()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaStatus(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaStatus(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitrack migrate')", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone setting %q", settings.Timezone)
	}
	if _, err := period.Parse(settings.DefaultPeriodicity); err != nil {
		return fmt.Errorf("invalid default periodicity setting: %w", err)
	}
	return nil
}

// checkHabitsIntegrity loads every habit with its completion log, which
// fails on unknown periodicities, unparsable timestamps or two completions
// in one period.
func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}

	names := make(map[string]bool)
	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		if names[h.Name] {
			return fmt.Errorf("duplicate active habit name %q", h.Name)
		}
		names[h.Name] = true
	}
	return nil
}

// checkPeriodKeys compares each stored period key with the period its
// completion timestamp falls into.
func checkPeriodKeys(ctx *cli.Context) error {
	stored, err := ctx.Store.PeriodKeys()
	if err != nil {
		return err
	}
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}

	for i := range habits {
		h := &habits[i]
		for _, c := range h.Completions() {
			raw, ok := stored[c.ID]
			if !ok {
				return fmt.Errorf("completion %s of %q has no stored period", c.ID, h.Name)
			}
			key, err := period.ParseKey(raw)
			if err != nil {
				return fmt.Errorf("completion %s of %q: %w", c.ID, h.Name, err)
			}
			if want := h.Period(c.CompletedAt); key != want {
				return fmt.Errorf("completion %s of %q is stored under %s, expected %s", c.ID, h.Name, key, want)
			}
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("backups are only managed for SQLite databases")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'habitrack backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

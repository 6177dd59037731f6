package settings

import (
	"fmt"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/period"
	"github.com/julianstephens/habitrack/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone           *string `help:"IANA timezone used to bucket completions, or Local."`
	AutoBackup         *bool   `help:"Back up the SQLite database before destructive commands."`
	DefaultPeriodicity *string `help:"Periodicity preselected by the add form (daily or weekly)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:            %s\n", settings.Timezone)
		ctx.Printf("  Auto Backup:         %v\n", settings.AutoBackup)
		ctx.Printf("  Default Periodicity: %s\n", settings.DefaultPeriodicity)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackup = *c.AutoBackup
		updated = true
	}
	if c.DefaultPeriodicity != nil {
		p, err := period.Parse(*c.DefaultPeriodicity)
		if err != nil {
			return err
		}
		settings.DefaultPeriodicity = string(p)
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}

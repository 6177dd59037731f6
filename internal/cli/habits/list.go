package habits

import (
	"fmt"

	"github.com/julianstephens/habitrack/internal/analytics"
	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
)

type ListCmd struct {
	Periodicity string `help:"Only list habits with this periodicity." enum:"daily,weekly,all" default:"all"`
	Deleted     bool   `help:"List deleted habits instead."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if c.Deleted {
		deleted, err := ctx.Tracker.GetDeletedHabits()
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			ctx.Println("No deleted habits.")
			return nil
		}
		for _, h := range deleted {
			ctx.Printf("%s (%s) deleted %s\n", h.Name, h.Periodicity(),
				h.DeletedAt.In(ctx.Location()).Format(constants.DateTimeFormat))
		}
		return nil
	}

	var (
		habits []models.Habit
		err    error
	)
	if c.Periodicity == "" || c.Periodicity == "all" {
		habits, err = ctx.Tracker.GetAllHabits()
	} else {
		var p period.Periodicity
		p, err = period.Parse(c.Periodicity)
		if err != nil {
			return err
		}
		habits, err = ctx.Tracker.GetHabitsByPeriodicity(p)
	}
	if err != nil {
		return err
	}

	if len(habits) > 0 {
		ctx.Printf("%d habit(s) found:\n", len(habits))
	}
	ctx.PrintHabits(habits, "No habits found. Add one with 'habitrack add' or try 'habitrack seed'.")
	return nil
}

type StatusCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.GetHabitByName(c.Name)
	if err != nil {
		return err
	}

	now := ctx.Now()
	r := analytics.HabitReport(h, now)
	unit := r.Periodicity

	ctx.Println(cli.TitleStyle.Render(r.Name))
	if r.Description != "" {
		ctx.Printf("  %s\n", r.Description)
	}
	ctx.Printf("  Periodicity:       %s\n", unit)
	ctx.Printf("  Created:           %s\n", r.CreatedAt.In(now.Location()).Format(constants.DateFormat))
	ctx.Printf("  Status:            %s\n", cli.StatusBadge(r.Status))
	ctx.Printf("  Completions:       %d\n", r.TotalCompletions)
	ctx.Printf("  Current streak:    %s\n", cli.FormatStreak(r.CurrentStreak, unit))
	ctx.Printf("  Longest streak:    %s\n", cli.FormatStreak(r.LongestStreak, unit))
	last := "never"
	if r.LastCompletion != nil {
		last = r.LastCompletion.In(now.Location()).Format(constants.DateTimeFormat)
	}
	ctx.Printf("  Last completion:   %s\n", last)
	if r.OnLongestStreak {
		ctx.Println(cli.SuccessStyle.Render("  On its longest streak!"))
	}
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *cli.Context) error {
	result, err := ctx.Tracker.Seed(ctx.Now())
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	for _, name := range result.Created {
		ctx.Printf("%s Created '%s'\n", cli.SuccessStyle.Render("✓"), name)
	}
	for _, name := range result.Skipped {
		ctx.Printf("%s Skipped '%s' (already exists)\n", cli.WarnStyle.Render("⚠"), name)
	}
	ctx.Printf("Seeded %d habit(s) with %d completion(s).\n", len(result.Created), result.Completions)
	return nil
}

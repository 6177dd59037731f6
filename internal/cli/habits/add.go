package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/period"
)

// runForm is replaced in tests.
var runForm = func(f *huh.Form) error { return f.Run() }

type AddCmd struct {
	Name        string `help:"Habit name."`
	Description string `help:"What completing the habit means."`
	Periodicity string `help:"How often the habit is due (daily or weekly)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Name) == "" || c.Periodicity == "" {
		if err := c.prompt(ctx); err != nil {
			return err
		}
	}

	p, err := period.Parse(c.Periodicity)
	if err != nil {
		return err
	}

	h, err := ctx.Tracker.AddHabit(c.Name, c.Description, p)
	if err != nil {
		return err
	}

	ctx.Printf("%s Added habit '%s' (%s)\n", cli.SuccessStyle.Render("✓"), h.Name, p)
	if h.Description != "" {
		ctx.Printf("  Description: %s\n", h.Description)
	}
	return nil
}

// prompt fills missing fields with an interactive form.
func (c *AddCmd) prompt(ctx *cli.Context) error {
	if c.Periodicity == "" {
		c.Periodicity = string(period.Daily)
		if settings, err := ctx.Store.GetSettings(); err == nil && settings.DefaultPeriodicity != "" {
			c.Periodicity = settings.DefaultPeriodicity
		}
	}

	options := make([]huh.Option[string], 0, len(period.Values()))
	for _, p := range period.Values() {
		options = append(options, huh.NewOption(label(p), string(p)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What would you like to call this habit?").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Enter a description (define the task)").
				Value(&c.Description),
			huh.NewSelect[string]().
				Title("How often should this habit be completed?").
				Options(options...).
				Value(&c.Periodicity),
		),
	)

	if err := runForm(form); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}
	return nil
}

func label(p period.Periodicity) string {
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

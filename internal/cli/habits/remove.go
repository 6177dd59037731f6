package habits

import (
	"github.com/julianstephens/habitrack/internal/cli"
)

type RemoveCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Purge bool   `help:"Delete the habit and its completions permanently."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	if c.Purge && !c.Yes {
		ok, err := ctx.Confirm("Permanently delete '" + c.Name + "' and all of its completions?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if c.Purge {
		h, err := ctx.Tracker.PurgeHabit(c.Name)
		if err != nil {
			return err
		}
		ctx.Printf("%s Purged habit '%s' (%d completions)\n", cli.SuccessStyle.Render("✓"), h.Name, h.CompletionCount())
		return nil
	}

	h, err := ctx.Tracker.RemoveHabit(c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("%s Removed habit '%s'\n", cli.SuccessStyle.Render("✓"), h.Name)
	ctx.Println(cli.MutedStyle.Render("  Undo with: habitrack restore \"" + h.Name + "\""))
	return nil
}

type RestoreCmd struct {
	Name string `arg:"" help:"Name of the deleted habit."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.RestoreHabit(c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("%s Restored habit '%s' with %d completions\n", cli.SuccessStyle.Render("✓"), h.Name, h.CompletionCount())
	return nil
}

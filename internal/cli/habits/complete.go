package habits

import (
	"time"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/utils"
)

type CompleteCmd struct {
	Name string `arg:"" help:"Habit name."`
	At   string `help:"When the habit was completed: YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339 (default: now)."`
}

func (c *CompleteCmd) Run(ctx *cli.Context) error {
	var (
		streak int
		err    error
	)
	if c.At == "" {
		streak, err = ctx.Tracker.CompleteHabit(c.Name)
	} else {
		var ts time.Time
		ts, err = utils.ParseTimestamp(c.At, ctx.Location())
		if err != nil {
			return err
		}
		streak, err = ctx.Tracker.CompleteHabitAt(c.Name, ts)
	}
	if err != nil {
		return err
	}

	h, err := ctx.Tracker.GetHabitByName(c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("%s Completed '%s' - Current streak: %s\n",
		cli.SuccessStyle.Render("✓"), h.Name, cli.FormatStreak(streak, h.Periodicity()))
	return nil
}

package stats

import (
	"strconv"
	"strings"

	"github.com/julianstephens/habitrack/internal/analytics"
	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/period"
	"github.com/julianstephens/habitrack/internal/streak"
)

type AnalyticsCmd struct {
	Overview      OverviewCmd      `cmd:"" help:"Summarize all habits." default:"1"`
	LongestStreak LongestStreakCmd `cmd:"" help:"Show the longest streak across all habits."`
	HabitStreak   HabitStreakCmd   `cmd:"" help:"Show the current and longest streak of one habit."`
	ActiveStreaks ActiveStreaksCmd `cmd:"" help:"List habits with a running streak."`
	Broken        BrokenCmd        `cmd:"" help:"List broken habits."`
	Due           DueCmd           `cmd:"" help:"List habits due this period."`
	Daily         DailyCmd         `cmd:"" help:"List daily habits."`
	Weekly        WeeklyCmd        `cmd:"" help:"List weekly habits."`
}

type OverviewCmd struct{}

func (c *OverviewCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}
	o := analytics.Summarize(habits, ctx.Now())

	ctx.Println(cli.TitleStyle.Render("Habit overview"))
	ctx.Printf("  Habits:          %d (%d daily, %d weekly)\n", o.Total, o.Daily, o.Weekly)
	ctx.Printf("  Active streaks:  %d\n", o.Active)
	ctx.Printf("  Longest streak:  %d\n", o.LongestStreak)
	ctx.Printf("  Due:             %d %s\n", o.Due, nameList(o.DueNames))
	ctx.Printf("  Broken:          %d %s\n", o.Broken, nameList(o.BrokenNames))

	var parts []string
	for _, s := range []streak.Status{streak.StatusFresh, streak.StatusActive, streak.StatusDue, streak.StatusBroken} {
		if n := o.ByStatus[s]; n > 0 {
			parts = append(parts, cli.StatusBadge(s)+" "+strconv.Itoa(n))
		}
	}
	if len(parts) > 0 {
		ctx.Printf("  By status:       %s\n", strings.Join(parts, ", "))
	}
	return nil
}

func nameList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return cli.MutedStyle.Render("(" + strings.Join(names, ", ") + ")")
}

type LongestStreakCmd struct{}

func (c *LongestStreakCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}
	longest := analytics.LongestStreakAll(habits)
	if longest == 0 {
		ctx.Println("No streaks recorded yet.")
		return nil
	}

	ctx.Printf("Longest streak across all habits: %d\n", longest)
	for _, h := range analytics.WithLongestStreak(habits) {
		ctx.Printf("  %s (%s)\n", h.Name, cli.FormatStreak(longest, h.Periodicity()))
	}
	return nil
}

type HabitStreakCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitStreakCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.GetHabitByName(c.Name)
	if err != nil {
		return err
	}
	now := ctx.Now()
	ctx.Printf("%s: current %s, longest %s\n", h.Name,
		cli.FormatStreak(h.CurrentStreak(now), h.Periodicity()),
		cli.FormatStreak(h.LongestStreak(), h.Periodicity()))
	return nil
}

type ActiveStreaksCmd struct{}

func (c *ActiveStreaksCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}
	now := ctx.Now()
	active := analytics.ActiveStreaks(habits, now)
	if len(active) == 0 {
		ctx.Println("No active streaks.")
		return nil
	}
	for i, h := range active {
		ctx.Printf("%d. %s %s\n", i+1, h.Name, cli.FormatStreak(h.CurrentStreak(now), h.Periodicity()))
	}
	return nil
}

type BrokenCmd struct{}

func (c *BrokenCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}
	ctx.PrintHabits(analytics.Broken(habits, ctx.Now()), "No broken habits.")
	return nil
}

type DueCmd struct{}

func (c *DueCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}
	ctx.PrintHabits(analytics.Due(habits, ctx.Now()), "Nothing due. Well done!")
	return nil
}

type DailyCmd struct{}

func (c *DailyCmd) Run(ctx *cli.Context) error {
	return printPeriodicity(ctx, period.Daily)
}

type WeeklyCmd struct{}

func (c *WeeklyCmd) Run(ctx *cli.Context) error {
	return printPeriodicity(ctx, period.Weekly)
}

func printPeriodicity(ctx *cli.Context, p period.Periodicity) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}
	ctx.PrintHabits(analytics.ByPeriodicity(habits, p), "No "+string(p)+" habits.")
	return nil
}

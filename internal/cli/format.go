package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
)

// FormatStreak renders a streak length with its period noun, e.g. "3 days".
func FormatStreak(n int, p period.Periodicity) string {
	noun := "period"
	if u, err := period.Lookup(p); err == nil {
		noun = u.Noun()
	}
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// FormatHabit renders a habit as a short multi-line block.
func FormatHabit(h models.Habit, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %s\n", TitleStyle.Render(h.Name), h.Periodicity(), StatusBadge(h.Status(now)))
	if h.Description != "" {
		fmt.Fprintf(&b, "   %s\n", h.Description)
	}
	fmt.Fprintf(&b, "   Current streak: %s | Longest: %s",
		FormatStreak(h.CurrentStreak(now), h.Periodicity()),
		FormatStreak(h.LongestStreak(), h.Periodicity()))
	if last, ok := h.LastCompletion(); ok {
		fmt.Fprintf(&b, " | Last: %s", last.CompletedAt.In(now.Location()).Format(constants.DateTimeFormat))
	}
	return b.String()
}

// PrintHabits writes habits one block each, or a notice when there are none.
func (c *Context) PrintHabits(habits []models.Habit, empty string) {
	if len(habits) == 0 {
		c.Println(empty)
		return
	}
	now := c.Now()
	for i, h := range habits {
		c.Printf("%d. %s\n", i+1, FormatHabit(h, now))
	}
}

package tracker

import (
	"errors"
	"time"

	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
)

// seedHistoryDays is how far back sample history reaches.
const seedHistoryDays = 28

// weekDay places a completion weeksAgo weeks before now, on the given
// weekday (0 = Monday).
type weekDay struct {
	weeksAgo int
	weekday  int
}

type sampleHabit struct {
	name        string
	description string
	periodicity period.Periodicity
	daysAgo     []int
	weekDays    []weekDay
}

var sampleHabits = []sampleHabit{
	{
		name:        "Read",
		description: "Read one chapter",
		periodicity: period.Daily,
		daysAgo:     []int{0, 1, 2, 4, 5, 7, 8, 9, 11, 12, 13, 15, 16, 17, 19, 20, 22, 23, 24, 26, 27},
	},
	{
		name:        "Stretch",
		description: "Stretch for ten minutes",
		periodicity: period.Daily,
		weekDays:    []weekDay{{0, 4}, {1, 1}, {2, 6}, {3, 2}},
	},
	{
		name:        "Take Vitamins",
		description: "Take D3 and B12 Vitamins",
		periodicity: period.Daily,
		daysAgo:     dayRange(3, seedHistoryDays),
	},
	{
		name:        "Call Family",
		description: "Call grandparents",
		periodicity: period.Weekly,
		weekDays:    []weekDay{{0, 6}, {1, 3}, {3, 1}},
	},
	{
		name:        "Vacuum",
		description: "Vacuum the apartment",
		periodicity: period.Weekly,
		daysAgo:     []int{0, 3, 6, 10, 14, 17, 21, 24, 27},
	},
}

func dayRange(from, to int) []int {
	days := make([]int, 0, to-from)
	for d := from; d < to; d++ {
		days = append(days, d)
	}
	return days
}

// timestamps resolves the sample history against now, keeping now's clock
// time on every day.
func (s sampleHabit) timestamps(now time.Time) []time.Time {
	var out []time.Time
	for _, d := range s.daysAgo {
		out = append(out, now.AddDate(0, 0, -d))
	}
	for _, wd := range s.weekDays {
		ref := now.AddDate(0, 0, -7*wd.weeksAgo)
		offset := (int(ref.Weekday()) + 6) % 7
		monday := ref.AddDate(0, 0, -offset)
		out = append(out, monday.AddDate(0, 0, wd.weekday))
	}
	return out
}

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Created     []string
	Skipped     []string
	Completions int
}

// Seed creates the sample habits with four weeks of history ending at now.
// Habits whose name is already taken are skipped. Completions dated after
// now or colliding with an earlier one in the same period are dropped.
func (t *Tracker) Seed(now time.Time) (SeedResult, error) {
	var result SeedResult
	createdAt := now.AddDate(0, 0, -seedHistoryDays)

	for _, sample := range sampleHabits {
		log := logger.With("habit", sample.name)
		h, err := t.addHabitAt(sample.name, sample.description, sample.periodicity, createdAt)
		if errors.Is(err, models.ErrHabitExists) {
			log.Debug("sample habit skipped, name taken")
			result.Skipped = append(result.Skipped, sample.name)
			continue
		}
		if err != nil {
			return result, err
		}

		for _, ts := range sample.timestamps(now) {
			if ts.After(now) {
				log.Debug("sample completion in the future dropped", "at", ts)
				continue
			}
			c, err := h.MarkCompleted(ts)
			if errors.Is(err, models.ErrDuplicateCompletion) {
				log.Debug("sample completion shares a period", "at", ts)
				continue
			}
			if err != nil {
				return result, err
			}
			if err := t.store.AddCompletion(h, c); err != nil {
				return result, err
			}
			result.Completions++
		}
		result.Created = append(result.Created, sample.name)
	}

	logger.Info("sample data seeded", "created", len(result.Created), "skipped", len(result.Skipped), "completions", result.Completions)
	return result, nil
}

// Package analytics answers cross-habit questions. Every function is pure:
// it reads the habits it is given and the caller supplies now.
package analytics

import (
	"sort"
	"time"

	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
	"github.com/julianstephens/habitrack/internal/streak"
)

// All returns a deep copy of habits.
func All(habits []models.Habit) []models.Habit {
	return filter(habits, func(*models.Habit) bool { return true })
}

// filter returns clones of the habits keep accepts.
func filter(habits []models.Habit, keep func(h *models.Habit) bool) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for i := range habits {
		if keep(&habits[i]) {
			out = append(out, habits[i].Clone())
		}
	}
	return out
}

// ByPeriodicity returns the habits tracked with periodicity p.
func ByPeriodicity(habits []models.Habit, p period.Periodicity) []models.Habit {
	return filter(habits, func(h *models.Habit) bool { return h.Periodicity() == p })
}

// LongestStreakAll returns the longest streak across all habits, 0 for none.
func LongestStreakAll(habits []models.Habit) int {
	longest := 0
	for i := range habits {
		if l := habits[i].LongestStreak(); l > longest {
			longest = l
		}
	}
	return longest
}

// WithLongestStreak returns every habit whose longest streak equals
// LongestStreakAll. It is empty when no habit has a streak.
func WithLongestStreak(habits []models.Habit) []models.Habit {
	longest := LongestStreakAll(habits)
	if longest == 0 {
		return []models.Habit{}
	}
	return filter(habits, func(h *models.Habit) bool { return h.LongestStreak() == longest })
}

// ActiveStreaks returns habits with a running streak, longest first and
// ties ordered by name.
func ActiveStreaks(habits []models.Habit, now time.Time) []models.Habit {
	type entry struct {
		habit   models.Habit
		current int
	}
	var entries []entry
	for i := range habits {
		if c := habits[i].CurrentStreak(now); c > 0 {
			entries = append(entries, entry{habit: habits[i].Clone(), current: c})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].current != entries[j].current {
			return entries[i].current > entries[j].current
		}
		return entries[i].habit.Name < entries[j].habit.Name
	})

	out := make([]models.Habit, len(entries))
	for i, e := range entries {
		out[i] = e.habit
	}
	return out
}

// Due returns habits that still need a completion in their current period.
func Due(habits []models.Habit, now time.Time) []models.Habit {
	return filter(habits, func(h *models.Habit) bool { return h.IsDue(now) })
}

// Broken returns habits that have lapsed past their grace window.
func Broken(habits []models.Habit, now time.Time) []models.Habit {
	return filter(habits, func(h *models.Habit) bool { return h.IsBroken(now) })
}

// Overview summarizes a set of habits at one instant.
type Overview struct {
	Total         int
	Daily         int
	Weekly        int
	Active        int
	Due           int
	Broken        int
	LongestStreak int
	DueNames      []string
	BrokenNames   []string
	ByStatus      map[streak.Status]int
}

// Summarize builds the Overview of habits at now.
func Summarize(habits []models.Habit, now time.Time) Overview {
	o := Overview{
		Total:         len(habits),
		LongestStreak: LongestStreakAll(habits),
		DueNames:      []string{},
		BrokenNames:   []string{},
		ByStatus:      make(map[streak.Status]int),
	}
	for i := range habits {
		h := &habits[i]
		switch h.Periodicity() {
		case period.Daily:
			o.Daily++
		case period.Weekly:
			o.Weekly++
		}
		if h.CurrentStreak(now) > 0 {
			o.Active++
		}
		if h.IsDue(now) {
			o.Due++
			o.DueNames = append(o.DueNames, h.Name)
		}
		if h.IsBroken(now) {
			o.Broken++
			o.BrokenNames = append(o.BrokenNames, h.Name)
		}
		o.ByStatus[h.Status(now)]++
	}
	sort.Strings(o.DueNames)
	sort.Strings(o.BrokenNames)
	return o
}

// Report is the per-habit breakdown shown by the status command.
type Report struct {
	Name             string
	Description      string
	Periodicity      period.Periodicity
	CreatedAt        time.Time
	TotalCompletions int
	CurrentStreak    int
	LongestStreak    int
	Status           streak.Status
	LastCompletion   *time.Time
	OnLongestStreak  bool
}

// HabitReport builds the Report of h at now.
func HabitReport(h models.Habit, now time.Time) Report {
	r := Report{
		Name:             h.Name,
		Description:      h.Description,
		Periodicity:      h.Periodicity(),
		CreatedAt:        h.CreatedAt,
		TotalCompletions: h.CompletionCount(),
		CurrentStreak:    h.CurrentStreak(now),
		LongestStreak:    h.LongestStreak(),
		Status:           h.Status(now),
	}
	if last, ok := h.LastCompletion(); ok {
		ts := last.CompletedAt
		r.LastCompletion = &ts
	}
	r.OnLongestStreak = r.CurrentStreak > 0 && r.CurrentStreak == r.LongestStreak
	return r
}

package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitrack/internal/period"
	"github.com/julianstephens/habitrack/internal/streak"
)

// Completion is one recorded completion of a habit.
type Completion struct {
	ID          string
	HabitID     string
	CompletedAt time.Time
}

// Habit is a recurring practice together with its completion log. The log
// holds at most one completion per period.
//
// Habits are built with NewHabit. The zero Habit has no periodicity and
// rejects completions with *period.InvalidPeriodicityError. Assigning a Habit
// shares its log; use Clone for an independent copy.
type Habit struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	DeletedAt   *time.Time

	periodicity period.Periodicity
	calc        streak.Calculator
	log         map[period.Key]Completion
}

// NewHabit builds a habit with an empty completion log. An empty id gets a
// fresh uuid.
func NewHabit(id, name, description string, p period.Periodicity, createdAt time.Time) (Habit, error) {
	calc, err := streak.For(p)
	if err != nil {
		return Habit{}, err
	}
	if id == "" {
		id = uuid.New().String()
	}
	return Habit{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt,
		periodicity: p,
		calc:        calc,
		log:         make(map[period.Key]Completion),
	}, nil
}

// Clone returns a deep copy of h.
func (h *Habit) Clone() Habit {
	c := *h
	if h.DeletedAt != nil {
		deletedAt := *h.DeletedAt
		c.DeletedAt = &deletedAt
	}
	c.log = make(map[period.Key]Completion, len(h.log))
	for k, v := range h.log {
		c.log[k] = v
	}
	return c
}

// Periodicity returns how often the habit is expected to be completed.
func (h *Habit) Periodicity() period.Periodicity {
	return h.periodicity
}

// Period returns the period key ts falls into for this habit.
func (h *Habit) Period(ts time.Time) period.Key {
	return h.calc.Unit().Of(ts)
}

// MarkCompleted records a completion at ts. It fails with a
// *DuplicateCompletionError, leaving the log untouched, when the period of ts
// already has a completion. The caller is responsible for persisting the
// returned completion.
func (h *Habit) MarkCompleted(ts time.Time) (Completion, error) {
	c := Completion{
		ID:          uuid.New().String(),
		HabitID:     h.ID,
		CompletedAt: ts,
	}
	if err := h.insert(c); err != nil {
		return Completion{}, err
	}
	return c, nil
}

// Hydrate loads previously stored completions into the log. Loading stops at
// the first completion that collides with an existing period.
func (h *Habit) Hydrate(completions ...Completion) error {
	for _, c := range completions {
		if err := h.insert(c); err != nil {
			return err
		}
	}
	return nil
}

func (h *Habit) insert(c Completion) error {
	if !h.periodicity.Valid() {
		return &period.InvalidPeriodicityError{Value: string(h.periodicity)}
	}
	key := h.Period(c.CompletedAt)
	if _, exists := h.log[key]; exists {
		return &DuplicateCompletionError{
			Habit:       h.Name,
			Periodicity: h.periodicity,
			Period:      key,
		}
	}
	h.log[key] = c
	return nil
}

// Completions returns the log ordered from oldest to newest.
func (h *Habit) Completions() []Completion {
	out := make([]Completion, 0, len(h.log))
	for _, c := range h.log {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out
}

// CompletionCount returns the number of recorded completions.
func (h *Habit) CompletionCount() int {
	return len(h.log)
}

// LastCompletion returns the most recent completion, if any.
func (h *Habit) LastCompletion() (Completion, bool) {
	var last Completion
	found := false
	for _, c := range h.log {
		if !found || c.CompletedAt.After(last.CompletedAt) {
			last = c
			found = true
		}
	}
	return last, found
}

func (h *Habit) timestamps() []time.Time {
	out := make([]time.Time, 0, len(h.log))
	for _, c := range h.log {
		out = append(out, c.CompletedAt)
	}
	return out
}

// CurrentStreak returns the streak of consecutive periods ending in the
// period containing now.
func (h *Habit) CurrentStreak(now time.Time) int {
	return h.calc.Current(h.timestamps(), now)
}

// LongestStreak returns the longest streak the habit ever reached.
func (h *Habit) LongestStreak() int {
	return h.calc.Longest(h.timestamps())
}

// IsDue reports whether the habit still needs a completion this period.
func (h *Habit) IsDue(now time.Time) bool {
	return h.calc.IsDue(h.timestamps(), now)
}

// IsBroken reports whether the habit has lapsed past its grace window.
func (h *Habit) IsBroken(now time.Time) bool {
	return h.calc.IsBroken(h.timestamps(), h.CreatedAt, now)
}

// Status returns the lifecycle status of the habit at now.
func (h *Habit) Status(now time.Time) streak.Status {
	return h.calc.Classify(h.timestamps(), h.CreatedAt, now)
}

// IsDeleted reports whether the habit has been soft deleted.
func (h *Habit) IsDeleted() bool {
	return h.DeletedAt != nil
}

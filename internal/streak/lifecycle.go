package streak

import (
	"time"

	"github.com/julianstephens/habitrack/internal/period"
)

// Status is the lifecycle state of a habit at a given instant. It is derived
// on demand and never stored.
type Status string

const (
	// StatusFresh: never completed and still inside the first grace window.
	StatusFresh Status = "fresh"
	// StatusActive: completed in the current period.
	StatusActive Status = "active"
	// StatusDue: not yet completed in the current period.
	StatusDue Status = "due"
	// StatusBroken: the grace window since the last completion (or creation) has passed.
	StatusBroken Status = "broken"
)

// brokenPolicy decides when a habit counts as broken. Daily habits break
// after one missed calendar day, weekly habits only after 14 elapsed days.
type brokenPolicy struct {
	neverCompleted func(createdAt, now time.Time) bool
	lapsed         func(last, now time.Time) bool
}

var policies = map[period.Periodicity]brokenPolicy{
	period.Daily: {
		neverCompleted: func(createdAt, now time.Time) bool { return period.DaysBetween(createdAt, now) > 0 },
		lapsed:         func(last, now time.Time) bool { return period.DaysBetween(last, now) > 1 },
	},
	period.Weekly: {
		neverCompleted: func(createdAt, now time.Time) bool { return elapsedDays(createdAt, now) > 7 },
		lapsed:         func(last, now time.Time) bool { return elapsedDays(last, now) > 14 },
	},
}

// elapsedDays counts whole 24 hour spans from one instant to another.
func elapsedDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// IsDue reports whether a habit with the given completions still needs a
// completion in the period containing now.
func IsDue(completions []time.Time, p period.Periodicity, now time.Time) (bool, error) {
	c, err := For(p)
	if err != nil {
		return false, err
	}
	return c.IsDue(completions, now), nil
}

// IsBroken reports whether the habit has lapsed past its grace window.
func IsBroken(completions []time.Time, p period.Periodicity, createdAt, now time.Time) (bool, error) {
	c, err := For(p)
	if err != nil {
		return false, err
	}
	return c.IsBroken(completions, createdAt, now), nil
}

// Classify returns the lifecycle status of a habit.
func Classify(completions []time.Time, p period.Periodicity, createdAt, now time.Time) (Status, error) {
	c, err := For(p)
	if err != nil {
		return "", err
	}
	return c.Classify(completions, createdAt, now), nil
}

// IsDue reports whether the latest completion precedes the period containing now.
func (c Calculator) IsDue(completions []time.Time, now time.Time) bool {
	last, ok := latest(completions)
	if !ok {
		return true
	}
	return c.unit.Of(last) < c.unit.Of(now)
}

// IsBroken reports whether the grace window since the last completion, or
// since createdAt when there is none, has passed.
func (c Calculator) IsBroken(completions []time.Time, createdAt, now time.Time) bool {
	last, ok := latest(completions)
	if !ok {
		return c.policy.neverCompleted(createdAt, now)
	}
	return c.policy.lapsed(last, now)
}

// Classify returns the lifecycle status. Broken takes precedence over active.
func (c Calculator) Classify(completions []time.Time, createdAt, now time.Time) Status {
	switch {
	case c.IsBroken(completions, createdAt, now):
		return StatusBroken
	case !c.IsDue(completions, now):
		return StatusActive
	case len(completions) == 0:
		return StatusFresh
	default:
		return StatusDue
	}
}

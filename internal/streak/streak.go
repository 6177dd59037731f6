// Package streak computes streak lengths and lifecycle state from a habit's
// completion timestamps. Every function is pure: the caller supplies "now".
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitrack/internal/period"
)

// Calculator answers streak and lifecycle queries for one periodicity.
type Calculator struct {
	unit   period.Unit
	policy brokenPolicy
}

// For returns the Calculator for p.
func For(p period.Periodicity) (Calculator, error) {
	u, err := period.Lookup(p)
	if err != nil {
		return Calculator{}, err
	}
	return Calculator{unit: u, policy: policies[p]}, nil
}

// Current returns the current streak of completions under p, anchored at now.
func Current(completions []time.Time, p period.Periodicity, now time.Time) (int, error) {
	c, err := For(p)
	if err != nil {
		return 0, err
	}
	return c.Current(completions, now), nil
}

// Longest returns the longest streak ever achieved under p.
func Longest(completions []time.Time, p period.Periodicity) (int, error) {
	c, err := For(p)
	if err != nil {
		return 0, err
	}
	return c.Longest(completions), nil
}

// Unit returns the period unit the calculator buckets by.
func (c Calculator) Unit() period.Unit {
	return c.unit
}

// Keys returns the distinct period keys of completions in ascending order.
func (c Calculator) Keys(completions []time.Time) []period.Key {
	seen := make(map[period.Key]struct{}, len(completions))
	keys := make([]period.Key, 0, len(completions))
	for _, ts := range completions {
		k := c.unit.Of(ts)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Current counts consecutive periods with a completion, walking back from the
// period containing now. The streak is 0 unless the current period itself has
// a completion. Completions dated after the current period are ignored.
func (c Calculator) Current(completions []time.Time, now time.Time) int {
	keys := c.Keys(completions)
	expected := c.unit.Of(now)

	streak := 0
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		if k > expected {
			continue
		}
		if k < expected {
			break
		}
		streak++
		expected = c.unit.Prev(expected)
	}
	return streak
}

// Longest returns the length of the longest run of adjacent periods.
func (c Calculator) Longest(completions []time.Time) int {
	keys := c.Keys(completions)
	if len(keys) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(keys); i++ {
		if c.unit.Delta(keys[i-1], keys[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// latest returns the most recent completion.
func latest(completions []time.Time) (time.Time, bool) {
	if len(completions) == 0 {
		return time.Time{}, false
	}
	last := completions[0]
	for _, ts := range completions[1:] {
		if ts.After(last) {
			last = ts
		}
	}
	return last, true
}

// Package period buckets timestamps into the calendar periods a habit is
// tracked in. A daily habit is bucketed by calendar date, a weekly habit by
// the Monday that starts its week.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Periodicity is how often a habit is expected to be completed.
type Periodicity string

const (
	Daily  Periodicity = "daily"
	Weekly Periodicity = "weekly"
)

const secondsPerDay = 24 * 60 * 60

// ErrInvalidPeriodicity is matched by every InvalidPeriodicityError.
var ErrInvalidPeriodicity = errors.New("invalid periodicity")

// InvalidPeriodicityError reports a periodicity outside the supported set.
type InvalidPeriodicityError struct {
	Value string
}

func (e *InvalidPeriodicityError) Error() string {
	return fmt.Sprintf("invalid periodicity %q (expected daily or weekly)", e.Value)
}

func (e *InvalidPeriodicityError) Is(target error) bool {
	return target == ErrInvalidPeriodicity
}

// Unit holds the calendar knowledge for one periodicity.
type Unit struct {
	periodicity Periodicity
	days        int64
	bucket      func(day int64) int64
	noun        string
}

var units = map[Periodicity]Unit{
	Daily: {
		periodicity: Daily,
		days:        1,
		bucket:      func(day int64) int64 { return day },
		noun:        "day",
	},
	Weekly: {
		periodicity: Weekly,
		days:        7,
		bucket:      func(day int64) int64 { return day - weekdayIndex(day) },
		noun:        "week",
	},
}

// Values returns the supported periodicities in display order.
func Values() []Periodicity {
	return []Periodicity{Daily, Weekly}
}

// Parse converts user or storage input into a Periodicity.
func Parse(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := units[p]; !ok {
		return "", &InvalidPeriodicityError{Value: s}
	}
	return p, nil
}

func (p Periodicity) String() string {
	return string(p)
}

// Valid reports whether p is one of the supported periodicities.
func (p Periodicity) Valid() bool {
	_, ok := units[p]
	return ok
}

// Lookup returns the Unit for p.
func Lookup(p Periodicity) (Unit, error) {
	u, ok := units[p]
	if !ok {
		return Unit{}, &InvalidPeriodicityError{Value: string(p)}
	}
	return u, nil
}

// Of returns the key of the period t falls into under p.
func Of(t time.Time, p Periodicity) (Key, error) {
	u, err := Lookup(p)
	if err != nil {
		return 0, err
	}
	return u.Of(t), nil
}

// Delta returns the number of whole periods from a to b under p.
func Delta(a, b Key, p Periodicity) (int, error) {
	u, err := Lookup(p)
	if err != nil {
		return 0, err
	}
	return u.Delta(a, b), nil
}

// Periodicity returns the periodicity this unit describes.
func (u Unit) Periodicity() Periodicity {
	return u.periodicity
}

// Noun names one period ("day", "week").
func (u Unit) Noun() string {
	return u.noun
}

// Of buckets t. Only the calendar date of t in its own location is used.
func (u Unit) Of(t time.Time) Key {
	return Key(u.bucket(dayNumber(t)))
}

// Delta returns the number of whole periods from a to b. It is negative when
// b precedes a.
func (u Unit) Delta(a, b Key) int {
	return int((int64(b) - int64(a)) / u.days)
}

// Prev returns the key one period before k.
func (u Unit) Prev(k Key) Key {
	return k - Key(u.days)
}

// dayNumber counts calendar days since 1970-01-01 for the date of t.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// weekdayIndex is 0 for Monday through 6 for Sunday. Day 0 was a Thursday.
func weekdayIndex(day int64) int64 {
	idx := (day + 3) % 7
	if idx < 0 {
		idx += 7
	}
	return idx
}

// DaysBetween returns the number of calendar days from the date of a to the
// date of b, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	return int(dayNumber(b) - dayNumber(a))
}

package models

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitrack/internal/period"
)

var (
	// ErrDuplicateCompletion is matched by every DuplicateCompletionError.
	ErrDuplicateCompletion = errors.New("habit already completed for this period")
	// ErrHabitNotFound is returned when no habit matches a lookup.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitExists is returned when a habit name is already taken.
	ErrHabitExists = errors.New("habit already exists")
)

// DuplicateCompletionError reports a second completion inside one period.
type DuplicateCompletionError struct {
	Habit       string
	Periodicity period.Periodicity
	Period      period.Key
}

func (e *DuplicateCompletionError) Error() string {
	if e.Periodicity == period.Weekly {
		return fmt.Sprintf("habit %q already completed in the week of %s", e.Habit, e.Period)
	}
	return fmt.Sprintf("habit %q already completed on %s", e.Habit, e.Period)
}

func (e *DuplicateCompletionError) Is(target error) bool {
	return target == ErrDuplicateCompletion
}

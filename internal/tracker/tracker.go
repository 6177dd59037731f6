package tracker

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/habitrack/internal/analytics"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
	"github.com/julianstephens/habitrack/internal/storage"
)

var (
	ErrEmptyName = errors.New("habit name cannot be empty")
	// ErrFutureCompletion is returned when a completion is dated after now.
	ErrFutureCompletion = errors.New("completion cannot be in the future")
)

// Tracker coordinates a storage provider with the habit aggregate.
type Tracker struct {
	store storage.Provider
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Tracker)

// WithClock replaces the wall clock used for creation and completion times.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// lockHabit returns the writer lock for a habit id, locked.
func (t *Tracker) lockHabit(id string) *sync.Mutex {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.locks[id] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// AddHabit creates and stores a new habit created now.
func (t *Tracker) AddHabit(name, description string, p period.Periodicity) (models.Habit, error) {
	return t.addHabitAt(name, description, p, t.now())
}

func (t *Tracker) addHabitAt(name, description string, p period.Periodicity, createdAt time.Time) (models.Habit, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Habit{}, err
	}

	h, err := models.NewHabit("", name, description, p, createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	if _, err := t.store.GetHabitByName(name); err == nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, models.ErrHabitExists)
	} else if !errors.Is(err, models.ErrHabitNotFound) {
		return models.Habit{}, err
	}

	if err := t.store.AddHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit %q: %w", name, err)
	}

	logger.Info("habit added", "id", h.ID, "name", h.Name, "periodicity", p)
	return h, nil
}

// GetHabitByName returns the active habit with the given name.
func (t *Tracker) GetHabitByName(name string) (models.Habit, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Habit{}, err
	}
	return t.store.GetHabitByName(name)
}

// GetAllHabits returns every active habit.
func (t *Tracker) GetAllHabits() ([]models.Habit, error) {
	habits, err := t.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	return analytics.All(habits), nil
}

// GetDeletedHabits returns soft deleted habits only.
func (t *Tracker) GetDeletedHabits() ([]models.Habit, error) {
	habits, err := t.store.GetAllHabits(true)
	if err != nil {
		return nil, err
	}
	var deleted []models.Habit
	for _, h := range habits {
		if h.IsDeleted() {
			deleted = append(deleted, h)
		}
	}
	return deleted, nil
}

func (t *Tracker) GetHabitsByPeriodicity(p period.Periodicity) ([]models.Habit, error) {
	if _, err := period.Lookup(p); err != nil {
		return nil, err
	}
	return t.store.GetHabitsByPeriodicity(p)
}

// GetLongestStreakAllHabits returns the longest streak across active habits.
func (t *Tracker) GetLongestStreakAllHabits() (int, error) {
	habits, err := t.GetAllHabits()
	if err != nil {
		return 0, err
	}
	return analytics.LongestStreakAll(habits), nil
}

// RemoveHabit soft deletes the active habit with the given name.
func (t *Tracker) RemoveHabit(name string) (models.Habit, error) {
	h, err := t.GetHabitByName(name)
	if err != nil {
		return models.Habit{}, err
	}

	l := t.lockHabit(h.ID)
	defer l.Unlock()

	if err := t.store.DeleteHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	logger.Info("habit removed", "id", h.ID, "name", h.Name)
	return h, nil
}

// RestoreHabit brings back the most recently deleted habit with the given
// name. It fails with models.ErrHabitExists when an active habit already
// uses the name.
func (t *Tracker) RestoreHabit(name string) (models.Habit, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Habit{}, err
	}

	h, err := t.findDeleted(name)
	if err != nil {
		return models.Habit{}, err
	}

	l := t.lockHabit(h.ID)
	defer l.Unlock()

	if err := t.store.RestoreHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	h.DeletedAt = nil
	logger.Info("habit restored", "id", h.ID, "name", h.Name)
	return h, nil
}

func (t *Tracker) findDeleted(name string) (models.Habit, error) {
	deleted, err := t.GetDeletedHabits()
	if err != nil {
		return models.Habit{}, err
	}

	var found *models.Habit
	for i := range deleted {
		h := &deleted[i]
		if h.Name != name {
			continue
		}
		if found == nil || h.DeletedAt.After(*found.DeletedAt) {
			found = h
		}
	}
	if found == nil {
		return models.Habit{}, fmt.Errorf("no deleted habit named %q: %w", name, models.ErrHabitNotFound)
	}
	return *found, nil
}

// PurgeHabit permanently removes a habit and its completions. The active
// habit with the name is purged first; otherwise the most recently deleted
// one.
func (t *Tracker) PurgeHabit(name string) (models.Habit, error) {
	h, err := t.GetHabitByName(name)
	if errors.Is(err, models.ErrHabitNotFound) {
		h, err = t.findDeleted(strings.TrimSpace(name))
	}
	if err != nil {
		return models.Habit{}, err
	}

	l := t.lockHabit(h.ID)
	defer l.Unlock()

	if err := t.store.PurgeHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	logger.Info("habit purged", "id", h.ID, "name", h.Name, "completions", h.CompletionCount())
	return h, nil
}

// CompleteHabit records a completion now and returns the new current streak.
func (t *Tracker) CompleteHabit(name string) (int, error) {
	return t.CompleteHabitAt(name, t.now())
}

// CompleteHabitAt records a completion at ts, which may lie in the past but
// not after now. ts is bucketed by its calendar date in the location of now.
// A second completion in the same period fails with
// *models.DuplicateCompletionError.
func (t *Tracker) CompleteHabitAt(name string, ts time.Time) (int, error) {
	now := t.now()
	ts = ts.In(now.Location())
	if ts.After(now) {
		return 0, fmt.Errorf("%w: %s", ErrFutureCompletion, ts.Format(time.RFC3339))
	}

	h, err := t.GetHabitByName(name)
	if err != nil {
		return 0, err
	}

	l := t.lockHabit(h.ID)
	defer l.Unlock()

	// reload under the lock so the check sees every committed completion
	h, err = t.store.GetHabit(h.ID)
	if err != nil {
		return 0, err
	}

	c, err := h.MarkCompleted(ts)
	if err != nil {
		logger.Debug("completion rejected", "name", h.Name, "at", ts, "err", err)
		return 0, err
	}
	if err := t.store.AddCompletion(h, c); err != nil {
		return 0, err
	}

	current := h.CurrentStreak(now)
	logger.Info("habit completed", "name", h.Name, "period", h.Period(ts), "streak", current)
	return current, nil
}

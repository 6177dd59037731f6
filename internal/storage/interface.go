package storage

import (
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
)

// Provider persists habits and their completion logs. Every habit returned
// by a Provider has its completion log already loaded.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	UpdateHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeDeleted bool) ([]models.Habit, error)
	GetHabitsByPeriodicity(p period.Periodicity) ([]models.Habit, error)
	DeleteHabit(id string) error
	RestoreHabit(id string) error
	// PurgeHabit removes a habit and, by cascade, its completions.
	PurgeHabit(id string) error

	// Completions
	//
	// AddCompletion stores c under the period it falls into for h. A second
	// completion in the same period fails with *models.DuplicateCompletionError.
	AddCompletion(h models.Habit, c models.Completion) error
	GetCompletions(habitID string) ([]models.Completion, error)
	// PeriodKeys returns the stored period key of every completion, keyed by
	// completion id.
	PeriodKeys() (map[string]string, error)

	// Utils
	GetConfigPath() string
}

package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitrack/internal/models"
)

func (s *Store) AddCompletion(h models.Habit, c models.Completion) error {
	key := h.Period(c.CompletedAt)
	_, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, completed_at, period_key)
		VALUES (?, ?, ?, ?)`,
		c.ID, h.ID, c.CompletedAt.Format(time.RFC3339Nano), key.String())
	if isUniqueViolation(err) {
		return &models.DuplicateCompletionError{
			Habit:       h.Name,
			Periodicity: h.Periodicity(),
			Period:      key,
		}
	}
	return err
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, completed_at FROM completions
		WHERE habit_id = ?
		ORDER BY completed_at`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// completionsByHabit loads every stored completion grouped by habit id.
func (s *Store) completionsByHabit() (map[string][]models.Completion, error) {
	rows, err := s.db.Query(`SELECT id, habit_id, completed_at FROM completions ORDER BY completed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := make(map[string][]models.Completion)
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	return byHabit, rows.Err()
}

func (s *Store) PeriodKeys() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT id, period_key FROM completions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		keys[id] = key
	}
	return keys, rows.Err()
}

func scanCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion
	var completedAt string
	if err := row.Scan(&c.ID, &c.HabitID, &completedAt); err != nil {
		return models.Completion{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, completedAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse completed_at for completion %s: %w", c.ID, err)
	}
	c.CompletedAt = t
	return c, nil
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/period"
)

const habitColumns = "id, name, description, periodicity, created_at, deleted_at"

type rowScanner interface {
	Scan(dest ...any) error
}

type habitRow struct {
	id          string
	name        string
	description string
	periodicity string
	createdAt   time.Time
	deletedAt   sql.NullTime
}

func scanHabitRow(row rowScanner) (habitRow, error) {
	var r habitRow
	err := row.Scan(&r.id, &r.name, &r.description, &r.periodicity, &r.createdAt, &r.deletedAt)
	return r, err
}

func (r habitRow) toHabit(completions []models.Completion) (models.Habit, error) {
	h, err := models.NewHabit(r.id, r.name, r.description, period.Periodicity(r.periodicity), r.createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.id, err)
	}
	if r.deletedAt.Valid {
		t := r.deletedAt.Time
		h.DeletedAt = &t
	}
	if err := h.Hydrate(completions...); err != nil {
		return models.Habit{}, fmt.Errorf("loading completions for habit %s: %w", r.id, err)
	}
	return h, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		habit.ID, habit.Name, habit.Description, string(habit.Periodicity()), habit.CreatedAt, nullTime(habit.DeletedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("habit %q: %w", habit.Name, models.ErrHabitExists)
	}
	return err
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET name = $1, description = $2, periodicity = $3, deleted_at = $4
		WHERE id = $5`,
		habit.Name, habit.Description, string(habit.Periodicity()), nullTime(habit.DeletedAt), habit.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("habit %q: %w", habit.Name, models.ErrHabitExists)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s: %w", habit.ID, models.ErrHabitNotFound)
	}
	return nil
}

func (s *Store) getOne(query string, arg string) (models.Habit, error) {
	r, err := scanHabitRow(s.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", arg, models.ErrHabitNotFound)
	}
	if err != nil {
		return models.Habit{}, err
	}

	completions, err := s.GetCompletions(r.id)
	if err != nil {
		return models.Habit{}, err
	}
	return r.toHabit(completions)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getOne(`SELECT `+habitColumns+` FROM habits WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return s.getOne(`SELECT `+habitColumns+` FROM habits WHERE name = $1 AND deleted_at IS NULL`, strings.TrimSpace(name))
}

func (s *Store) GetAllHabits(includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at, name"
	return s.queryHabits(query)
}

func (s *Store) GetHabitsByPeriodicity(p period.Periodicity) ([]models.Habit, error) {
	if !p.Valid() {
		return nil, &period.InvalidPeriodicityError{Value: string(p)}
	}
	return s.queryHabits(`
		SELECT `+habitColumns+` FROM habits
		WHERE periodicity = $1 AND deleted_at IS NULL
		ORDER BY created_at, name`, string(p))
}

func (s *Store) queryHabits(query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var habitRows []habitRow
	for rows.Next() {
		r, err := scanHabitRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		habitRows = append(habitRows, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	byHabit, err := s.completionsByHabit()
	if err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(habitRows))
	for _, r := range habitRows {
		h, err := r.toHabit(byHabit[r.id])
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s not found or already deleted: %w", id, models.ErrHabitNotFound)
	}
	return nil
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if isUniqueViolation(err) {
		return fmt.Errorf("habit %s: %w", id, models.ErrHabitExists)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s not found or not deleted: %w", id, models.ErrHabitNotFound)
	}
	return nil
}

func (s *Store) PurgeHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s: %w", id, models.ErrHabitNotFound)
	}
	return nil
}

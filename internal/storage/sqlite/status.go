package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
)

func (s *Store) GetHabitStatus(habitID string) (models.HabitStatus, error) {
	row := s.db.QueryRow(`
		SELECT habit_id, completion_id, current_streak, longest_streak, last_completed_date, updated_at
		FROM habit_status WHERE habit_id = ?`, habitID)

	var st models.HabitStatus
	var updatedAt string
	err := row.Scan(&st.HabitID, &st.CompletionID,
		&st.Streak.CurrentStreak, &st.Streak.LongestStreak, &st.Streak.LastCompletedDate,
		&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitStatus{}, storage.ErrNotFound
	}
	if err != nil {
		return models.HabitStatus{}, err
	}

	st.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.HabitStatus{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return st, nil
}

func (s *Store) SaveHabitStatus(st models.HabitStatus) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_status
			(habit_id, completion_id, current_streak, longest_streak, last_completed_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id) DO UPDATE SET
			completion_id = excluded.completion_id,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_completed_date = excluded.last_completed_date,
			updated_at = excluded.updated_at`,
		st.HabitID, st.CompletionID,
		st.Streak.CurrentStreak, st.Streak.LongestStreak, st.Streak.LastCompletedDate,
		st.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) DeleteHabitStatus(habitID string) error {
	_, err := s.db.Exec("DELETE FROM habit_status WHERE habit_id = ?", habitID)
	return err
}

func (s *Store) ReplaceHabitStatuses(statuses []models.HabitStatus) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_status"); err != nil {
		return err
	}
	for _, st := range statuses {
		_, err := tx.Exec(`
			INSERT INTO habit_status
				(habit_id, completion_id, current_streak, longest_streak, last_completed_date, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			st.HabitID, st.CompletionID,
			st.Streak.CurrentStreak, st.Streak.LongestStreak, st.Streak.LastCompletedDate,
			st.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
)

func (s *Store) EnqueueCompletion(qc models.QueuedCompletion) error {
	_, err := s.db.Exec(`
		INSERT INTO completion_queue
			(id, habit_id, occurred_at, day, duration_min, notes, quality_rating, status, retry_count, queued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		qc.ID, qc.HabitID, qc.OccurredAt.Format(time.RFC3339), qc.Day,
		qc.Meta.DurationMinutes, qc.Meta.Notes, qc.Meta.QualityRating,
		string(qc.Status), qc.RetryCount, qc.QueuedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetQueuedCompletion(id string) (models.QueuedCompletion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, occurred_at, day, duration_min, notes, quality_rating, status, retry_count, queued_at
		FROM completion_queue WHERE id = $1`, id)
	return scanQueuedCompletion(row)
}

func (s *Store) ListPendingCompletions() ([]models.QueuedCompletion, error) {
	return s.listCompletionsByStatus(models.CompletionPending)
}

func (s *Store) ListFailedCompletions() ([]models.QueuedCompletion, error) {
	return s.listCompletionsByStatus(models.CompletionFailed)
}

func (s *Store) listCompletionsByStatus(status models.CompletionStatus) ([]models.QueuedCompletion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, occurred_at, day, duration_min, notes, quality_rating, status, retry_count, queued_at
		FROM completion_queue WHERE status = $1 ORDER BY seq`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QueuedCompletion
	for rows.Next() {
		qc, err := scanQueuedCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, qc)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCompletionStatus(id string, status models.CompletionStatus) error {
	res, err := s.db.Exec(
		"UPDATE completion_queue SET status = $1 WHERE id = $2", string(status), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) IncrementCompletionRetry(id string) error {
	res, err := s.db.Exec(
		"UPDATE completion_queue SET retry_count = retry_count + 1 WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) RequeueCompletion(id string) error {
	res, err := s.db.Exec(
		"UPDATE completion_queue SET status = 'pending', retry_count = 0 WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) RemoveCompletion(id string) error {
	res, err := s.db.Exec("DELETE FROM completion_queue WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) HasCompletionToday(habitID, day string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT count(*) FROM completion_queue
		WHERE habit_id = $1 AND day = $2 AND status IN ('pending', 'syncing')`,
		habitID, day).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CountCompletionsByStatus(status models.CompletionStatus) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT count(*) FROM completion_queue WHERE status = $1", string(status)).Scan(&count)
	return count, err
}

func scanQueuedCompletion(row rowScanner) (models.QueuedCompletion, error) {
	var qc models.QueuedCompletion
	var occurredAt, queuedAt, status string

	err := row.Scan(&qc.ID, &qc.HabitID, &occurredAt, &qc.Day,
		&qc.Meta.DurationMinutes, &qc.Meta.Notes, &qc.Meta.QualityRating,
		&status, &qc.RetryCount, &queuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueuedCompletion{}, storage.ErrNotFound
	}
	if err != nil {
		return models.QueuedCompletion{}, err
	}

	qc.Status = models.CompletionStatus(status)
	qc.OccurredAt, err = time.Parse(time.RFC3339, occurredAt)
	if err != nil {
		return models.QueuedCompletion{}, fmt.Errorf("failed to parse occurred_at: %w", err)
	}
	qc.QueuedAt, err = time.Parse(time.RFC3339, queuedAt)
	if err != nil {
		return models.QueuedCompletion{}, fmt.Errorf("failed to parse queued_at: %w", err)
	}
	return qc, nil
}

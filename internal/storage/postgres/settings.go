package postgres

import (
	"fmt"

	"github.com/ritualapp/ritual-cli/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "timezone":
			settings.Timezone = value
		case "server_url":
			settings.ServerURL = value
		case "debounce_ms":
			if _, err := fmt.Sscanf(value, "%d", &settings.DebounceMs); err != nil {
				return models.Settings{}, fmt.Errorf("parsing debounce_ms: %w", err)
			}
		case "undo_seconds":
			if _, err := fmt.Sscanf(value, "%d", &settings.UndoSeconds); err != nil {
				return models.Settings{}, fmt.Errorf("parsing undo_seconds: %w", err)
			}
		case "max_sync_retries":
			if _, err := fmt.Sscanf(value, "%d", &settings.MaxSyncRetries); err != nil {
				return models.Settings{}, fmt.Errorf("parsing max_sync_retries: %w", err)
			}
		}
	}
	return settings, rows.Err()
}

func (s *Store) SaveSettings(settings models.Settings) error {
	pairs := map[string]string{
		"timezone":         settings.Timezone,
		"server_url":       settings.ServerURL,
		"debounce_ms":      fmt.Sprintf("%d", settings.DebounceMs),
		"undo_seconds":     fmt.Sprintf("%d", settings.UndoSeconds),
		"max_sync_retries": fmt.Sprintf("%d", settings.MaxSyncRetries),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range pairs {
		_, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

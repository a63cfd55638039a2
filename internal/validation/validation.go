package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ritualapp/ritual-cli/internal/constants"
)

// ValidateQualityRating checks a completion quality rating. Zero means
// unset and is allowed; anything else must be 1-5. Invalid ratings are
// rejected before a completion is queued or sent, never retried.
func ValidateQualityRating(rating int) error {
	if rating == 0 {
		return nil
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("quality rating must be between 1 and 5, got %d", rating)
	}
	return nil
}

// ValidateDurationMinutes checks an optional completion duration.
func ValidateDurationMinutes(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("duration cannot be negative, got %d", minutes)
	}
	if minutes > 24*60 {
		return fmt.Errorf("duration cannot exceed a full day, got %d minutes", minutes)
	}
	return nil
}

// ValidateHabitName checks a habit name for emptiness and length.
func ValidateHabitName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if len(trimmed) > 100 {
		return fmt.Errorf("habit name cannot exceed 100 characters")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(date string) error {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return nil
}

// ValidateTimezone checks an IANA timezone name.
func ValidateTimezone(timezone string) error {
	if timezone == "" || timezone == "Local" {
		return nil
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q", timezone)
	}
	return nil
}

package utils

import (
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// DayOf returns the calendar day (YYYY-MM-DD) of t in the given location.
// "Today" is always determined by the user's reference timezone, not the
// system timezone.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDay parses a calendar day string (YYYY-MM-DD) as midnight in the
// given location.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DaysBetween returns the number of calendar days from day a to day b
// (both YYYY-MM-DD). The result is positive when b is after a, negative when
// b is before a, and zero for the same day. DST transitions do not affect
// the count because both days are normalized to midnight before comparing.
func DaysBetween(a, b string, loc *time.Location) (int, error) {
	ta, err := ParseDay(a, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q: %w", a, err)
	}
	tb, err := ParseDay(b, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q: %w", b, err)
	}
	// Round rather than truncate so a 23- or 25-hour DST day still counts
	// as one calendar day.
	hours := tb.Sub(ta).Hours()
	days := int(hours / 24)
	if rem := hours - float64(days)*24; rem > 12 {
		days++
	} else if rem < -12 {
		days--
	}
	return days, nil
}

// SameDay reports whether two instants fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayOf(a, loc) == DayOf(b, loc)
}

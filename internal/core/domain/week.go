package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWeekID   = errors.New("invalid week id (must be YYYY-Www)")
	ErrInvalidDayIndex = errors.New("invalid day index (must be 0-6)")
)

// DayLabels maps a day index (Monday=0) to its short label.
var DayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekIDOf returns the ISO week id for a date, e.g. "2026-W35".
func WeekIDOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ParseWeekID splits a "YYYY-Www" id into its ISO year and week number.
func ParseWeekID(id string) (int, int, error) {
	var year, week int
	if len(id) != 8 || id[4] != '-' || id[5] != 'W' {
		return 0, 0, ErrInvalidWeekID
	}
	if _, err := fmt.Sscanf(id, "%4d-W%2d", &year, &week); err != nil {
		return 0, 0, ErrInvalidWeekID
	}
	if week < 1 || week > 53 {
		return 0, 0, ErrInvalidWeekID
	}
	return year, week, nil
}

// WeekStart returns the Monday (00:00 UTC) opening the given ISO week.
// ISO week 1 is the week containing January 4th.
func WeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	firstMonday := jan4.AddDate(0, 0, -DayIndexOf(jan4))
	return firstMonday.AddDate(0, 0, (week-1)*7)
}

// WeekStartOf returns the Monday opening the ISO week identified by id.
func WeekStartOf(id string) (time.Time, error) {
	year, week, err := ParseWeekID(id)
	if err != nil {
		return time.Time{}, err
	}
	return WeekStart(year, week), nil
}

// DayIndexOf converts a date's weekday to the Monday=0..Sunday=6 index.
func DayIndexOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayLabel returns the short label for a day index, or "?" when out of range.
func DayLabel(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return DayLabels[day]
}

// ValidDayIndex reports whether day addresses one of the 7 week slots.
func ValidDayIndex(day int) bool {
	return day >= 0 && day <= 6
}

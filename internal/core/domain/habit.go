package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 80 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidTarget      = errors.New("daily target must be between 0 and 24 hours")
	ErrInvalidColor       = errors.New("invalid color tag")
)

const MaxHabitNameLen = 80

// Color tags the dashboard can render. Fixed closed set.
const (
	ColorEmerald = "emerald"
	ColorSky     = "sky"
	ColorAmber   = "amber"
	ColorRose    = "rose"
	ColorViolet  = "violet"
)

var validColors = map[string]bool{
	ColorEmerald: true,
	ColorSky:     true,
	ColorAmber:   true,
	ColorRose:    true,
	ColorViolet:  true,
}

// Habit is a tracked activity with a fractional daily target in hours
// (0.5 = 30 minutes). Targets may be zero; such habits never contribute
// to percentage denominators.
type Habit struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	DailyTarget float64    `json:"daily_target" db:"daily_target"`
	Color       string     `json:"color" db:"color"`
	Version     int        `json:"version" db:"version"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validateHabit(name, color string, target float64) (string, string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", "", ErrHabitNameEmpty
	}
	if len(trimmed) > MaxHabitNameLen {
		return "", "", ErrHabitNameTooLong
	}

	if target < 0 || target > 24 {
		return "", "", ErrInvalidTarget
	}

	if color == "" {
		color = ColorSky
	}
	if !validColors[color] {
		return "", "", ErrInvalidColor
	}

	return trimmed, color, nil
}

func NewHabit(userID, name, color string, dailyTarget float64) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanName, cleanColor, err := validateHabit(name, color, dailyTarget)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        cleanName,
		DailyTarget: dailyTarget,
		Color:       cleanColor,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(name, color string, dailyTarget float64) error {
	cleanName, cleanColor, err := validateHabit(name, color, dailyTarget)
	if err != nil {
		return err
	}

	h.Name = cleanName
	h.Color = cleanColor
	h.DailyTarget = dailyTarget
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// WeeklyTarget is the habit's daily target summed over the 7 week days.
func (h *Habit) WeeklyTarget() float64 {
	return h.DailyTarget * 7
}

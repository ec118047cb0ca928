package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHours   = errors.New("hours must be between 0 and 24")
	ErrRecordNotFound = errors.New("weekly record not found")
	ErrRecordConflict = errors.New("weekly record version conflict")
)

// DayLog is one day slot of a weekly record. Completed and Hours are
// written together by the entry UI but never cross-validated: a day can
// be checked with zero hours or carry hours while unchecked.
type DayLog struct {
	Completed bool    `json:"completed"`
	Hours     float64 `json:"hours"`
}

// WeeklyRecord holds the 7 day logs of one habit in one ISO week.
// Exactly one record exists per (habit, week); a missing record is
// equivalent to an all-zero one and is materialized lazily.
type WeeklyRecord struct {
	ID        string    `json:"id" db:"id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	WeekID    string    `json:"week_id" db:"week_id"`
	Days      [7]DayLog `json:"days"`
	Version   int       `json:"version" db:"version"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewWeeklyRecord(habitID, userID, weekID string) (*WeeklyRecord, error) {
	if _, _, err := ParseWeekID(weekID); err != nil {
		return nil, err
	}

	return &WeeklyRecord{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		UserID:    userID,
		WeekID:    weekID,
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// EmptyWeeklyRecord synthesizes the all-zero record standing in for a
// (habit, week) pair that was never written. It carries no identity and
// must not be persisted.
func EmptyWeeklyRecord(habitID, userID, weekID string) *WeeklyRecord {
	return &WeeklyRecord{
		HabitID: habitID,
		UserID:  userID,
		WeekID:  weekID,
	}
}

// ToggleDay flips the completed flag of one day slot. Hours are left
// untouched; the two fields are deliberately uncoupled.
func (r *WeeklyRecord) ToggleDay(day int) error {
	if !ValidDayIndex(day) {
		return ErrInvalidDayIndex
	}

	r.Days[day].Completed = !r.Days[day].Completed
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// SetHours records the actual hours for one day slot. This is the
// validation boundary for user input: the analytics core downstream
// assumes well-formed values.
func (r *WeeklyRecord) SetHours(day int, hours float64) error {
	if !ValidDayIndex(day) {
		return ErrInvalidDayIndex
	}
	if hours < 0 || hours > 24 {
		return ErrInvalidHours
	}

	r.Days[day].Hours = hours
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// TotalHours sums the actual hours of all 7 days.
func (r *WeeklyRecord) TotalHours() float64 {
	var total float64
	for _, d := range r.Days {
		total += d.Hours
	}
	return total
}

// HoursThrough sums the actual hours of days 0..day inclusive.
func (r *WeeklyRecord) HoursThrough(day int) float64 {
	if day > 6 {
		day = 6
	}
	var total float64
	for i := 0; i <= day; i++ {
		total += r.Days[i].Hours
	}
	return total
}

// HabitWeek joins a habit with its weekly record for the week under
// view. Pairings are ephemeral and recomputed per query; they own no
// state.
type HabitWeek struct {
	Habit  *Habit
	Record *WeeklyRecord
}

// PairForWeek joins every habit with its record for weekID, synthesizing
// an empty record where none exists. Output order follows the habit list.
func PairForWeek(habits []*Habit, records []*WeeklyRecord, weekID string) []HabitWeek {
	byHabit := make(map[string]*WeeklyRecord, len(records))
	for _, rec := range records {
		if rec.WeekID == weekID {
			byHabit[rec.HabitID] = rec
		}
	}

	pairs := make([]HabitWeek, 0, len(habits))
	for _, h := range habits {
		rec, ok := byHabit[h.ID]
		if !ok {
			rec = EmptyWeeklyRecord(h.ID, h.UserID, weekID)
		}
		pairs = append(pairs, HabitWeek{Habit: h, Record: rec})
	}

	return pairs
}

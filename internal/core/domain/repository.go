package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
)

type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all live habits owned by a user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies an existing habit, enforcing optimistic versioning.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft-deletes a habit.
	Delete(ctx context.Context, id string) error

	// GetChanges returns only the deltas occurring after a specific
	// instant, for sync clients.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)
}

type WeeklyRecordRepository interface {
	// GetByHabitAndWeek retrieves the record for one (habit, week) pair.
	GetByHabitAndWeek(ctx context.Context, habitID, weekID string) (*WeeklyRecord, error)

	// ListByUserAndWeek retrieves all of a user's records for one week.
	ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]*WeeklyRecord, error)

	// Upsert inserts the record or replaces the existing row for the
	// same (habit, week) pair, enforcing optimistic versioning.
	Upsert(ctx context.Context, record *WeeklyRecord) error

	// GetChanges returns records updated after a specific instant.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*WeeklyRecord, error)
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
	"github.com/lucasorrentino/weekwise/internal/core/workers"
)

// RecordService is the write path for daily tracking data. It is the
// validation boundary the analytics core relies on: day indices and
// hour values are checked here before anything reaches storage.
type RecordService struct {
	repo      domain.WeeklyRecordRepository
	habitRepo domain.HabitRepository
	worker    *workers.SnapshotWorker
}

func NewRecordService(repo domain.WeeklyRecordRepository, habitRepo domain.HabitRepository, worker *workers.SnapshotWorker) *RecordService {
	return &RecordService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type ToggleDayInput struct {
	HabitID string
	UserID  string
	WeekID  string
	Day     int
	Version int
}

type SetHoursInput struct {
	HabitID string
	UserID  string
	WeekID  string
	Day     int
	Hours   float64
	Version int
}

// loadOrCreate materializes the record for a (habit, week) pair,
// synthesizing a fresh one when the pair was never written. Ownership
// of the habit is verified first.
func (s *RecordService) loadOrCreate(ctx context.Context, habitID, userID, weekID string) (*domain.WeeklyRecord, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	record, err := s.repo.GetByHabitAndWeek(ctx, habitID, weekID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.NewWeeklyRecord(habitID, userID, weekID)
		}
		return nil, err
	}

	return record, nil
}

func (s *RecordService) ToggleDay(ctx context.Context, input ToggleDayInput) (*domain.WeeklyRecord, error) {
	record, err := s.loadOrCreate(ctx, input.HabitID, input.UserID, input.WeekID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && record.Version != input.Version {
		return nil, domain.ErrRecordConflict
	}

	if err := record.ToggleDay(input.Day); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID, input.WeekID)

	return record, nil
}

func (s *RecordService) SetHours(ctx context.Context, input SetHoursInput) (*domain.WeeklyRecord, error) {
	record, err := s.loadOrCreate(ctx, input.HabitID, input.UserID, input.WeekID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && record.Version != input.Version {
		return nil, domain.ErrRecordConflict
	}

	if err := record.SetHours(input.Day, input.Hours); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID, input.WeekID)

	return record, nil
}

func (s *RecordService) GetWeek(ctx context.Context, userID, weekID string) ([]*domain.WeeklyRecord, error) {
	if _, _, err := domain.ParseWeekID(weekID); err != nil {
		return nil, err
	}
	return s.repo.ListByUserAndWeek(ctx, userID, weekID)
}

func (s *RecordService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.WeeklyRecord, error) {
	return s.repo.GetChanges(ctx, userID, since)
}

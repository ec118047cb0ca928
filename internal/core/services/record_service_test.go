package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
	"github.com/lucasorrentino/weekwise/internal/core/services"
	"github.com/lucasorrentino/weekwise/internal/core/workers"
)

// testWorker has no cache wired, so enqueued jobs are inert.
func testWorker() *workers.SnapshotWorker {
	return workers.NewSnapshotWorker(nil, nil, nil, nil)
}

func TestRecordService_ToggleDay(t *testing.T) {
	habit, err := domain.NewHabit("user-1", "Reading", "", 1)
	require.NoError(t, err)

	t.Run("Success: first write synthesizes the record", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)
		recordRepo.On("GetByHabitAndWeek", mock.Anything, habit.ID, "2026-W35").Return(nil, domain.ErrRecordNotFound)
		recordRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.WeeklyRecord")).Return(nil)

		record, err := svc.ToggleDay(context.Background(), services.ToggleDayInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			WeekID:  "2026-W35",
			Day:     2,
		})

		require.NoError(t, err)
		assert.True(t, record.Days[2].Completed)
		assert.Equal(t, "2026-W35", record.WeekID)
		recordRepo.AssertExpectations(t)
	})

	t.Run("Success: existing record toggles off", func(t *testing.T) {
		existing, err := domain.NewWeeklyRecord(habit.ID, "user-1", "2026-W35")
		require.NoError(t, err)
		require.NoError(t, existing.ToggleDay(2))

		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)
		recordRepo.On("GetByHabitAndWeek", mock.Anything, habit.ID, "2026-W35").Return(existing, nil)
		recordRepo.On("Upsert", mock.Anything, existing).Return(nil)

		record, err := svc.ToggleDay(context.Background(), services.ToggleDayInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			WeekID:  "2026-W35",
			Day:     2,
		})

		require.NoError(t, err)
		assert.False(t, record.Days[2].Completed)
	})

	t.Run("Fail: foreign habit", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)

		_, err := svc.ToggleDay(context.Background(), services.ToggleDayInput{
			HabitID: habit.ID,
			UserID:  "someone-else",
			WeekID:  "2026-W35",
			Day:     0,
		})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		recordRepo.AssertNotCalled(t, "Upsert")
	})

	t.Run("Fail: stale version conflicts", func(t *testing.T) {
		existing, err := domain.NewWeeklyRecord(habit.ID, "user-1", "2026-W35")
		require.NoError(t, err)
		existing.Version = 3

		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)
		recordRepo.On("GetByHabitAndWeek", mock.Anything, habit.ID, "2026-W35").Return(existing, nil)

		_, err = svc.ToggleDay(context.Background(), services.ToggleDayInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			WeekID:  "2026-W35",
			Day:     0,
			Version: 1,
		})

		assert.ErrorIs(t, err, domain.ErrRecordConflict)
		recordRepo.AssertNotCalled(t, "Upsert")
	})

	t.Run("Fail: invalid day index", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)
		recordRepo.On("GetByHabitAndWeek", mock.Anything, habit.ID, "2026-W35").Return(nil, domain.ErrRecordNotFound)

		_, err := svc.ToggleDay(context.Background(), services.ToggleDayInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			WeekID:  "2026-W35",
			Day:     7,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidDayIndex)
		recordRepo.AssertNotCalled(t, "Upsert")
	})
}

func TestRecordService_SetHours(t *testing.T) {
	habit, err := domain.NewHabit("user-1", "Reading", "", 1)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)
		recordRepo.On("GetByHabitAndWeek", mock.Anything, habit.ID, "2026-W35").Return(nil, domain.ErrRecordNotFound)
		recordRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.WeeklyRecord")).Return(nil)

		record, err := svc.SetHours(context.Background(), services.SetHoursInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			WeekID:  "2026-W35",
			Day:     4,
			Hours:   1.5,
		})

		require.NoError(t, err)
		assert.Equal(t, 1.5, record.Days[4].Hours)
		assert.False(t, record.Days[4].Completed)
	})

	t.Run("Fail: out of range hours never reach storage", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		habitRepo.On("GetByID", mock.Anything, habit.ID).Return(habit, nil)
		recordRepo.On("GetByHabitAndWeek", mock.Anything, habit.ID, "2026-W35").Return(nil, domain.ErrRecordNotFound)

		_, err := svc.SetHours(context.Background(), services.SetHoursInput{
			HabitID: habit.ID,
			UserID:  "user-1",
			WeekID:  "2026-W35",
			Day:     0,
			Hours:   25,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidHours)
		recordRepo.AssertNotCalled(t, "Upsert")
	})
}

func TestRecordService_GetWeek(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		recordRepo.On("ListByUserAndWeek", mock.Anything, "user-1", "2026-W35").Return([]*domain.WeeklyRecord{}, nil)

		records, err := svc.GetWeek(context.Background(), "user-1", "2026-W35")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Fail: malformed week id", func(t *testing.T) {
		habitRepo := new(MockHabitRepository)
		recordRepo := new(MockRecordRepository)
		svc := services.NewRecordService(recordRepo, habitRepo, testWorker())

		_, err := svc.GetWeek(context.Background(), "user-1", "2026W35")
		assert.ErrorIs(t, err, domain.ErrInvalidWeekID)
		recordRepo.AssertNotCalled(t, "ListByUserAndWeek")
	})
}

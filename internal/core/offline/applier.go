package offline

import (
	"context"
	"fmt"

	"github.com/lucasorrentino/weekwise/internal/core/services"
)

// ServiceApplier replays buffered mutations against the live services
// once connectivity is back.
type ServiceApplier struct {
	habits  *services.HabitService
	records *services.RecordService
}

func NewServiceApplier(habits *services.HabitService, records *services.RecordService) *ServiceApplier {
	return &ServiceApplier{
		habits:  habits,
		records: records,
	}
}

func (a *ServiceApplier) Apply(ctx context.Context, m Mutation) error {
	switch m.Type {
	case OpToggleDay:
		_, err := a.records.ToggleDay(ctx, services.ToggleDayInput{
			HabitID: m.HabitID,
			UserID:  m.UserID,
			WeekID:  m.WeekID,
			Day:     m.Day,
		})
		return err
	case OpSetHours:
		_, err := a.records.SetHours(ctx, services.SetHoursInput{
			HabitID: m.HabitID,
			UserID:  m.UserID,
			WeekID:  m.WeekID,
			Day:     m.Day,
			Hours:   m.Hours,
		})
		return err
	case OpCreateHabit:
		_, err := a.habits.Create(ctx, services.CreateHabitInput{
			UserID:      m.UserID,
			Name:        m.Name,
			Color:       m.Color,
			DailyTarget: m.DailyTarget,
		})
		return err
	case OpUpdateHabit:
		// Offline edits snapshot the whole form, so the target always
		// travels with the mutation.
		_, err := a.habits.Update(ctx, services.UpdateHabitInput{
			ID:          m.HabitID,
			UserID:      m.UserID,
			Name:        m.Name,
			Color:       m.Color,
			DailyTarget: &m.DailyTarget,
		})
		return err
	case OpDeleteHabit:
		return a.habits.Delete(ctx, m.HabitID, m.UserID)
	default:
		return fmt.Errorf("unknown mutation type %q", m.Type)
	}
}

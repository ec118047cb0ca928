package services

import (
	"context"
	"time"

	"github.com/lucasorrentino/weekwise/internal/core/analytics"
	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

// AnalyticsService resolves the pairings for a (user, week) and feeds
// them through the pure analytics core. The wall clock is injected so
// the core itself never reads time.
type AnalyticsService struct {
	habitRepo  domain.HabitRepository
	recordRepo domain.WeeklyRecordRepository
	now        func() time.Time
}

func NewAnalyticsService(habitRepo domain.HabitRepository, recordRepo domain.WeeklyRecordRepository, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		habitRepo:  habitRepo,
		recordRepo: recordRepo,
		now:        now,
	}
}

// WeekView bundles the snapshot with its insight feed; both derive from
// the same pairings so they always agree.
type WeekView struct {
	WeekID   string                 `json:"week_id"`
	Snapshot analytics.WeekSnapshot `json:"snapshot"`
	Insights []domain.Insight       `json:"insights"`
}

func (s *AnalyticsService) pairings(ctx context.Context, userID, weekID string) ([]domain.HabitWeek, error) {
	if _, _, err := domain.ParseWeekID(weekID); err != nil {
		return nil, err
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByUserAndWeek(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}

	return domain.PairForWeek(habits, records, weekID), nil
}

func (s *AnalyticsService) GetWeekView(ctx context.Context, userID, weekID string) (*WeekView, error) {
	pairs, err := s.pairings(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	todayIndex := domain.DayIndexOf(now)
	isCurrentWeek := domain.WeekIDOf(now) == weekID

	snap := analytics.Aggregate(pairs, todayIndex, isCurrentWeek)
	insights := analytics.Evaluate(pairs, &snap, now)

	return &WeekView{
		WeekID:   weekID,
		Snapshot: snap,
		Insights: insights,
	}, nil
}

// GetInsights returns only the insight feed, optionally truncated to
// the top entries. Truncation is presentation, not engine contract.
func (s *AnalyticsService) GetInsights(ctx context.Context, userID, weekID string, limit int) ([]domain.Insight, error) {
	view, err := s.GetWeekView(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}

	insights := view.Insights
	if limit > 0 && limit < len(insights) {
		insights = insights[:limit]
	}
	return insights, nil
}

// Package analytics computes weekly progress metrics and coaching
// insights from habit/record pairings. Everything here is pure: inputs
// arrive as parameters (including "which day is today"), outputs are
// freshly allocated, and no clock or store is ever touched.
package analytics

import (
	"math"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

// HabitProgress holds one habit's derived metrics for the viewed week.
// Percent values are capped at 100 for display; Ratio keeps the uncapped
// actual/target quotient for heatmap intensity.
type HabitProgress struct {
	HabitID       string  `json:"habit_id"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	WeeklyTarget  float64 `json:"weekly_target"`
	WeeklyActual  float64 `json:"weekly_actual"`
	WeeklyPercent int     `json:"weekly_percent"`
	WeeklyRatio   float64 `json:"weekly_ratio"`
	TodayTarget   float64 `json:"today_target"`
	TodayActual   float64 `json:"today_actual"`
	TodayPercent  int     `json:"today_percent"`
}

// DayProgress aggregates one week day across all habits.
type DayProgress struct {
	Target  float64 `json:"target"`
	Actual  float64 `json:"actual"`
	Percent int     `json:"percent"`
	Ratio   float64 `json:"ratio"`
}

// WeekTotals sums targets and actuals across all habits and days.
type WeekTotals struct {
	Target         float64 `json:"target"`
	Actual         float64 `json:"actual"`
	Percent        int     `json:"percent"`
	HoursDone      float64 `json:"hours_done"`
	HoursRemaining float64 `json:"hours_remaining"`
}

// Pacing compares actual progress against the proportionally expected
// progress for the elapsed portion of the week. Delta is signed hours:
// positive means ahead.
type Pacing struct {
	ExpectedToDate float64 `json:"expected_to_date"`
	ActualToDate   float64 `json:"actual_to_date"`
	Delta          float64 `json:"delta"`
	Percent        int     `json:"percent"`
	Ahead          bool    `json:"ahead"`
}

// WeekSnapshot is the complete derived metrics structure for one week.
// It is recomputed on every input change and never persisted.
type WeekSnapshot struct {
	Habits      []HabitProgress `json:"habits"`
	Days        [7]DayProgress  `json:"days"`
	Today       DayProgress     `json:"today"`
	Totals      WeekTotals      `json:"totals"`
	Pacing      Pacing          `json:"pacing"`
	TodayIndex  int             `json:"today_index"`
	CurrentWeek bool            `json:"current_week"`
	DaysElapsed int             `json:"days_elapsed"`
}

// percent caps the display ratio at 100 and defines a zero target as 0%,
// so no division by zero ever surfaces.
func percent(actual, target float64) int {
	if target <= 0 {
		return 0
	}
	p := int(math.Round(actual / target * 100))
	if p > 100 {
		return 100
	}
	return p
}

// ratio is the uncapped actual/target quotient, 0 when target is 0.
func ratio(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target
}

// HeatIntensity maps an uncapped ratio to a color-intensity factor,
// saturating at 150%.
func HeatIntensity(r float64) float64 {
	if r > 1.5 {
		return 1.5
	}
	if r < 0 {
		return 0
	}
	return r
}

// Aggregate folds the habit/record pairings into the week's complete
// progress metrics. It is deterministic, side-effect free and total:
// malformed input is the caller's contract violation, not defended here.
func Aggregate(pairs []domain.HabitWeek, todayIndex int, isCurrentWeek bool) WeekSnapshot {
	snap := WeekSnapshot{
		Habits:      make([]HabitProgress, 0, len(pairs)),
		TodayIndex:  todayIndex,
		CurrentWeek: isCurrentWeek,
	}

	daysElapsed := 7
	if isCurrentWeek {
		daysElapsed = todayIndex + 1
	}
	snap.DaysElapsed = daysElapsed

	var actualToDate float64

	for _, p := range pairs {
		weeklyTarget := p.Habit.WeeklyTarget()
		weeklyActual := p.Record.TotalHours()
		todayActual := p.Record.Days[todayIndex].Hours

		hp := HabitProgress{
			HabitID:       p.Habit.ID,
			Name:          p.Habit.Name,
			Color:         p.Habit.Color,
			WeeklyTarget:  weeklyTarget,
			WeeklyActual:  weeklyActual,
			WeeklyPercent: percent(weeklyActual, weeklyTarget),
			WeeklyRatio:   ratio(weeklyActual, weeklyTarget),
			TodayTarget:   p.Habit.DailyTarget,
			TodayActual:   todayActual,
			TodayPercent:  percent(todayActual, p.Habit.DailyTarget),
		}
		snap.Habits = append(snap.Habits, hp)

		for d := 0; d < 7; d++ {
			snap.Days[d].Target += p.Habit.DailyTarget
			snap.Days[d].Actual += p.Record.Days[d].Hours
		}

		snap.Totals.Target += weeklyTarget
		snap.Totals.Actual += weeklyActual

		if isCurrentWeek {
			actualToDate += p.Record.HoursThrough(todayIndex)
		} else {
			actualToDate += weeklyActual
		}
	}

	for d := 0; d < 7; d++ {
		snap.Days[d].Percent = percent(snap.Days[d].Actual, snap.Days[d].Target)
		snap.Days[d].Ratio = ratio(snap.Days[d].Actual, snap.Days[d].Target)
	}
	snap.Today = snap.Days[todayIndex]

	snap.Totals.Percent = percent(snap.Totals.Actual, snap.Totals.Target)
	snap.Totals.HoursDone = snap.Totals.Actual
	snap.Totals.HoursRemaining = math.Max(0, snap.Totals.Target-snap.Totals.Actual)

	expected := snap.Totals.Target / 7 * float64(daysElapsed)
	snap.Pacing = Pacing{
		ExpectedToDate: expected,
		ActualToDate:   actualToDate,
		Delta:          actualToDate - expected,
		Ahead:          actualToDate-expected >= 0,
	}
	if expected > 0 {
		snap.Pacing.Percent = int(math.Round((actualToDate - expected) / expected * 100))
	}

	return snap
}

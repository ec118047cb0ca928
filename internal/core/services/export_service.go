package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lucasorrentino/weekwise/internal/core/analytics"
	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

// ExportService turns a week snapshot into shareable interchange data.
// The letter grade here uses the export scale, which deliberately
// differs from the dashboard scale.
type ExportService struct {
	analytics *AnalyticsService
}

func NewExportService(analyticsSvc *AnalyticsService) *ExportService {
	return &ExportService{
		analytics: analyticsSvc,
	}
}

type HabitExport struct {
	Name         string     `json:"name"`
	Color        string     `json:"color"`
	WeeklyTarget float64    `json:"weekly_target"`
	WeeklyActual float64    `json:"weekly_actual"`
	Percent      int        `json:"percent"`
	DailyHours   [7]float64 `json:"daily_hours"`
}

type WeekExport struct {
	WeekID            string        `json:"week_id"`
	GeneratedAt       time.Time     `json:"generated_at"`
	TotalHabits       int           `json:"total_habits"`
	CompletionPercent int           `json:"completion_percent"`
	TotalTarget       float64       `json:"total_target"`
	HoursCompleted    float64       `json:"hours_completed"`
	HoursRemaining    float64       `json:"hours_remaining"`
	Grade             string        `json:"grade"`
	Habits            []HabitExport `json:"habits"`
}

func (s *ExportService) BuildWeekExport(ctx context.Context, userID, weekID string) (*WeekExport, error) {
	pairs, err := s.analytics.pairings(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}

	now := s.analytics.now().UTC()
	snap := analytics.Aggregate(pairs, domain.DayIndexOf(now), domain.WeekIDOf(now) == weekID)

	export := &WeekExport{
		WeekID:            weekID,
		GeneratedAt:       now,
		TotalHabits:       len(snap.Habits),
		CompletionPercent: snap.Totals.Percent,
		TotalTarget:       snap.Totals.Target,
		HoursCompleted:    snap.Totals.HoursDone,
		HoursRemaining:    snap.Totals.HoursRemaining,
		Grade:             analytics.ExportGrade(snap.Totals.Percent),
		Habits:            make([]HabitExport, 0, len(snap.Habits)),
	}

	for i, hp := range snap.Habits {
		he := HabitExport{
			Name:         hp.Name,
			Color:        hp.Color,
			WeeklyTarget: hp.WeeklyTarget,
			WeeklyActual: hp.WeeklyActual,
			Percent:      hp.WeeklyPercent,
		}
		for d := 0; d < 7; d++ {
			he.DailyHours[d] = pairs[i].Record.Days[d].Hours
		}
		export.Habits = append(export.Habits, he)
	}

	return export, nil
}

// RenderCSV emits one header row, one row per habit with the per-day
// breakdown, and a totals row.
func (s *ExportService) RenderCSV(export *WeekExport) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"habit", "target_h", "actual_h", "percent"}
	for _, label := range domain.DayLabels {
		header = append(header, label)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, h := range export.Habits {
		row := []string{
			h.Name,
			strconv.FormatFloat(h.WeeklyTarget, 'f', 1, 64),
			strconv.FormatFloat(h.WeeklyActual, 'f', 1, 64),
			strconv.Itoa(h.Percent),
		}
		for _, hours := range h.DailyHours {
			row = append(row, strconv.FormatFloat(hours, 'f', 1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	totals := []string{
		"TOTAL",
		strconv.FormatFloat(export.TotalTarget, 'f', 1, 64),
		strconv.FormatFloat(export.HoursCompleted, 'f', 1, 64),
		strconv.Itoa(export.CompletionPercent),
		"", "", "", "", "", "", "",
	}
	if err := w.Write(totals); err != nil {
		return "", err
	}

	w.Flush()
	return sb.String(), w.Error()
}

// RenderText builds the plain-text share summary.
func (s *ExportService) RenderText(export *WeekExport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Week %s: %d habits, %d%% complete (grade %s)\n",
		export.WeekID, export.TotalHabits, export.CompletionPercent, export.Grade)
	fmt.Fprintf(&sb, "%.1fh done, %.1fh remaining\n", export.HoursCompleted, export.HoursRemaining)

	for _, h := range export.Habits {
		fmt.Fprintf(&sb, "  %-20s %5.1fh / %5.1fh  %3d%%\n", h.Name, h.WeeklyActual, h.WeeklyTarget, h.Percent)
	}

	return sb.String()
}

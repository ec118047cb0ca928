package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

// ruleContext carries everything a rule may inspect. Rules never see
// each other's output; results are pooled and sorted afterwards.
type ruleContext struct {
	pairs       []domain.HabitWeek
	snap        *WeekSnapshot
	todayIndex  int
	currentWeek bool

	// scanLimit is the exclusive upper bound for day scans: todayIndex+1
	// for the current week, 7 for a past week.
	scanLimit int
}

type ruleFunc func(*ruleContext) []domain.Insight

// Rules run in this fixed declared order. The order matters only for
// tie-breaking: equal priorities keep their emission order.
var rules = []ruleFunc{
	ruleDisciplineLeak,
	ruleUnderExecuted,
	ruleRecoveryPlan,
	ruleTargetHit,
	ruleTopBottom,
	ruleWeakDay,
	ruleStreakBreak,
	ruleProjection,
	rulePerfectDays,
	ruleToday,
}

// Evaluate runs every rule over the snapshot and pairings, then sorts
// the pooled insights by priority descending, stable on ties. It is
// pure and total: it always returns, possibly with an empty slice.
// Insight IDs are sequence numbers local to this single call.
func Evaluate(pairs []domain.HabitWeek, snap *WeekSnapshot, now time.Time) []domain.Insight {
	ctx := &ruleContext{
		pairs:       pairs,
		snap:        snap,
		todayIndex:  snap.TodayIndex,
		currentWeek: snap.CurrentWeek,
		scanLimit:   7,
	}
	if snap.CurrentWeek {
		ctx.scanLimit = snap.TodayIndex + 1
	}

	insights := make([]domain.Insight, 0)
	for _, rule := range rules {
		insights = append(insights, rule(ctx)...)
	}

	for i := range insights {
		insights[i].ID = i + 1
		insights[i].GeneratedAt = now
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})

	return insights
}

func fmtHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// ruleDisciplineLeak flags habits under 60% whose elapsed days fell
// below half the daily target.
func ruleDisciplineLeak(ctx *ruleContext) []domain.Insight {
	var out []domain.Insight

	for i, hp := range ctx.snap.Habits {
		if hp.WeeklyPercent >= 60 {
			continue
		}

		rec := ctx.pairs[i].Record
		target := ctx.pairs[i].Habit.DailyTarget

		var missed []string
		for d := 0; d < ctx.scanLimit; d++ {
			if rec.Days[d].Hours < 0.5*target {
				missed = append(missed, domain.DayLabel(d))
			}
		}

		if len(missed) > 0 {
			out = append(out, domain.Insight{
				Tag:      domain.TagDiscipline,
				Title:    "Discipline Leak",
				Message:  fmt.Sprintf("%s slipped below half its daily target on %d day(s): %s.", hp.Name, len(missed), strings.Join(missed, ", ")),
				Priority: 4,
				HabitID:  hp.HabitID,
			})
		}
	}

	return out
}

// ruleUnderExecuted looks at days the user actually checked off but
// where the logged hours average well under target.
func ruleUnderExecuted(ctx *ruleContext) []domain.Insight {
	var out []domain.Insight

	for i, hp := range ctx.snap.Habits {
		rec := ctx.pairs[i].Record
		target := ctx.pairs[i].Habit.DailyTarget

		var sum float64
		count := 0
		for d := 0; d < ctx.scanLimit; d++ {
			if rec.Days[d].Completed {
				sum += rec.Days[d].Hours
				count++
			}
		}

		if count < 2 || target <= 0 {
			continue
		}

		mean := sum / float64(count)
		r := mean / target
		if r > 0 && r < 0.7 {
			out = append(out, domain.Insight{
				Tag:      domain.TagRisk,
				Title:    "Under-Executed Sessions",
				Message:  fmt.Sprintf("%s sessions average %s against a %s target. Checked boxes are not the same as full reps.", hp.Name, fmtHours(mean), fmtHours(target)),
				Priority: 3,
				HabitID:  hp.HabitID,
			})
		}
	}

	return out
}

// ruleRecoveryPlan computes what it would take to close the week at 80%.
func ruleRecoveryPlan(ctx *ruleContext) []domain.Insight {
	if !ctx.currentWeek {
		return nil
	}

	var out []domain.Insight
	daysRemaining := 6 - ctx.todayIndex
	if daysRemaining <= 0 {
		return nil
	}

	for _, hp := range ctx.snap.Habits {
		if hp.WeeklyPercent >= 80 {
			continue
		}

		target80 := hp.WeeklyTarget * 0.8
		remaining := math.Max(0, target80-hp.WeeklyActual)
		if remaining > 0 {
			perDay := remaining / float64(daysRemaining)
			out = append(out, domain.Insight{
				Tag:      domain.TagRecovery,
				Title:    "Recovery Plan",
				Message:  fmt.Sprintf("%s needs %s to reach 80%% this week: %s per day over the remaining %d day(s).", hp.Name, fmtHours(remaining), fmtHours(perDay), daysRemaining),
				Priority: 2,
				HabitID:  hp.HabitID,
			})
		}
	}

	return out
}

func ruleTargetHit(ctx *ruleContext) []domain.Insight {
	var out []domain.Insight

	for _, hp := range ctx.snap.Habits {
		if hp.WeeklyPercent >= 100 {
			out = append(out, domain.Insight{
				Tag:      domain.TagAlpha,
				Title:    "Target Hit",
				Message:  fmt.Sprintf("%s closed its full weekly target of %s.", hp.Name, fmtHours(hp.WeeklyTarget)),
				Priority: 1,
				HabitID:  hp.HabitID,
			})
		}
	}

	return out
}

// ruleTopBottom compares habits against each other. Sort is stable so
// equal percentages keep first-seen order.
func ruleTopBottom(ctx *ruleContext) []domain.Insight {
	if len(ctx.snap.Habits) < 2 {
		return nil
	}

	ranked := make([]HabitProgress, len(ctx.snap.Habits))
	copy(ranked, ctx.snap.Habits)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeeklyPercent > ranked[j].WeeklyPercent
	})

	best := ranked[0]
	worst := ranked[len(ranked)-1]
	if best.WeeklyPercent <= worst.WeeklyPercent {
		return nil
	}

	out := []domain.Insight{{
		Tag:      domain.TagAlpha,
		Title:    "Top Performer",
		Message:  fmt.Sprintf("%s leads the week at %d%%.", best.Name, best.WeeklyPercent),
		Priority: 1,
		HabitID:  best.HabitID,
	}}

	if worst.WeeklyPercent < 50 {
		out = append(out, domain.Insight{
			Tag:      domain.TagRisk,
			Title:    "Weakest Position",
			Message:  fmt.Sprintf("%s is trailing at %d%%.", worst.Name, worst.WeeklyPercent),
			Priority: 4,
			HabitID:  worst.HabitID,
		})
	}

	return out
}

// ruleWeakDay names the worst elapsed day, first occurrence on ties.
func ruleWeakDay(ctx *ruleContext) []domain.Insight {
	if ctx.scanLimit < 2 {
		return nil
	}

	minDay := 0
	for d := 1; d < ctx.scanLimit; d++ {
		if ctx.snap.Days[d].Percent < ctx.snap.Days[minDay].Percent {
			minDay = d
		}
	}

	if ctx.snap.Days[minDay].Target <= 0 || ctx.snap.Days[minDay].Percent >= 50 {
		return nil
	}

	return []domain.Insight{{
		Tag:      domain.TagDiscipline,
		Title:    "Weak Day",
		Message:  fmt.Sprintf("%s is your weakest day so far at %d%%.", domain.DayLabel(minDay), ctx.snap.Days[minDay].Percent),
		Priority: 3,
	}}
}

// ruleStreakBreak flags days where momentum collapsed: previous day at
// 70%+ followed by a day under 40%.
func ruleStreakBreak(ctx *ruleContext) []domain.Insight {
	var broken []string

	for d := 1; d < ctx.scanLimit; d++ {
		if ctx.snap.Days[d-1].Percent >= 70 && ctx.snap.Days[d].Percent < 40 {
			broken = append(broken, domain.DayLabel(d))
		}
	}

	if len(broken) == 0 {
		return nil
	}

	return []domain.Insight{{
		Tag:      domain.TagDiscipline,
		Title:    "Streak Break",
		Message:  fmt.Sprintf("Momentum dropped on %s after a strong previous day.", strings.Join(broken, ", ")),
		Priority: 4,
	}}
}

// ruleProjection extrapolates the elapsed-days completion rate. The
// 70-89 band deliberately emits nothing.
func ruleProjection(ctx *ruleContext) []domain.Insight {
	if ctx.scanLimit < 3 {
		return nil
	}

	var totalTarget, totalActual float64
	for d := 0; d < ctx.scanLimit; d++ {
		totalTarget += ctx.snap.Days[d].Target
		totalActual += ctx.snap.Days[d].Actual
	}
	if totalTarget <= 0 {
		return nil
	}

	avgPct := totalActual / totalTarget * 100
	projected := int(math.Round(avgPct))
	if projected > 100 {
		projected = 100
	}

	if projected < 70 {
		return []domain.Insight{{
			Tag:      domain.TagRisk,
			Title:    "Falling Behind Pace",
			Message:  fmt.Sprintf("At the current rate you project to %d%% of target. The month compounds what the week tolerates.", projected),
			Priority: 5,
		}}
	}
	if projected >= 90 {
		return []domain.Insight{{
			Tag:      domain.TagAlpha,
			Title:    "On Track",
			Message:  fmt.Sprintf("Projected completion of %d%% at the current pace.", projected),
			Priority: 1,
		}}
	}

	return nil
}

func rulePerfectDays(ctx *ruleContext) []domain.Insight {
	count := 0
	for d := 0; d < ctx.scanLimit; d++ {
		if ctx.snap.Days[d].Percent >= 100 {
			count++
		}
	}

	if count < 3 {
		return nil
	}

	return []domain.Insight{{
		Tag:      domain.TagAlpha,
		Title:    "Perfect Days",
		Message:  fmt.Sprintf("%d day(s) closed at 100%% or better this week.", count),
		Priority: 1,
	}}
}

// ruleToday reads only today's aggregate and only for the current week.
func ruleToday(ctx *ruleContext) []domain.Insight {
	if !ctx.currentWeek {
		return nil
	}

	today := ctx.snap.Days[ctx.todayIndex]

	switch {
	case today.Percent == 0 && today.Target > 0:
		return []domain.Insight{{
			Tag:      domain.TagDiscipline,
			Title:    "Not Started Today",
			Message:  fmt.Sprintf("Nothing logged yet against today's %s target.", fmtHours(today.Target)),
			Priority: 5,
		}}
	case today.Percent >= 50 && today.Percent < 100:
		remaining := today.Target - today.Actual
		return []domain.Insight{{
			Tag:      domain.TagRecovery,
			Title:    "Close Out Today",
			Message:  fmt.Sprintf("Today sits at %d%%: %s left to finish the day.", today.Percent, fmtHours(remaining)),
			Priority: 3,
		}}
	case today.Percent >= 100:
		return []domain.Insight{{
			Tag:      domain.TagAlpha,
			Title:    "Today Complete",
			Message:  fmt.Sprintf("Today's target is done at %d%%.", today.Percent),
			Priority: 1,
		}}
	}

	return nil
}

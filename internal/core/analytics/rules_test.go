package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasorrentino/weekwise/internal/core/analytics"
	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

var evalNow = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func evaluate(pairs []domain.HabitWeek, todayIndex int, current bool) []domain.Insight {
	snap := analytics.Aggregate(pairs, todayIndex, current)
	return analytics.Evaluate(pairs, &snap, evalNow)
}

func findByTitle(insights []domain.Insight, title string) *domain.Insight {
	for i := range insights {
		if insights[i].Title == title {
			return &insights[i]
		}
	}
	return nil
}

func TestEvaluate_EmptyWeek(t *testing.T) {
	insights := evaluate(nil, 3, true)
	assert.Empty(t, insights)
}

func TestEvaluate_PerfectWeek(t *testing.T) {
	pairs := []domain.HabitWeek{
		pair(t, "Reading", 1, [7]float64{1, 1, 1, 1, 1, 1, 1}, allDone()),
	}

	insights := evaluate(pairs, 6, true)

	assert.NotNil(t, findByTitle(insights, "Target Hit"))
	assert.NotNil(t, findByTitle(insights, "Perfect Days"))
	assert.NotNil(t, findByTitle(insights, "On Track"))
	assert.NotNil(t, findByTitle(insights, "Today Complete"))

	assert.Nil(t, findByTitle(insights, "Discipline Leak"))
	assert.Nil(t, findByTitle(insights, "Recovery Plan"))
	assert.Nil(t, findByTitle(insights, "Weak Day"))
	assert.Nil(t, findByTitle(insights, "Falling Behind Pace"))
}

func TestRule_DisciplineLeak(t *testing.T) {
	// 2h daily target, empty Mon-Fri, full on the weekend.
	pairs := []domain.HabitWeek{
		pair(t, "Gym", 2, [7]float64{0, 0, 0, 0, 0, 2, 2}, [7]bool{}),
	}

	insights := evaluate(pairs, 6, true)

	leak := findByTitle(insights, "Discipline Leak")
	require.NotNil(t, leak)
	assert.Equal(t, domain.TagDiscipline, leak.Tag)
	assert.Equal(t, 4, leak.Priority)
	assert.Equal(t, pairs[0].Habit.ID, leak.HabitID)
	assert.Contains(t, leak.Message, "5 day(s)")
	assert.Contains(t, leak.Message, "Mon, Tue, Wed, Thu, Fri")
}

func TestRule_DisciplineLeak_SkipsHealthyHabits(t *testing.T) {
	// 60% overall keeps the habit out of scope even with thin days.
	pairs := []domain.HabitWeek{
		pair(t, "Gym", 1, [7]float64{2.1, 2.1, 0, 0, 0, 0, 0}, [7]bool{}),
	}

	insights := evaluate(pairs, 6, false)
	assert.Nil(t, findByTitle(insights, "Discipline Leak"))
}

func TestRule_UnderExecuted(t *testing.T) {
	t.Run("Checked but shallow sessions", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Piano", 1, [7]float64{0.5, 0.5, 0, 0, 0, 0, 0}, [7]bool{true, true, false, false, false, false, false}),
		}

		insights := evaluate(pairs, 6, false)

		under := findByTitle(insights, "Under-Executed Sessions")
		require.NotNil(t, under)
		assert.Equal(t, domain.TagRisk, under.Tag)
		assert.Equal(t, 3, under.Priority)
		assert.Contains(t, under.Message, "0.5h")
	})

	t.Run("Needs at least two completed days", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Piano", 1, [7]float64{0.5, 0, 0, 0, 0, 0, 0}, [7]bool{true, false, false, false, false, false, false}),
		}

		insights := evaluate(pairs, 6, false)
		assert.Nil(t, findByTitle(insights, "Under-Executed Sessions"))
	})

	t.Run("Full sessions stay quiet", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Piano", 1, [7]float64{1, 1, 1, 1, 1, 1, 1}, allDone()),
		}

		insights := evaluate(pairs, 6, false)
		assert.Nil(t, findByTitle(insights, "Under-Executed Sessions"))
	})
}

func TestRule_RecoveryPlan(t *testing.T) {
	pairs := []domain.HabitWeek{
		pair(t, "Reading", 1, [7]float64{1, 1, 1, 0, 0, 0, 0}, [7]bool{}),
	}

	t.Run("Mid-week shortfall gets a plan", func(t *testing.T) {
		insights := evaluate(pairs, 3, true)

		plan := findByTitle(insights, "Recovery Plan")
		require.NotNil(t, plan)
		assert.Equal(t, domain.TagRecovery, plan.Tag)
		assert.Equal(t, 2, plan.Priority)
		// 80% of 7h is 5.6h, 3h done, 2.6h over the 3 remaining days.
		assert.Contains(t, plan.Message, "2.6h")
		assert.Contains(t, plan.Message, "3 day(s)")
	})

	t.Run("No plan on the last day", func(t *testing.T) {
		insights := evaluate(pairs, 6, true)
		assert.Nil(t, findByTitle(insights, "Recovery Plan"))
	})

	t.Run("No plan for past weeks", func(t *testing.T) {
		insights := evaluate(pairs, 3, false)
		assert.Nil(t, findByTitle(insights, "Recovery Plan"))
	})
}

func TestRule_TopBottom(t *testing.T) {
	t.Run("Spread week names both ends", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 1, 1, 1, 1, 1, 1}, allDone()),
			pair(t, "Gym", 1, [7]float64{2.1, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 6, false)

		top := findByTitle(insights, "Top Performer")
		require.NotNil(t, top)
		assert.Contains(t, top.Message, "Reading")
		assert.Contains(t, top.Message, "100%")

		worst := findByTitle(insights, "Weakest Position")
		require.NotNil(t, worst)
		assert.Equal(t, 4, worst.Priority)
		assert.Contains(t, worst.Message, "Gym")
		assert.Contains(t, worst.Message, "30%")
	})

	t.Run("Decent worst habit is not called out", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 1, 1, 1, 1, 1, 1}, allDone()),
			pair(t, "Gym", 1, [7]float64{1, 1, 1, 1, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 6, false)

		assert.NotNil(t, findByTitle(insights, "Top Performer"))
		assert.Nil(t, findByTitle(insights, "Weakest Position"))
	})

	t.Run("Single habit never ranks", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 1, 1, 1, 1, 1, 1}, allDone()),
		}

		insights := evaluate(pairs, 6, false)
		assert.Nil(t, findByTitle(insights, "Top Performer"))
	})

	t.Run("Tied habits never rank", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 0, 0, 0, 0, 0, 0}, [7]bool{}),
			pair(t, "Gym", 1, [7]float64{1, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 6, false)
		assert.Nil(t, findByTitle(insights, "Top Performer"))
		assert.Nil(t, findByTitle(insights, "Weakest Position"))
	})
}

func TestRule_WeakDay(t *testing.T) {
	t.Run("First occurrence wins on ties", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{0, 0, 1, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 2, true)

		weak := findByTitle(insights, "Weak Day")
		require.NotNil(t, weak)
		assert.Contains(t, weak.Message, "Mon")
	})

	t.Run("Needs at least two elapsed days", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{0, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 0, true)
		assert.Nil(t, findByTitle(insights, "Weak Day"))
	})
}

func TestRule_StreakBreak(t *testing.T) {
	pairs := []domain.HabitWeek{
		pair(t, "Reading", 1, [7]float64{1, 0, 1, 0.2, 0, 0, 0}, [7]bool{}),
	}

	insights := evaluate(pairs, 3, true)

	breakIns := findByTitle(insights, "Streak Break")
	require.NotNil(t, breakIns)
	assert.Equal(t, 4, breakIns.Priority)
	assert.Contains(t, breakIns.Message, "Tue, Thu")

	// Consolidated into a single insight regardless of break count.
	count := 0
	for _, ins := range insights {
		if ins.Title == "Streak Break" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRule_Projection(t *testing.T) {
	t.Run("Low projection raises risk", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{0.5, 0.5, 0.5, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 2, true)

		risk := findByTitle(insights, "Falling Behind Pace")
		require.NotNil(t, risk)
		assert.Equal(t, 5, risk.Priority)
		assert.Contains(t, risk.Message, "50%")
	})

	t.Run("Middle band stays silent", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{0.8, 0.8, 0.8, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 2, true)

		assert.Nil(t, findByTitle(insights, "Falling Behind Pace"))
		assert.Nil(t, findByTitle(insights, "On Track"))
	})

	t.Run("Needs three elapsed days", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{0, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 1, true)
		assert.Nil(t, findByTitle(insights, "Falling Behind Pace"))
	})
}

func TestRule_PerfectDays(t *testing.T) {
	t.Run("Three full days qualify", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 1, 1, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 2, true)

		perfect := findByTitle(insights, "Perfect Days")
		require.NotNil(t, perfect)
		assert.Contains(t, perfect.Message, "3 day(s)")
	})

	t.Run("Two full days do not", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 1, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 1, true)
		assert.Nil(t, findByTitle(insights, "Perfect Days"))
	})
}

func TestRule_Today(t *testing.T) {
	t.Run("Nothing logged yet", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{1, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 1, true)

		ins := findByTitle(insights, "Not Started Today")
		require.NotNil(t, ins)
		assert.Equal(t, 5, ins.Priority)
		assert.Contains(t, ins.Message, "1.0h")
	})

	t.Run("Halfway through asks to close out", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 2, [7]float64{1.5, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 0, true)

		ins := findByTitle(insights, "Close Out Today")
		require.NotNil(t, ins)
		assert.Equal(t, domain.TagRecovery, ins.Tag)
		assert.Contains(t, ins.Message, "75%")
		assert.Contains(t, ins.Message, "0.5h")
	})

	t.Run("Silent for past weeks", func(t *testing.T) {
		pairs := []domain.HabitWeek{
			pair(t, "Reading", 1, [7]float64{0, 0, 0, 0, 0, 0, 0}, [7]bool{}),
		}

		insights := evaluate(pairs, 1, false)
		assert.Nil(t, findByTitle(insights, "Not Started Today"))
	})
}

func TestEvaluate_OrderingAndIDs(t *testing.T) {
	// A busy mixed week emitting several priorities at once.
	pairs := []domain.HabitWeek{
		pair(t, "Reading", 1, [7]float64{1, 1, 1, 1, 1, 1, 1}, allDone()),
		pair(t, "Gym", 2, [7]float64{0, 0, 0, 0, 0, 2, 2}, [7]bool{}),
		pair(t, "Piano", 1, [7]float64{0.5, 0.5, 0, 0, 0, 0, 0}, [7]bool{true, true, false, false, false, false, false}),
	}

	insights := evaluate(pairs, 6, true)
	require.NotEmpty(t, insights)

	seen := make(map[int]bool)
	for i, ins := range insights {
		assert.Equal(t, evalNow, ins.GeneratedAt)

		// IDs are a permutation of 1..n.
		assert.False(t, seen[ins.ID])
		seen[ins.ID] = true
		assert.GreaterOrEqual(t, ins.ID, 1)
		assert.LessOrEqual(t, ins.ID, len(insights))

		if i == 0 {
			continue
		}
		prev := insights[i-1]
		assert.GreaterOrEqual(t, prev.Priority, ins.Priority)
		if prev.Priority == ins.Priority {
			// Stable sort keeps emission order on ties.
			assert.Less(t, prev.ID, ins.ID)
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	pairs := []domain.HabitWeek{
		pair(t, "Reading", 1, [7]float64{1, 0, 1, 0, 1, 0, 0}, [7]bool{}),
		pair(t, "Gym", 2, [7]float64{0.5, 0.5, 0, 0, 0, 0, 0}, allDone()),
	}

	first := evaluate(pairs, 4, true)
	second := evaluate(pairs, 4, true)

	assert.Equal(t, first, second)
}

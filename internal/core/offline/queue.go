// Package offline buffers tracking mutations while connectivity is
// unavailable and replays them once it returns. The queue only affects
// when the input lists reach storage, never how they are aggregated.
package offline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxAttempts is the hard retry cap: a mutation failing this many times
// is dropped permanently.
const MaxAttempts = 3

type OpType string

const (
	OpToggleDay   OpType = "toggle_day"
	OpSetHours    OpType = "set_hours"
	OpCreateHabit OpType = "create_habit"
	OpUpdateHabit OpType = "update_habit"
	OpDeleteHabit OpType = "delete_habit"
)

// Mutation is one buffered write. Fields are a union over the op types;
// unused fields stay zero.
type Mutation struct {
	ID          string    `json:"id"`
	Type        OpType    `json:"type"`
	UserID      string    `json:"user_id"`
	HabitID     string    `json:"habit_id,omitempty"`
	WeekID      string    `json:"week_id,omitempty"`
	Day         int       `json:"day,omitempty"`
	Hours       float64   `json:"hours,omitempty"`
	Name        string    `json:"name,omitempty"`
	Color       string    `json:"color,omitempty"`
	DailyTarget float64   `json:"daily_target,omitempty"`
	Attempts    int       `json:"attempts"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// Applier replays one mutation against the live services.
type Applier interface {
	Apply(ctx context.Context, m Mutation) error
}

// Queue is a FIFO mutation buffer with a bounded retry count. Safe for
// concurrent use.
type Queue struct {
	mu      sync.Mutex
	pending []Mutation
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(m Mutation) Mutation {
	q.mu.Lock()
	defer q.mu.Unlock()

	m.ID = uuid.NewString()
	m.EnqueuedAt = time.Now().UTC()
	q.pending = append(q.pending, m)
	return m
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush replays pending mutations in order. A failed mutation stays
// queued until it has failed MaxAttempts times, then it is dropped for
// good. Returns how many applied and how many were dropped.
func (q *Queue) Flush(ctx context.Context, applier Applier) (applied, dropped int) {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	var retry []Mutation

	for _, m := range batch {
		if err := applier.Apply(ctx, m); err != nil {
			m.Attempts++
			if m.Attempts >= MaxAttempts {
				log.Printf("Offline queue: dropping %s %s after %d attempts: %v", m.Type, m.ID, m.Attempts, err)
				dropped++
				continue
			}
			log.Printf("Offline queue: %s %s failed (attempt %d): %v", m.Type, m.ID, m.Attempts, err)
			retry = append(retry, m)
			continue
		}
		applied++
	}

	if len(retry) > 0 {
		q.mu.Lock()
		q.pending = append(retry, q.pending...)
		q.mu.Unlock()
	}

	return applied, dropped
}

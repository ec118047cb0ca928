package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucasorrentino/weekwise/internal/core/analytics"
	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

type HabitRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error)
}

type RecordRepository interface {
	ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]*domain.WeeklyRecord, error)
}

const snapshotTTL = 10 * time.Minute

type SnapshotJob struct {
	UserID string
	WeekID string
}

// SnapshotWorker recomputes a user's week snapshot in the background
// after every record mutation and warms the Redis cache the dashboard
// reads from. The queue is lossy: recomputation is cheap and the next
// mutation enqueues again.
type SnapshotWorker struct {
	habitRepo  HabitRepository
	recordRepo RecordRepository
	cache      *redis.Client
	now        func() time.Time
	jobs       chan SnapshotJob
}

func NewSnapshotWorker(habitRepo HabitRepository, recordRepo RecordRepository, cache *redis.Client, now func() time.Time) *SnapshotWorker {
	if now == nil {
		now = time.Now
	}
	return &SnapshotWorker{
		habitRepo:  habitRepo,
		recordRepo: recordRepo,
		cache:      cache,
		now:        now,
		jobs:       make(chan SnapshotJob, 100),
	}
}

func SnapshotKey(userID, weekID string) string {
	return fmt.Sprintf("snapshot:%s:%s", userID, weekID)
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Snapshot Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Snapshot Worker shutting down...")
				return
			}
		}
	}()
}

func (w *SnapshotWorker) Enqueue(userID, weekID string) {
	select {
	case w.jobs <- SnapshotJob{UserID: userID, WeekID: weekID}:
	default:
		log.Printf("Snapshot Worker queue full! Dropping job for user %s week %s", userID, weekID)
	}
}

func (w *SnapshotWorker) processJob(ctx context.Context, job SnapshotJob) {
	if w.cache == nil {
		return
	}

	habits, err := w.habitRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker Error fetching habits for %s: %v", job.UserID, err)
		return
	}

	records, err := w.recordRepo.ListByUserAndWeek(ctx, job.UserID, job.WeekID)
	if err != nil {
		log.Printf("Worker Error fetching records for %s %s: %v", job.UserID, job.WeekID, err)
		return
	}

	now := w.now().UTC()
	pairs := domain.PairForWeek(habits, records, job.WeekID)
	snap := analytics.Aggregate(pairs, domain.DayIndexOf(now), domain.WeekIDOf(now) == job.WeekID)

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("Worker Failed to marshal snapshot for %s %s: %v", job.UserID, job.WeekID, err)
		return
	}

	if err := w.cache.Set(ctx, SnapshotKey(job.UserID, job.WeekID), data, snapshotTTL).Err(); err != nil {
		log.Printf("Worker Failed to cache snapshot for %s %s: %v", job.UserID, job.WeekID, err)
	}
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

// In-memory repositories back tests and the offline data path. They
// mirror the postgres semantics (version bumps, not-found mapping) so
// callers cannot tell the difference.

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	habit.Version = existing.Version + 1
	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].UpdatedAt.Before(habits[j].UpdatedAt)
	})

	return habits, nil
}

type InMemoryRecordRepository struct {
	store map[string]*domain.WeeklyRecord // keyed habitID|weekID

	mu sync.RWMutex
}

func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{
		store: make(map[string]*domain.WeeklyRecord),
	}
}

func recordKey(habitID, weekID string) string {
	return habitID + "|" + weekID
}

func (r *InMemoryRecordRepository) GetByHabitAndWeek(ctx context.Context, habitID, weekID string) (*domain.WeeklyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.store[recordKey(habitID, weekID)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (r *InMemoryRecordRepository) ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]*domain.WeeklyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*domain.WeeklyRecord
	for _, rec := range r.store {
		if rec.UserID == userID && rec.WeekID == weekID {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].HabitID < records[j].HabitID
	})

	return records, nil
}

func (r *InMemoryRecordRepository) Upsert(ctx context.Context, rec *domain.WeeklyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(rec.HabitID, rec.WeekID)
	if existing, ok := r.store[key]; ok {
		if existing.Version != rec.Version {
			return domain.ErrRecordConflict
		}
		rec.Version = existing.Version + 1
	} else {
		rec.Version = 1
	}

	r.store[key] = rec
	return nil
}

func (r *InMemoryRecordRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.WeeklyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*domain.WeeklyRecord
	for _, rec := range r.store {
		if rec.UserID == userID && rec.UpdatedAt.After(since) {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.Before(records[j].UpdatedAt)
	})

	return records, nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	r.store[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

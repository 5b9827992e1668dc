package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

// In-memory repositories backing tests and local development. Each one
// guards its map with an RWMutex and hands out clones so callers never
// share mutable state with the store.

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

	if _, exists := r.store[habit.ID]; exists {
		return fmt.Errorf("habit %s already exists", habit.ID)
	}

	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit.Clone(), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h.Clone())
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

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryLedgerRepository struct {
	store map[string]*domain.ProgressLedger

	mu sync.RWMutex
}

func NewInMemoryLedgerRepository() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{
		store: make(map[string]*domain.ProgressLedger),
	}
}

func (r *InMemoryLedgerRepository) Get(ctx context.Context, userID string) (*domain.ProgressLedger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}
	return ledger.Clone(), nil
}

func (r *InMemoryLedgerRepository) Save(ctx context.Context, ledger *domain.ProgressLedger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.store[ledger.UserID]; ok && existing.Version > ledger.Version {
		return domain.ErrLedgerConflict
	}

	clone := ledger.Clone()
	clone.Version++
	r.store[ledger.UserID] = clone
	return nil
}

type InMemoryAchievementRepository struct {
	store map[string]*domain.Achievement // keyed userID + achievementID

	mu sync.RWMutex
}

func NewInMemoryAchievementRepository() *InMemoryAchievementRepository {
	return &InMemoryAchievementRepository{
		store: make(map[string]*domain.Achievement),
	}
}

func achievementKey(userID, achievementID string) string {
	return userID + "/" + achievementID
}

func (r *InMemoryAchievementRepository) Create(ctx context.Context, a *domain.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := achievementKey(a.UserID, a.AchievementID)
	if _, exists := r.store[key]; exists {
		return domain.ErrAchievementExists
	}

	clone := *a
	r.store[key] = &clone
	return nil
}

func (r *InMemoryAchievementRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var achievements []*domain.Achievement
	for _, a := range r.store {
		if a.UserID == userID {
			clone := *a
			achievements = append(achievements, &clone)
		}
	}

	sort.Slice(achievements, func(i, j int) bool {
		return achievements[i].UnlockedAt.Before(achievements[j].UnlockedAt)
	})

	return achievements, nil
}

type InMemoryRecordRepository struct {
	store map[string]*domain.ActivityRecord

	mu sync.RWMutex
}

func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{
		store: make(map[string]*domain.ActivityRecord),
	}
}

func cloneRecord(rec *domain.ActivityRecord) *domain.ActivityRecord {
	clone := *rec
	clone.Activities = append([]string(nil), rec.Activities...)
	return &clone
}

func (r *InMemoryRecordRepository) Create(ctx context.Context, record *domain.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[record.ID]; exists {
		return fmt.Errorf("record %s already exists", record.ID)
	}

	r.store[record.ID] = cloneRecord(record)
	return nil
}

func (r *InMemoryRecordRepository) GetByID(ctx context.Context, id string) (*domain.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.store[id]
	if !ok || record.DeletedAt != nil {
		return nil, domain.ErrRecordNotFound
	}
	return cloneRecord(record), nil
}

func (r *InMemoryRecordRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*domain.ActivityRecord
	for _, rec := range r.store {
		if rec.UserID == userID && rec.DeletedAt == nil {
			records = append(records, cloneRecord(rec))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedFor.After(records[j].RecordedFor)
	})

	return records, nil
}

func (r *InMemoryRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.store[id]
	if !ok || record.DeletedAt != nil || record.UserID != userID {
		return domain.ErrRecordNotFound
	}

	now := time.Now().UTC()
	record.DeletedAt = &now
	record.UpdatedAt = now
	return nil
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

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

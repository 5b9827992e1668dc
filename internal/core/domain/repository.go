package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound  = errors.New("habit not found")
	ErrHabitConflict  = errors.New("habit version conflict")
	ErrLedgerNotFound = errors.New("progress ledger not found")
	ErrRecordNotFound = errors.New("activity record not found")
	ErrLedgerConflict = errors.New("progress ledger version conflict")
	ErrUnauthorized   = errors.New("entity does not belong to this user")

	// ErrAchievementExists signals the (user, achievement) uniqueness
	// invariant fired. Callers resolve it by skipping, never by surfacing
	// an error.
	ErrAchievementExists = errors.New("achievement already unlocked")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit, including its
	// completion dates and cached streaks.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit from the system.
	Delete(ctx context.Context, id string) error
}

type LedgerRepository interface {
	// Get retrieves the progress ledger for a user, or ErrLedgerNotFound
	// if the user has never been active.
	Get(ctx context.Context, userID string) (*ProgressLedger, error)

	// Save upserts the ledger. Implementations must provide atomic
	// per-key read-modify-write; concurrent saves of a stale version
	// return ErrLedgerConflict.
	Save(ctx context.Context, ledger *ProgressLedger) error
}

type AchievementRepository interface {
	// Create inserts an unlocked achievement. The (user_id,
	// achievement_id) pair is unique; a duplicate insert returns
	// ErrAchievementExists.
	Create(ctx context.Context, achievement *Achievement) error

	// ListByUserID retrieves every achievement a user has unlocked.
	ListByUserID(ctx context.Context, userID string) ([]*Achievement, error)
}

type ActivityRecordRepository interface {
	// Create persists a new mood or wellness record.
	Create(ctx context.Context, record *ActivityRecord) error

	// GetByID retrieves a single active (non-deleted) record.
	GetByID(ctx context.Context, id string) (*ActivityRecord, error)

	// ListByUserID retrieves a user's active records, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*ActivityRecord, error)

	// Delete performs a soft delete. It requires userID so ownership is
	// checked at the storage boundary as well.
	Delete(ctx context.Context, id string, userID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

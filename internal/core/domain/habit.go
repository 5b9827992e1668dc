package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidWeekdays    = errors.New("invalid weekdays (must be 0-6)")
	ErrInvalidHabitPoints = errors.New("habit points cannot be negative")
	ErrHabitNotActive     = errors.New("habit is not active")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
	ErrAlreadyCompleted   = errors.New("habit already completed for this day")
)

const (
	HabitStatusActive   = "active"
	HabitStatusPaused   = "paused"
	HabitStatusArchived = "archived"

	MaxHabitNameLen = 100
	MaxHabitDescLen = 500

	DefaultCompletionPoints = 10
	DefaultStreakBonus      = 5

	// A habit completion earns its streak bonus once the habit's current
	// streak reaches this many consecutive days.
	StreakBonusThreshold = 3
)

// Habit is a user-owned recurring practice. CompletedDates holds one entry
// per calendar day; CurrentStreak and LongestStreak are caches recomputed
// from it on every completion.
type Habit struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Category    string `json:"category" db:"category"`

	// Weekdays the habit applies to (0 = Sunday). Empty means every day.
	Weekdays []int `json:"weekdays,omitempty"`

	CompletedDates []time.Time `json:"completed_dates"`
	CurrentStreak  int         `json:"current_streak" db:"current_streak"`
	LongestStreak  int         `json:"longest_streak" db:"longest_streak"`

	PointsPerCompletion int `json:"points_per_completion" db:"points_per_completion"`
	StreakBonus         int `json:"streak_bonus" db:"streak_bonus"`

	Status    string    `json:"status" db:"status"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}

func validateHabit(name, desc string, weekdays []int, points, bonus int) error {
	if strings.TrimSpace(name) == "" {
		return ErrHabitNameEmpty
	}
	if len(strings.TrimSpace(name)) > MaxHabitNameLen {
		return ErrHabitNameTooLong
	}
	if len(strings.TrimSpace(desc)) > MaxHabitDescLen {
		return ErrHabitDescTooLong
	}
	for _, day := range weekdays {
		if day < 0 || day > 6 {
			return ErrInvalidWeekdays
		}
	}
	if points < 0 || bonus < 0 {
		return ErrInvalidHabitPoints
	}
	return nil
}

func NewHabit(userID, name, description, category string, weekdays []int, points, bonus int) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if err := validateHabit(name, description, weekdays, points, bonus); err != nil {
		return nil, err
	}

	if points == 0 {
		points = DefaultCompletionPoints
	}
	if bonus == 0 {
		bonus = DefaultStreakBonus
	}

	now := time.Now().UTC()

	return &Habit{
		ID:                  uuid.New().String(),
		UserID:              userID,
		Name:                strings.TrimSpace(name),
		Description:         strings.TrimSpace(description),
		Category:            category,
		Weekdays:            normalizeWeekdays(weekdays),
		PointsPerCompletion: points,
		StreakBonus:         bonus,
		Status:              HabitStatusActive,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func (h *Habit) Update(name, description, category string, weekdays []int, points, bonus int) error {
	if h.Status == HabitStatusArchived {
		return ErrHabitArchived
	}

	if err := validateHabit(name, description, weekdays, points, bonus); err != nil {
		return err
	}

	h.Name = strings.TrimSpace(name)
	h.Description = strings.TrimSpace(description)
	h.Category = category
	h.Weekdays = normalizeWeekdays(weekdays)
	if points > 0 {
		h.PointsPerCompletion = points
	}
	if bonus > 0 {
		h.StreakBonus = bonus
	}
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// Complete records a completion for the given day, recomputes both streak
// caches from the full completion history and returns the points this
// completion earns (base points plus the streak bonus once the streak
// reaches the bonus threshold). Duplicate same-day completions are
// rejected and never inflate the streak.
func (h *Habit) Complete(day, now time.Time) (int, error) {
	if h.Status != HabitStatusActive {
		return 0, ErrHabitNotActive
	}

	key := DayKey(day)
	for _, d := range h.CompletedDates {
		if DayKey(d).Equal(key) {
			return 0, ErrAlreadyCompleted
		}
	}

	h.CompletedDates = append(h.CompletedDates, key)
	h.RecountStreaks(now)
	h.UpdatedAt = now.UTC()

	return h.CompletionPoints(), nil
}

// CompletionPoints returns the points the latest completion earns given
// the current streak cache.
func (h *Habit) CompletionPoints() int {
	points := h.PointsPerCompletion
	if h.CurrentStreak >= StreakBonusThreshold {
		points += h.StreakBonus
	}
	return points
}

// RemoveCompletion drops the completion recorded for the given day, if
// any. Streak caches are not touched here; the caller is expected to
// schedule a recount.
func (h *Habit) RemoveCompletion(day time.Time) bool {
	key := DayKey(day)
	for i, d := range h.CompletedDates {
		if DayKey(d).Equal(key) {
			h.CompletedDates = append(h.CompletedDates[:i], h.CompletedDates[i+1:]...)
			h.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// RecountStreaks refreshes the cached streak values from CompletedDates.
func (h *Habit) RecountStreaks(now time.Time) {
	state := StreaksAt(h.CompletedDates, now)
	h.CurrentStreak = state.CurrentStreak
	h.LongestStreak = state.LongestStreak
}

func (h *Habit) Pause() error {
	if h.Status == HabitStatusArchived {
		return ErrHabitArchived
	}
	h.Status = HabitStatusPaused
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) Resume() error {
	if h.Status == HabitStatusArchived {
		return ErrHabitArchived
	}
	h.Status = HabitStatusActive
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) Archive() {
	if h.Status == HabitStatusArchived {
		return
	}
	h.Status = HabitStatusArchived
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Restore() {
	if h.Status != HabitStatusArchived {
		return
	}
	h.Status = HabitStatusActive
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Clone() *Habit {
	clone := *h
	clone.Weekdays = append([]int(nil), h.Weekdays...)
	clone.CompletedDates = append([]time.Time(nil), h.CompletedDates...)
	return &clone
}

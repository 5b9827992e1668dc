package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPoints      = errors.New("points must be positive")
	ErrInvalidAwardReason = errors.New("unrecognized award reason")
)

type AwardReason string

const (
	ReasonMoodEntry         AwardReason = "mood_entry"
	ReasonChallengeComplete AwardReason = "challenge_complete"
	ReasonHabitComplete     AwardReason = "habit_complete"
	ReasonGoalProgress      AwardReason = "goal_progress"
	ReasonGoalComplete      AwardReason = "goal_complete"
	ReasonResourceComplete  AwardReason = "resource_complete"
	ReasonAchievement       AwardReason = "achievement"
	ReasonWellnessCheckIn   AwardReason = "wellness_check_in"
	ReasonTodoCompletion    AwardReason = "todo_completion"
	ReasonStreak            AwardReason = "streak"
)

var validAwardReasons = map[AwardReason]bool{
	ReasonMoodEntry:         true,
	ReasonChallengeComplete: true,
	ReasonHabitComplete:     true,
	ReasonGoalProgress:      true,
	ReasonGoalComplete:      true,
	ReasonResourceComplete:  true,
	ReasonAchievement:       true,
	ReasonWellnessCheckIn:   true,
	ReasonTodoCompletion:    true,
	ReasonStreak:            true,
}

const (
	// The points history is a bounded ring of recent activity, not a full
	// audit log.
	MaxHistoryEntries = 100

	// The weekly aggregation keeps a rolling window of the most recent
	// ISO weeks; older buckets are evicted.
	MaxWeeklyBuckets = 12
)

type PointsEntry struct {
	Points      int         `json:"points"`
	Reason      AwardReason `json:"reason"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
}

type WeeklyBucket struct {
	Week       string `json:"week"`
	Points     int    `json:"points"`
	Activities int    `json:"activities"`
}

// ProgressLedger is the per-user aggregate the gamification engine works
// on: cumulative points, the level derived from them, per-category
// counters, the engagement streak and a bounded history of awards.
// Created lazily on a user's first activity.
type ProgressLedger struct {
	UserID string `json:"user_id" db:"user_id"`

	Points int `json:"points" db:"points"`
	Level  int `json:"level" db:"level"`

	MoodEntryCount           int `json:"mood_entry_count" db:"mood_entry_count"`
	HabitCompletionCount     int `json:"habit_completion_count" db:"habit_completion_count"`
	GoalCompletionCount      int `json:"goal_completion_count" db:"goal_completion_count"`
	ChallengeCompletionCount int `json:"challenge_completion_count" db:"challenge_completion_count"`
	ResourceViewCount        int `json:"resource_view_count" db:"resource_view_count"`

	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	LastActive    time.Time `json:"last_active" db:"last_active"`

	PointsHistory  []PointsEntry  `json:"points_history"`
	WeeklyProgress []WeeklyBucket `json:"weekly_progress"`
	DistinctMoods  []string       `json:"distinct_moods"`

	// Unlocked is the authoritative set of earned catalog entries; it
	// lives in the ledger so unlock state and the points it carries
	// commit together. HabitCredits remembers the last day each habit
	// completion was credited here, which lets a retry tell a completion
	// that was persisted but never credited apart from a genuine
	// same-day duplicate.
	Unlocked     map[string]bool   `json:"unlocked,omitempty"`
	HabitCredits map[string]string `json:"habit_credits,omitempty"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewProgressLedger(userID string) (*ProgressLedger, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	now := time.Now().UTC()
	return &ProgressLedger{
		UserID:    userID,
		Level:     1,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type AwardOutcome struct {
	OldLevel  int  `json:"old_level"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

// Award adds a point-earning event to the ledger: cumulative total,
// bounded history, level, the counter mapped to the reason (if any), the
// current week's rolling bucket and last-active all move together.
func (l *ProgressLedger) Award(points int, reason AwardReason, description string, now time.Time) (AwardOutcome, error) {
	if points <= 0 {
		return AwardOutcome{}, ErrInvalidPoints
	}
	if !validAwardReasons[reason] {
		return AwardOutcome{}, fmt.Errorf("%w: %q", ErrInvalidAwardReason, reason)
	}

	now = now.UTC()
	oldLevel := l.Level

	l.Points += points
	l.Level = LevelForPoints(l.Points)

	l.PointsHistory = append(l.PointsHistory, PointsEntry{
		Points:      points,
		Reason:      reason,
		Description: description,
		Timestamp:   now,
	})
	if len(l.PointsHistory) > MaxHistoryEntries {
		l.PointsHistory = l.PointsHistory[len(l.PointsHistory)-MaxHistoryEntries:]
	}

	l.applyCounter(reason)
	l.touchWeek(now, points)

	l.LastActive = now
	l.UpdatedAt = now

	return AwardOutcome{
		OldLevel:  oldLevel,
		NewLevel:  l.Level,
		LeveledUp: l.Level > oldLevel,
	}, nil
}

func (l *ProgressLedger) applyCounter(reason AwardReason) {
	switch reason {
	case ReasonMoodEntry, ReasonWellnessCheckIn:
		l.MoodEntryCount++
	case ReasonHabitComplete:
		l.HabitCompletionCount++
	case ReasonGoalComplete:
		l.GoalCompletionCount++
	case ReasonChallengeComplete:
		l.ChallengeCompletionCount++
	case ReasonResourceComplete:
		l.ResourceViewCount++
	}
}

// WeekKey renders the ISO year-week bucket key, e.g. "2026-W35".
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (l *ProgressLedger) touchWeek(now time.Time, points int) {
	key := WeekKey(now)

	for i := range l.WeeklyProgress {
		if l.WeeklyProgress[i].Week == key {
			l.WeeklyProgress[i].Points += points
			l.WeeklyProgress[i].Activities++
			return
		}
	}

	l.WeeklyProgress = append(l.WeeklyProgress, WeeklyBucket{
		Week:       key,
		Points:     points,
		Activities: 1,
	})
	if len(l.WeeklyProgress) > MaxWeeklyBuckets {
		l.WeeklyProgress = l.WeeklyProgress[len(l.WeeklyProgress)-MaxWeeklyBuckets:]
	}
}

// TouchActivityDay advances the engagement streak for a qualifying
// activity. It must run before Award moves LastActive: yesterday extends
// the streak, today is a no-op, any older gap resets to 1. At most one
// transition happens per calendar day no matter how many activities occur.
func (l *ProgressLedger) TouchActivityDay(now time.Time) {
	today := DayKey(now)

	switch {
	case l.LastActive.IsZero():
		l.CurrentStreak = 1
	case DayKey(l.LastActive).Equal(today):
		// Already counted today.
	case DayKey(l.LastActive).Equal(today.AddDate(0, 0, -1)):
		l.CurrentStreak++
	default:
		l.CurrentStreak = 1
	}

	if l.CurrentStreak > l.LongestStreak {
		l.LongestStreak = l.CurrentStreak
	}
}

// RecordMood registers a mood label in the distinct-mood set feeding the
// variety achievements.
func (l *ProgressLedger) RecordMood(label string) {
	for _, m := range l.DistinctMoods {
		if m == label {
			return
		}
	}
	l.DistinctMoods = append(l.DistinctMoods, label)
}

// Unlock marks a catalog entry as earned.
func (l *ProgressLedger) Unlock(achievementID string) {
	if l.Unlocked == nil {
		l.Unlocked = make(map[string]bool)
	}
	l.Unlocked[achievementID] = true
}

func (l *ProgressLedger) HasUnlocked(achievementID string) bool {
	return l.Unlocked[achievementID]
}

// CreditHabit records that a completion of the habit was credited to
// this ledger on the given calendar day.
func (l *ProgressLedger) CreditHabit(habitID string, day time.Time) {
	if l.HabitCredits == nil {
		l.HabitCredits = make(map[string]string)
	}
	l.HabitCredits[habitID] = DayKey(day).Format("2006-01-02")
}

func (l *ProgressLedger) HabitCreditedOn(habitID string, day time.Time) bool {
	return l.HabitCredits[habitID] == DayKey(day).Format("2006-01-02")
}

// Stats snapshots the aggregates the achievement rule engine evaluates
// against. HabitStreak is filled in by the caller when the triggering
// event was a habit completion.
func (l *ProgressLedger) Stats() AchievementStats {
	return AchievementStats{
		MoodEntries:          l.MoodEntryCount,
		HabitCompletions:     l.HabitCompletionCount,
		GoalCompletions:      l.GoalCompletionCount,
		ChallengeCompletions: l.ChallengeCompletionCount,
		ResourceViews:        l.ResourceViewCount,
		CurrentStreak:        l.CurrentStreak,
		DistinctMoods:        len(l.DistinctMoods),
	}
}

func (l *ProgressLedger) Clone() *ProgressLedger {
	clone := *l
	clone.PointsHistory = append([]PointsEntry(nil), l.PointsHistory...)
	clone.WeeklyProgress = append([]WeeklyBucket(nil), l.WeeklyProgress...)
	clone.DistinctMoods = append([]string(nil), l.DistinctMoods...)
	if l.Unlocked != nil {
		clone.Unlocked = make(map[string]bool, len(l.Unlocked))
		for id, v := range l.Unlocked {
			clone.Unlocked[id] = v
		}
	}
	if l.HabitCredits != nil {
		clone.HabitCredits = make(map[string]string, len(l.HabitCredits))
		for id, day := range l.HabitCredits {
			clone.HabitCredits[id] = day
		}
	}
	return &clone
}

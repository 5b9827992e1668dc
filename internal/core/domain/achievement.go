package domain

import (
	"time"

	"github.com/google/uuid"
)

// CatalogVersion identifies the milestone catalog shipped with this build.
// Bump it when entries are added so stored achievements can be traced back
// to the catalog that produced them.
const CatalogVersion = 1

type PredicateKind string

const (
	PredicateCount   PredicateKind = "count"
	PredicateStreak  PredicateKind = "streak"
	PredicateVariety PredicateKind = "variety"
)

type StatKey string

const (
	StatMoodEntries          StatKey = "mood_entries"
	StatHabitCompletions     StatKey = "habit_completions"
	StatGoalCompletions      StatKey = "goal_completions"
	StatChallengeCompletions StatKey = "challenge_completions"
	StatResourceViews        StatKey = "resource_views"
)

// AchievementStats is the aggregate snapshot milestone predicates are
// evaluated against.
type AchievementStats struct {
	MoodEntries          int
	HabitCompletions     int
	GoalCompletions      int
	ChallengeCompletions int
	ResourceViews        int
	CurrentStreak        int
	HabitStreak          int
	DistinctMoods        int
}

func (s AchievementStats) count(key StatKey) int {
	switch key {
	case StatMoodEntries:
		return s.MoodEntries
	case StatHabitCompletions:
		return s.HabitCompletions
	case StatGoalCompletions:
		return s.GoalCompletions
	case StatChallengeCompletions:
		return s.ChallengeCompletions
	case StatResourceViews:
		return s.ResourceViews
	}
	return 0
}

// CatalogEntry is one milestone definition: a tagged predicate over the
// aggregated stats plus the reward it carries.
type CatalogEntry struct {
	ID          string
	Name        string
	Description string
	Category    string
	Points      int
	Kind        PredicateKind
	Stat        StatKey
	Threshold   int
}

// Satisfied uses exact-or-greater comparison against the current stat
// value, never edge-triggered equality, so re-evaluating from scratch is
// safe.
func (e CatalogEntry) Satisfied(s AchievementStats) bool {
	switch e.Kind {
	case PredicateCount:
		return s.count(e.Stat) >= e.Threshold
	case PredicateStreak:
		streak := s.CurrentStreak
		if s.HabitStreak > streak {
			streak = s.HabitStreak
		}
		return streak >= e.Threshold
	case PredicateVariety:
		return s.DistinctMoods >= e.Threshold
	}
	return false
}

// Catalog is the single source of truth for milestones. Entries are
// grouped by category; thresholds within a group ascend.
var Catalog = []CatalogEntry{
	{ID: "mood_first", Name: "First Reflection", Description: "Log your first mood", Category: "mood", Points: 10, Kind: PredicateCount, Stat: StatMoodEntries, Threshold: 1},
	{ID: "mood_5", Name: "Checking In", Description: "Log 5 mood entries", Category: "mood", Points: 20, Kind: PredicateCount, Stat: StatMoodEntries, Threshold: 5},
	{ID: "mood_20", Name: "Self Aware", Description: "Log 20 mood entries", Category: "mood", Points: 40, Kind: PredicateCount, Stat: StatMoodEntries, Threshold: 20},
	{ID: "mood_50", Name: "Emotional Cartographer", Description: "Log 50 mood entries", Category: "mood", Points: 75, Kind: PredicateCount, Stat: StatMoodEntries, Threshold: 50},
	{ID: "mood_100", Name: "Inner Compass", Description: "Log 100 mood entries", Category: "mood", Points: 150, Kind: PredicateCount, Stat: StatMoodEntries, Threshold: 100},

	{ID: "habit_first", Name: "First Step", Description: "Complete your first habit", Category: "habit", Points: 10, Kind: PredicateCount, Stat: StatHabitCompletions, Threshold: 1},
	{ID: "habit_10", Name: "Building Momentum", Description: "Complete 10 habits", Category: "habit", Points: 25, Kind: PredicateCount, Stat: StatHabitCompletions, Threshold: 10},
	{ID: "habit_50", Name: "Creature of Habit", Description: "Complete 50 habits", Category: "habit", Points: 75, Kind: PredicateCount, Stat: StatHabitCompletions, Threshold: 50},
	{ID: "habit_100", Name: "Routine Master", Description: "Complete 100 habits", Category: "habit", Points: 150, Kind: PredicateCount, Stat: StatHabitCompletions, Threshold: 100},
	{ID: "habit_250", Name: "Unstoppable", Description: "Complete 250 habits", Category: "habit", Points: 300, Kind: PredicateCount, Stat: StatHabitCompletions, Threshold: 250},

	{ID: "goal_first", Name: "Goal Getter", Description: "Complete your first goal", Category: "goal", Points: 20, Kind: PredicateCount, Stat: StatGoalCompletions, Threshold: 1},
	{ID: "goal_5", Name: "Achiever", Description: "Complete 5 goals", Category: "goal", Points: 50, Kind: PredicateCount, Stat: StatGoalCompletions, Threshold: 5},
	{ID: "goal_20", Name: "Summit Seeker", Description: "Complete 20 goals", Category: "goal", Points: 100, Kind: PredicateCount, Stat: StatGoalCompletions, Threshold: 20},

	{ID: "challenge_first", Name: "Challenger", Description: "Complete your first challenge", Category: "challenge", Points: 25, Kind: PredicateCount, Stat: StatChallengeCompletions, Threshold: 1},
	{ID: "challenge_5", Name: "Contender", Description: "Complete 5 challenges", Category: "challenge", Points: 75, Kind: PredicateCount, Stat: StatChallengeCompletions, Threshold: 5},
	{ID: "challenge_15", Name: "Champion", Description: "Complete 15 challenges", Category: "challenge", Points: 150, Kind: PredicateCount, Stat: StatChallengeCompletions, Threshold: 15},

	{ID: "resource_first", Name: "Curious Mind", Description: "Finish your first resource", Category: "resource", Points: 10, Kind: PredicateCount, Stat: StatResourceViews, Threshold: 1},
	{ID: "resource_10", Name: "Student of Wellness", Description: "Finish 10 resources", Category: "resource", Points: 30, Kind: PredicateCount, Stat: StatResourceViews, Threshold: 10},
	{ID: "resource_25", Name: "Well Read", Description: "Finish 25 resources", Category: "resource", Points: 60, Kind: PredicateCount, Stat: StatResourceViews, Threshold: 25},

	{ID: "streak_3", Name: "Three in a Row", Description: "Reach a 3-day streak", Category: "streak", Points: 15, Kind: PredicateStreak, Threshold: 3},
	{ID: "streak_7", Name: "One Full Week", Description: "Reach a 7-day streak", Category: "streak", Points: 35, Kind: PredicateStreak, Threshold: 7},
	{ID: "streak_14", Name: "Fortnight Strong", Description: "Reach a 14-day streak", Category: "streak", Points: 70, Kind: PredicateStreak, Threshold: 14},
	{ID: "streak_30", Name: "Monthly Devotion", Description: "Reach a 30-day streak", Category: "streak", Points: 150, Kind: PredicateStreak, Threshold: 30},
	{ID: "streak_60", Name: "Iron Will", Description: "Reach a 60-day streak", Category: "streak", Points: 300, Kind: PredicateStreak, Threshold: 60},
	{ID: "streak_100", Name: "Centurion", Description: "Reach a 100-day streak", Category: "streak", Points: 500, Kind: PredicateStreak, Threshold: 100},

	{ID: "variety_3", Name: "Full Spectrum", Description: "Log 3 different moods", Category: "variety", Points: 20, Kind: PredicateVariety, Threshold: 3},
	{ID: "variety_5", Name: "Emotional Range", Description: "Log 5 different moods", Category: "variety", Points: 40, Kind: PredicateVariety, Threshold: 5},
	{ID: "variety_8", Name: "Whole Palette", Description: "Log 8 different moods", Category: "variety", Points: 80, Kind: PredicateVariety, Threshold: 8},
}

// EvaluateCatalog returns every catalog entry newly satisfied by stats —
// all of them in the same pass, so a single event can unlock several
// milestones at once. Entries already in unlocked are skipped, which makes
// repeated evaluation with unchanged stats yield nothing.
func EvaluateCatalog(stats AchievementStats, unlocked map[string]bool) []CatalogEntry {
	var newly []CatalogEntry
	for _, entry := range Catalog {
		if unlocked[entry.ID] {
			continue
		}
		if entry.Satisfied(stats) {
			newly = append(newly, entry)
		}
	}
	return newly
}

// Achievement is an unlocked milestone, immutable once created. At most
// one exists per (user, catalog entry) pair; the repository enforces the
// uniqueness.
type Achievement struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Category      string    `json:"category" db:"category"`
	PointsAwarded int       `json:"points_awarded" db:"points_awarded"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

func NewAchievement(userID string, entry CatalogEntry, now time.Time) *Achievement {
	return &Achievement{
		ID:            uuid.New().String(),
		UserID:        userID,
		AchievementID: entry.ID,
		Name:          entry.Name,
		Description:   entry.Description,
		Category:      entry.Category,
		PointsAwarded: entry.Points,
		UnlockedAt:    now.UTC(),
	}
}

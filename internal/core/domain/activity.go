package domain

import "errors"

var (
	ErrMissingUserID      = errors.New("user id is required")
	ErrInvalidActivity    = errors.New("invalid activity kind")
	ErrMissingHabitID     = errors.New("habit id is required for habit completions")
	ErrInvalidMoodLabel   = errors.New("invalid mood label")
	ErrMissingMoodLabel   = errors.New("mood label is required for mood entries")
)

type ActivityKind string

const (
	ActivityMoodEntry           ActivityKind = "mood_entry"
	ActivityHabitCompletion     ActivityKind = "habit_completion"
	ActivityChallengeCompletion ActivityKind = "challenge_completion"
	ActivityWellnessCheckIn     ActivityKind = "wellness_check_in"
	ActivityResourceCompletion  ActivityKind = "resource_completion"
	ActivityGoalProgress        ActivityKind = "goal_progress"
	ActivityGoalCompletion      ActivityKind = "goal_completion"
	ActivityTodoCompletion      ActivityKind = "todo_completion"
)

// Base point values per activity kind. Habit completions ignore this and
// use the habit's own configured points instead.
var activityBasePoints = map[ActivityKind]int{
	ActivityMoodEntry:           5,
	ActivityHabitCompletion:     10,
	ActivityChallengeCompletion: 25,
	ActivityWellnessCheckIn:     5,
	ActivityResourceCompletion:  10,
	ActivityGoalProgress:        5,
	ActivityGoalCompletion:      20,
	ActivityTodoCompletion:      5,
}

var activityReasons = map[ActivityKind]AwardReason{
	ActivityMoodEntry:           ReasonMoodEntry,
	ActivityHabitCompletion:     ReasonHabitComplete,
	ActivityChallengeCompletion: ReasonChallengeComplete,
	ActivityWellnessCheckIn:     ReasonWellnessCheckIn,
	ActivityResourceCompletion:  ReasonResourceComplete,
	ActivityGoalProgress:        ReasonGoalProgress,
	ActivityGoalCompletion:      ReasonGoalComplete,
	ActivityTodoCompletion:      ReasonTodoCompletion,
}

func (k ActivityKind) Valid() bool {
	_, ok := activityBasePoints[k]
	return ok
}

func (k ActivityKind) BasePoints() int {
	return activityBasePoints[k]
}

func (k ActivityKind) AwardReason() AwardReason {
	return activityReasons[k]
}

// ActivityResult is the consolidated outcome of processing one activity
// event: what was earned, where the user now stands, and anything newly
// unlocked.
type ActivityResult struct {
	PointsAwarded   int            `json:"points_awarded"`
	TotalPoints     int            `json:"total_points"`
	Level           int            `json:"level"`
	LeveledUp       bool           `json:"leveled_up"`
	CurrentStreak   int            `json:"current_streak"`
	LongestStreak   int            `json:"longest_streak"`
	NewAchievements []*Achievement `json:"new_achievements"`
}

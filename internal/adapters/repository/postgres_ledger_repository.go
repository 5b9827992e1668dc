package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresLedgerRepository struct {
	db *sqlx.DB
}

func NewPostgresLedgerRepository(db *sqlx.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

func (r *PostgresLedgerRepository) Get(ctx context.Context, userID string) (*domain.ProgressLedger, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        SELECT user_id, points, level,
               mood_entry_count, habit_completion_count, goal_completion_count,
               challenge_completion_count, resource_view_count,
               current_streak, longest_streak, last_active,
               points_history, weekly_progress, distinct_moods,
               unlocked, habit_credits,
               version, created_at, updated_at
        FROM progress_ledgers
        WHERE user_id = $1`

	row := r.db.QueryRowContext(ctx, query, userID)

	var l domain.ProgressLedger
	var historyJSON, weeklyJSON, moodsJSON, unlockedJSON, creditsJSON []byte
	var lastActive sql.NullTime

	err := row.Scan(
		&l.UserID, &l.Points, &l.Level,
		&l.MoodEntryCount, &l.HabitCompletionCount, &l.GoalCompletionCount,
		&l.ChallengeCompletionCount, &l.ResourceViewCount,
		&l.CurrentStreak, &l.LongestStreak, &lastActive,
		&historyJSON, &weeklyJSON, &moodsJSON,
		&unlockedJSON, &creditsJSON,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("ledger scan error: %w", err)
	}

	if lastActive.Valid {
		l.LastActive = lastActive.Time
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &l.PointsHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal points history: %w", err)
		}
	}
	if len(weeklyJSON) > 0 {
		if err := json.Unmarshal(weeklyJSON, &l.WeeklyProgress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weekly progress: %w", err)
		}
	}
	if len(moodsJSON) > 0 {
		if err := json.Unmarshal(moodsJSON, &l.DistinctMoods); err != nil {
			return nil, fmt.Errorf("failed to unmarshal distinct moods: %w", err)
		}
	}
	if len(unlockedJSON) > 0 {
		if err := json.Unmarshal(unlockedJSON, &l.Unlocked); err != nil {
			return nil, fmt.Errorf("failed to unmarshal unlocked set: %w", err)
		}
	}
	if len(creditsJSON) > 0 {
		if err := json.Unmarshal(creditsJSON, &l.HabitCredits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal habit credits: %w", err)
		}
	}

	return &l, nil
}

// Save upserts the ledger with a version guard: a concurrent writer that
// committed first makes this save fail with ErrLedgerConflict instead of
// silently losing its update.
func (r *PostgresLedgerRepository) Save(ctx context.Context, l *domain.ProgressLedger) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	historyJSON, err := json.Marshal(l.PointsHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal points history: %w", err)
	}
	weeklyJSON, err := json.Marshal(l.WeeklyProgress)
	if err != nil {
		return fmt.Errorf("failed to marshal weekly progress: %w", err)
	}
	moodsJSON, err := json.Marshal(l.DistinctMoods)
	if err != nil {
		return fmt.Errorf("failed to marshal distinct moods: %w", err)
	}
	unlockedJSON, err := json.Marshal(l.Unlocked)
	if err != nil {
		return fmt.Errorf("failed to marshal unlocked set: %w", err)
	}
	creditsJSON, err := json.Marshal(l.HabitCredits)
	if err != nil {
		return fmt.Errorf("failed to marshal habit credits: %w", err)
	}

	var lastActive interface{}
	if !l.LastActive.IsZero() {
		lastActive = l.LastActive
	}

	query := `
        INSERT INTO progress_ledgers (
            user_id, points, level,
            mood_entry_count, habit_completion_count, goal_completion_count,
            challenge_completion_count, resource_view_count,
            current_streak, longest_streak, last_active,
            points_history, weekly_progress, distinct_moods,
            unlocked, habit_credits,
            version, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
        )
        ON CONFLICT (user_id) DO UPDATE SET
            points = EXCLUDED.points,
            level = EXCLUDED.level,
            mood_entry_count = EXCLUDED.mood_entry_count,
            habit_completion_count = EXCLUDED.habit_completion_count,
            goal_completion_count = EXCLUDED.goal_completion_count,
            challenge_completion_count = EXCLUDED.challenge_completion_count,
            resource_view_count = EXCLUDED.resource_view_count,
            current_streak = EXCLUDED.current_streak,
            longest_streak = EXCLUDED.longest_streak,
            last_active = EXCLUDED.last_active,
            points_history = EXCLUDED.points_history,
            weekly_progress = EXCLUDED.weekly_progress,
            distinct_moods = EXCLUDED.distinct_moods,
            unlocked = EXCLUDED.unlocked,
            habit_credits = EXCLUDED.habit_credits,
            version = progress_ledgers.version + 1,
            updated_at = NOW()
        WHERE progress_ledgers.version = $17
        RETURNING version`

	row := r.db.QueryRowContext(ctx, query,
		l.UserID, l.Points, l.Level,
		l.MoodEntryCount, l.HabitCompletionCount, l.GoalCompletionCount,
		l.ChallengeCompletionCount, l.ResourceViewCount,
		l.CurrentStreak, l.LongestStreak, lastActive,
		historyJSON, weeklyJSON, moodsJSON,
		unlockedJSON, creditsJSON,
		l.Version, l.CreatedAt, l.UpdatedAt,
	)

	var newVersion int
	if err := row.Scan(&newVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrLedgerConflict
		}
		return fmt.Errorf("ledger save failed: %w", err)
	}

	l.Version = newVersion
	return nil
}

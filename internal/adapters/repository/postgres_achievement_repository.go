package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

type PostgresAchievementRepository struct {
	db *sqlx.DB
}

func NewPostgresAchievementRepository(db *sqlx.DB) *PostgresAchievementRepository {
	return &PostgresAchievementRepository{db: db}
}

// Create relies on the unique index over (user_id, achievement_id): the
// check-then-insert race between concurrent evaluations collapses into a
// 23505 here, which callers treat as "already unlocked".
func (r *PostgresAchievementRepository) Create(ctx context.Context, a *domain.Achievement) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO achievements (
            id, user_id, achievement_id, name, description, category,
            points_awarded, unlocked_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.AchievementID, a.Name, a.Description, a.Category,
		a.PointsAwarded, a.UnlockedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAchievementExists
		}
		return fmt.Errorf("failed to insert achievement: %w", err)
	}

	return nil
}

func (r *PostgresAchievementRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Achievement, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        SELECT id, user_id, achievement_id, name, description, category,
               points_awarded, unlocked_at
        FROM achievements
        WHERE user_id = $1
        ORDER BY unlocked_at ASC`

	var achievements []*domain.Achievement
	if err := r.db.SelectContext(ctx, &achievements, query, userID); err != nil {
		return nil, fmt.Errorf("achievement query error: %w", err)
	}

	return achievements, nil
}

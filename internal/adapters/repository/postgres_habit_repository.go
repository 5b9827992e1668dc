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

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresHabitRepository) scanRow(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var weekdaysJSON, datesJSON []byte

	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category,
		&weekdaysJSON, &datesJSON,
		&h.CurrentStreak, &h.LongestStreak,
		&h.PointsPerCompletion, &h.StreakBonus,
		&h.Status, &h.Version, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(weekdaysJSON) > 0 {
		if err := json.Unmarshal(weekdaysJSON, &h.Weekdays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weekdays: %w", err)
		}
	}
	if len(datesJSON) > 0 {
		if err := json.Unmarshal(datesJSON, &h.CompletedDates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal completed dates: %w", err)
		}
	}

	return &h, nil
}

const habitColumns = `
        id, user_id, name, description, category,
        weekdays, completed_dates,
        current_streak, longest_streak,
        points_per_completion, streak_bonus,
        status, version, created_at, updated_at`

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	weekdaysJSON, err := json.Marshal(h.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}
	datesJSON, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return fmt.Errorf("failed to marshal completed dates: %w", err)
	}

	query := `
        INSERT INTO habits (` + habitColumns + `
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7,
            $8, $9,
            $10, $11,
            $12, 1, $13, $14
        )`

	_, err = r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, h.Description, h.Category,
		weekdaysJSON, datesJSON,
		h.CurrentStreak, h.LongestStreak,
		h.PointsPerCompletion, h.StreakBonus,
		h.Status, h.CreatedAt, h.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	h, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	weekdaysJSON, err := json.Marshal(h.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}
	datesJSON, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return fmt.Errorf("failed to marshal completed dates: %w", err)
	}

	query := `
        UPDATE habits SET
            name=$1, description=$2, category=$3,
            weekdays=$4, completed_dates=$5,
            current_streak=$6, longest_streak=$7,
            points_per_completion=$8, streak_bonus=$9,
            status=$10,
            updated_at=NOW(), version = version + 1
        WHERE id=$11 AND version=$12
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		h.Name, h.Description, h.Category,
		weekdaysJSON, datesJSON,
		h.CurrentStreak, h.LongestStreak,
		h.PointsPerCompletion, h.StreakBonus,
		h.Status,
		h.ID, h.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	if err := row.Scan(&newVersion, &newUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM habits WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, h.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrHabitNotFound
			}
			return domain.ErrHabitConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	h.Version = newVersion
	h.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

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
)

type PostgresRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresRecordRepository(db *sqlx.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

func (r *PostgresRecordRepository) scanRow(row scannable) (*domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	var activitiesJSON []byte

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Kind, &rec.MoodLabel, &activitiesJSON, &rec.Note,
		&rec.RecordedFor, &rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(activitiesJSON) > 0 {
		if err := json.Unmarshal(activitiesJSON, &rec.Activities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
		}
	}

	return &rec, nil
}

func (r *PostgresRecordRepository) Create(ctx context.Context, rec *domain.ActivityRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	activitiesJSON, err := json.Marshal(rec.Activities)
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}

	query := `
        INSERT INTO activity_records (
            id, user_id, kind, mood_label, activities, note,
            recorded_for, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Kind, rec.MoodLabel, activitiesJSON, rec.Note,
		rec.RecordedFor, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

func (r *PostgresRecordRepository) GetByID(ctx context.Context, id string) (*domain.ActivityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        SELECT id, user_id, kind, mood_label, activities, note,
               recorded_for, created_at, updated_at, deleted_at
        FROM activity_records
        WHERE id = $1 AND deleted_at IS NULL`

	rec, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("record scan error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRecordRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.ActivityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        SELECT id, user_id, kind, mood_label, activities, note,
               recorded_for, created_at, updated_at, deleted_at
        FROM activity_records
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY recorded_for DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("record query error: %w", err)
	}
	defer rows.Close()

	var records []*domain.ActivityRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("record row scan error: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        UPDATE activity_records
        SET deleted_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("record delete failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

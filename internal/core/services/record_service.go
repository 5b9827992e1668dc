package services

import (
	"context"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

// RecordService serves the read/delete side of mood and wellness records.
// Creation goes through the progress aggregator so every new record earns
// its points.
type RecordService struct {
	repo domain.ActivityRecordRepository
}

func NewRecordService(repo domain.ActivityRecordRepository) *RecordService {
	return &RecordService{repo: repo}
}

func (s *RecordService) GetByID(ctx context.Context, id, userID string) (*domain.ActivityRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return record, nil
}

func (s *RecordService) ListByUserID(ctx context.Context, userID string) ([]*domain.ActivityRecord, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	return s.repo.ListByUserID(ctx, userID)
}

func (s *RecordService) Delete(ctx context.Context, id, userID string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return domain.ErrUnauthorized
	}

	return s.repo.Delete(ctx, id, userID)
}

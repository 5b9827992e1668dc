package services

import (
	"context"
	"time"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/workers"
)

type HabitService struct {
	repo   domain.HabitRepository
	worker *workers.RecountWorker
}

func NewHabitService(repo domain.HabitRepository, worker *workers.RecountWorker) *HabitService {
	return &HabitService{
		repo:   repo,
		worker: worker,
	}
}

type CreateHabitInput struct {
	UserID              string
	Name                string
	Description         string
	Category            string
	Weekdays            []int
	PointsPerCompletion int
	StreakBonus         int
}

type UpdateHabitInput struct {
	ID                  string
	UserID              string
	Name                string
	Description         string
	Category            string
	Weekdays            []int
	PointsPerCompletion int
	StreakBonus         int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(
		input.UserID,
		input.Name,
		input.Description,
		input.Category,
		input.Weekdays,
		input.PointsPerCompletion,
		input.StreakBonus,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = habit.Name
	}
	desc := input.Description
	if desc == "" {
		desc = habit.Description
	}
	category := input.Category
	if category == "" {
		category = habit.Category
	}
	weekdays := habit.Weekdays
	if input.Weekdays != nil {
		weekdays = input.Weekdays
	}

	if err := habit.Update(name, desc, category, weekdays, input.PointsPerCompletion, input.StreakBonus); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// RemoveCompletion drops a recorded completion day and schedules an
// asynchronous streak recount, since the cached streaks may now be stale.
func (s *HabitService) RemoveCompletion(ctx context.Context, id, userID string, day time.Time) error {
	habit, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if !habit.RemoveCompletion(day) {
		return domain.ErrRecordNotFound
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return err
	}

	s.worker.Enqueue(habit.ID)

	return nil
}

func (s *HabitService) SetStatus(ctx context.Context, id, userID, status string) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.HabitStatusPaused:
		err = habit.Pause()
	case domain.HabitStatusActive:
		err = habit.Resume()
	case domain.HabitStatusArchived:
		habit.Archive()
	default:
		return nil, domain.ErrInvalidActivity
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

package services_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
	"github.com/wellspringhq/wellspring-engine/internal/core/workers"
)

func newTestHabitService(repo domain.HabitRepository) *services.HabitService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	worker := workers.NewRecountWorker(repo, log)
	return services.NewHabitService(repo, worker)
}

func seedHabit(t *testing.T, repo *mockHabitRepo, userID string) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit(userID, "Morning walk", "", "movement", nil, 0, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), habit))
	return habit
}

func TestHabitService_Create(t *testing.T) {
	ctx := context.Background()
	repo := newMockHabitRepo()
	svc := newTestHabitService(repo)

	t.Run("Success: Persists a valid habit", func(t *testing.T) {
		habit, err := svc.Create(ctx, services.CreateHabitInput{
			UserID:   "u1",
			Name:     "Read",
			Category: "mind",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, habit.ID)

		stored, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read", stored.Name)
	})

	t.Run("Error: Invalid habit never reaches the repository", func(t *testing.T) {
		_, err := svc.Create(ctx, services.CreateHabitInput{UserID: "u1", Name: "  "})
		assert.Equal(t, domain.ErrHabitNameEmpty, err)
	})
}

func TestHabitService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newMockHabitRepo()
	svc := newTestHabitService(repo)
	habit := seedHabit(t, repo, "u1")

	t.Run("Success: Owner can read", func(t *testing.T) {
		got, err := svc.GetByID(ctx, habit.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, habit.ID, got.ID)
	})

	t.Run("Error: Other users see not found, not forbidden", func(t *testing.T) {
		_, err := svc.GetByID(ctx, habit.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Error: Unknown id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "missing", "u1")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestHabitService_Update(t *testing.T) {
	ctx := context.Background()
	repo := newMockHabitRepo()
	svc := newTestHabitService(repo)
	habit := seedHabit(t, repo, "u1")

	t.Run("Success: Empty input fields keep existing values", func(t *testing.T) {
		updated, err := svc.Update(ctx, services.UpdateHabitInput{
			ID:     habit.ID,
			UserID: "u1",
			Name:   "Evening walk",
		})

		require.NoError(t, err)
		assert.Equal(t, "Evening walk", updated.Name)
		assert.Equal(t, "movement", updated.Category, "unset fields must not be wiped")
	})

	t.Run("Error: Ownership enforced", func(t *testing.T) {
		_, err := svc.Update(ctx, services.UpdateHabitInput{
			ID:     habit.ID,
			UserID: "intruder",
			Name:   "Hijacked",
		})
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestHabitService_RemoveCompletion(t *testing.T) {
	ctx := context.Background()
	repo := newMockHabitRepo()
	svc := newTestHabitService(repo)

	habit := seedHabit(t, repo, "u1")
	_, err := habit.Complete(testNow, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, habit))

	t.Run("Success: Removes the recorded day", func(t *testing.T) {
		err := svc.RemoveCompletion(ctx, habit.ID, "u1", testNow)
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.CompletedDates)
	})

	t.Run("Error: Nothing recorded for that day", func(t *testing.T) {
		err := svc.RemoveCompletion(ctx, habit.ID, "u1", testNow.AddDate(0, 0, -30))
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestHabitService_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMockHabitRepo()
	svc := newTestHabitService(repo)
	habit := seedHabit(t, repo, "u1")

	t.Run("Success: Pause then resume", func(t *testing.T) {
		paused, err := svc.SetStatus(ctx, habit.ID, "u1", domain.HabitStatusPaused)
		require.NoError(t, err)
		assert.Equal(t, domain.HabitStatusPaused, paused.Status)

		resumed, err := svc.SetStatus(ctx, habit.ID, "u1", domain.HabitStatusActive)
		require.NoError(t, err)
		assert.Equal(t, domain.HabitStatusActive, resumed.Status)
	})

	t.Run("Error: Unknown status", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, habit.ID, "u1", "hibernating")
		assert.Error(t, err)
	})

	t.Run("Error: Archived habit cannot be paused", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, habit.ID, "u1", domain.HabitStatusArchived)
		require.NoError(t, err)

		_, err = svc.SetStatus(ctx, habit.ID, "u1", domain.HabitStatusPaused)
		assert.Equal(t, domain.ErrHabitArchived, err)
	})
}

func TestHabitService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newMockHabitRepo()
	svc := newTestHabitService(repo)
	habit := seedHabit(t, repo, "u1")

	t.Run("Error: Only the owner can delete", func(t *testing.T) {
		err := svc.Delete(ctx, habit.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Success: Owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, habit.ID, "u1"))

		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

func TestRecordService(t *testing.T) {
	ctx := context.Background()
	repo := newMockRecordRepo()
	svc := services.NewRecordService(repo)

	record := domain.NewActivityRecord("u1", domain.RecordKindMood, "happy", "good day", nil, testNow)
	require.NoError(t, repo.Create(ctx, record))

	t.Run("Success: Owner reads a record", func(t *testing.T) {
		got, err := svc.GetByID(ctx, record.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, "happy", got.MoodLabel)
	})

	t.Run("Error: Other user's record is unauthorized", func(t *testing.T) {
		_, err := svc.GetByID(ctx, record.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Success: Listing returns only the user's records", func(t *testing.T) {
		other := domain.NewActivityRecord("u2", domain.RecordKindWellness, "", "", nil, testNow)
		require.NoError(t, repo.Create(ctx, other))

		list, err := svc.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, record.ID, list[0].ID)
	})

	t.Run("Error: Delete requires ownership", func(t *testing.T) {
		err := svc.Delete(ctx, record.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Success: Deleted records disappear from reads", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, record.ID, "u1"))

		_, err := svc.GetByID(ctx, record.ID, "u1")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

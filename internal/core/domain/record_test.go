package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

func TestNewActivityRecord(t *testing.T) {
	t.Run("Success: Truncates the recorded day", func(t *testing.T) {
		day := time.Date(2026, 8, 30, 18, 45, 0, 0, time.UTC)

		r := domain.NewActivityRecord("u1", domain.RecordKindMood, "happy", "good day", nil, day)

		require.NotNil(t, r)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), r.RecordedFor)
		assert.Nil(t, r.DeletedAt)
		require.NoError(t, r.Validate())
	})
}

func TestActivityRecord_Validate(t *testing.T) {
	t.Run("Error: Missing user id", func(t *testing.T) {
		r := domain.NewActivityRecord("", domain.RecordKindMood, "happy", "", nil, testNow)
		assert.ErrorIs(t, r.Validate(), domain.ErrMissingUserID)
	})

	t.Run("Error: Unknown kind", func(t *testing.T) {
		r := domain.NewActivityRecord("u1", "journal", "", "", nil, testNow)
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidActivity)
	})

	t.Run("Error: Mood entry without a label", func(t *testing.T) {
		r := domain.NewActivityRecord("u1", domain.RecordKindMood, "", "", nil, testNow)
		assert.ErrorIs(t, r.Validate(), domain.ErrMissingMoodLabel)
	})

	t.Run("Error: Label outside the vocabulary", func(t *testing.T) {
		r := domain.NewActivityRecord("u1", domain.RecordKindMood, "euphoric", "", nil, testNow)
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidMoodLabel)
	})

	t.Run("Success: Wellness check-in needs no mood label", func(t *testing.T) {
		r := domain.NewActivityRecord("u1", domain.RecordKindWellness, "", "slept well", []string{"exercise"}, testNow)
		assert.NoError(t, r.Validate())
	})
}

func TestActivityKind(t *testing.T) {
	t.Run("Success: Every kind maps to points and a whitelisted reason", func(t *testing.T) {
		kinds := []domain.ActivityKind{
			domain.ActivityMoodEntry,
			domain.ActivityHabitCompletion,
			domain.ActivityChallengeCompletion,
			domain.ActivityWellnessCheckIn,
			domain.ActivityResourceCompletion,
			domain.ActivityGoalProgress,
			domain.ActivityGoalCompletion,
			domain.ActivityTodoCompletion,
		}

		for _, k := range kinds {
			assert.True(t, k.Valid(), "%s", k)
			assert.Greater(t, k.BasePoints(), 0, "%s", k)
			assert.NotEmpty(t, k.AwardReason(), "%s", k)
		}
	})

	t.Run("Success: Base point table matches the scoring rules", func(t *testing.T) {
		assert.Equal(t, 5, domain.ActivityMoodEntry.BasePoints())
		assert.Equal(t, 25, domain.ActivityChallengeCompletion.BasePoints())
		assert.Equal(t, 20, domain.ActivityGoalCompletion.BasePoints())
	})

	t.Run("Error: Unknown kind is invalid", func(t *testing.T) {
		assert.False(t, domain.ActivityKind("meditation").Valid())
		assert.Equal(t, 0, domain.ActivityKind("meditation").BasePoints())
	})
}

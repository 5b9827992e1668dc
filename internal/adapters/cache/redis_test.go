package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRedisClient_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	rdb, err := NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		1,
	)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err(), "Failed to flush test DB")

	t.Run("Success: Cached ledger round-trips through its key", func(t *testing.T) {
		ledger, err := domain.NewProgressLedger("u1")
		require.NoError(t, err)
		_, err = ledger.Award(5, domain.ReasonMoodEntry, `Logged mood "happy"`, time.Now().UTC())
		require.NoError(t, err)

		payload, err := json.Marshal(ledger)
		require.NoError(t, err)
		require.NoError(t, rdb.Set(ctx, "ledger:u1", payload, 15*time.Minute).Err())

		raw, err := rdb.Get(ctx, "ledger:u1").Result()
		require.NoError(t, err)

		var cached domain.ProgressLedger
		require.NoError(t, json.Unmarshal([]byte(raw), &cached))
		assert.Equal(t, ledger.Points, cached.Points)
		assert.Equal(t, ledger.MoodEntryCount, cached.MoodEntryCount)
		assert.Len(t, cached.PointsHistory, 1)
	})

	t.Run("Success: Daily quote cache serves the stored day and misses others", func(t *testing.T) {
		quotes := NewRedisDailyCache(rdb, "quote")

		require.NoError(t, quotes.Set(ctx, "2026-08-30", "Small steps count."))

		val, err := quotes.Get(ctx, "2026-08-30")
		require.NoError(t, err)
		assert.Equal(t, "Small steps count.", val)

		_, err = quotes.Get(ctx, "2026-08-31")
		assert.ErrorIs(t, err, services.ErrCacheMiss)
	})

	t.Run("Success: Expired entries surface as cache misses", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "quote:2026-08-29", "stale", 1*time.Second).Err())
		time.Sleep(1100 * time.Millisecond)

		quotes := NewRedisDailyCache(rdb, "quote")
		_, err := quotes.Get(ctx, "2026-08-29")
		assert.ErrorIs(t, err, services.ErrCacheMiss)
	})

	t.Run("Success: Concurrent per-user ledger writes do not interfere", func(t *testing.T) {
		const users = 20
		done := make(chan error, users)

		for i := 0; i < users; i++ {
			go func(id int) {
				key := fmt.Sprintf("ledger:user-%d", id)
				if err := rdb.Set(ctx, key, fmt.Sprintf(`{"user_id":"user-%d"}`, id), time.Minute).Err(); err != nil {
					done <- err
					return
				}
				_, err := rdb.Get(ctx, key).Result()
				done <- err
			}(i)
		}

		for i := 0; i < users; i++ {
			assert.NoError(t, <-done)
		}
	})
}

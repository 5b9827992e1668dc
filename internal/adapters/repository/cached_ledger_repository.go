package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

var _ domain.LedgerRepository = (*CachedLedgerRepository)(nil)

// CachedLedgerRepository is a cache-aside decorator over a ledger
// repository. Progress reads are the hot path (every dashboard load);
// writes invalidate so the cache never serves a stale committed state.
type CachedLedgerRepository struct {
	next  domain.LedgerRepository
	cache *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCachedLedgerRepository(next domain.LedgerRepository, cache *redis.Client, log *logrus.Logger) *CachedLedgerRepository {
	return &CachedLedgerRepository{
		next:  next,
		cache: cache,
		ttl:   15 * time.Minute,
		log:   log,
	}
}

func (r *CachedLedgerRepository) cacheKey(userID string) string {
	return fmt.Sprintf("ledger:%s", userID)
}

func (r *CachedLedgerRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Warn("Ledger cache invalidation failed")
	}
}

func (r *CachedLedgerRepository) Get(ctx context.Context, userID string) (*domain.ProgressLedger, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var ledger domain.ProgressLedger
		if err := json.Unmarshal([]byte(val), &ledger); err == nil {
			return &ledger, nil
		}

		r.log.WithField("user_id", userID).Warn("Corrupted ledger cache entry, cleaning up")
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		r.log.WithError(err).Warn("Ledger cache read error")
	}

	ledger, err := r.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(ledger); err == nil {
		if setErr := r.cache.Set(ctx, key, data, r.ttl).Err(); setErr != nil {
			r.log.WithError(setErr).Warn("Ledger cache write error")
		}
	}

	return ledger, nil
}

func (r *CachedLedgerRepository) Save(ctx context.Context, ledger *domain.ProgressLedger) error {
	if err := r.next.Save(ctx, ledger); err != nil {
		return err
	}
	r.invalidate(ctx, ledger.UserID)
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

var _ services.DailyCache = (*RedisDailyCache)(nil)

// RedisDailyCache stores one value per calendar day under a namespaced
// key. Entries expire on their own; the 48h TTL comfortably outlives the
// day they belong to.
type RedisDailyCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisDailyCache(rdb *redis.Client, prefix string) *RedisDailyCache {
	return &RedisDailyCache{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (c *RedisDailyCache) key(day string) string {
	return fmt.Sprintf("%s:%s", c.prefix, day)
}

func (c *RedisDailyCache) Get(ctx context.Context, day string) (string, error) {
	val, err := c.rdb.Get(ctx, c.key(day)).Result()
	if errors.Is(err, redis.Nil) {
		return "", services.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("daily cache read: %w", err)
	}
	return val, nil
}

func (c *RedisDailyCache) Set(ctx context.Context, day, value string) error {
	if err := c.rdb.Set(ctx, c.key(day), value, 48*time.Hour).Err(); err != nil {
		return fmt.Errorf("daily cache write: %w", err)
	}
	return nil
}

var _ services.DailyCache = (*MemoryDailyCache)(nil)

// MemoryDailyCache is the redis-less fallback. Only the latest day is
// retained, which is all a per-day cache ever serves.
type MemoryDailyCache struct {
	mu    sync.Mutex
	day   string
	value string
}

func NewMemoryDailyCache() *MemoryDailyCache {
	return &MemoryDailyCache{}
}

func (c *MemoryDailyCache) Get(ctx context.Context, day string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.day != day {
		return "", services.ErrCacheMiss
	}
	return c.value, nil
}

func (c *MemoryDailyCache) Set(ctx context.Context, day, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.day = day
	c.value = value
	return nil
}

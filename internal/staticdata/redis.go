package staticdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSnapshotKey = "widget:staticdata:snapshot"

// RedisCached decorates a provider with a shared Redis cache so a fleet of
// runtime instances does not hammer the backend data API. Each call still
// returns a fresh copy; only the upstream fetch is amortized.
type RedisCached struct {
	inner  Provider
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCached wraps inner with a Redis cache using the given TTL.
func NewRedisCached(inner Provider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCached {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCached{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Snapshot serves from cache when possible, falling through to the inner
// provider on miss or cache failure. Cache write failures are logged, not
// surfaced: a degraded cache must not break rendering.
func (c *RedisCached) Snapshot(ctx context.Context) (*Snapshot, error) {
	data, err := c.client.Get(ctx, redisSnapshotKey).Bytes()
	if err == nil {
		var s Snapshot
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached snapshot")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "snapshot cache read failed", "error", err)
	}

	s, err := c.inner.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot for cache: %w", err)
	}
	if err := c.client.Set(ctx, redisSnapshotKey, encoded, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache write failed", "error", err)
	}
	return s, nil
}

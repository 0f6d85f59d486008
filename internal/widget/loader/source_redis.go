package loader

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const bundleCacheKeyPrefix = "widget:bundle:"

// CachedSource decorates a Source with a shared Redis cache keyed by bundle
// URL. The in-process pending map already guarantees one fetch per type per
// runtime; this tier keeps a fleet of runtimes from refetching bundles from
// the asset origin on every restart.
type CachedSource struct {
	inner  Source
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps inner with a Redis cache using the given TTL.
func NewCachedSource(inner Source, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Fetch serves cached bundle bytes when present. Cache failures degrade to
// the inner source; only fetch errors propagate. Failed fetches are never
// cached here; the loader's own pending map is what pins failures.
func (c *CachedSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := bundleCacheKeyPrefix + url
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "bundle cache read failed", "url", url, "error", err)
	}

	raw, err := c.inner.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "bundle cache write failed", "url", url, "error", err)
	}
	return raw, nil
}

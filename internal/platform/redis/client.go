// Package redis wraps the go-redis client used for bundle and widget data
// caching, with pool metrics and a health probe.
package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"proxyauth/internal/platform/config"
)

var (
	poolConns = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "proxyauth_redis_pool_conns",
		Help: "Connections in the pool by state",
	}, []string{"state"})

	poolEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proxyauth_redis_pool_events_total",
		Help: "Cumulative pool events (hits, misses, timeouts, stale conns)",
	}, []string{"event"})
)

// Client is a go-redis client plus the bookkeeping needed to export pool
// statistics as deltas.
type Client struct {
	*redis.Client
	lastStats *redis.PoolStats
}

// New builds a client from configuration and verifies connectivity with a
// ping. Returns nil when no URL is configured, so callers can treat redis as
// optional.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers pings.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats publishes current pool statistics. The underlying stats
// are cumulative, so counter metrics receive the delta since the previous
// call. Call periodically from a background goroutine.
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()

	poolConns.WithLabelValues("total").Set(float64(stats.TotalConns))
	poolConns.WithLabelValues("idle").Set(float64(stats.IdleConns))

	var prev redis.PoolStats
	if c.lastStats != nil {
		prev = *c.lastStats
	}
	addDelta := func(event string, cur, last uint32) {
		if cur > last {
			poolEvents.WithLabelValues(event).Add(float64(cur - last))
		}
	}
	addDelta("hit", stats.Hits, prev.Hits)
	addDelta("miss", stats.Misses, prev.Misses)
	addDelta("timeout", stats.Timeouts, prev.Timeouts)
	addDelta("stale_conn", stats.StaleConns, prev.StaleConns)

	c.lastStats = stats
}

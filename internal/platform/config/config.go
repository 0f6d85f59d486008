package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration for the widget service.
type Server struct {
	Addr        string
	Environment string

	// AssetBaseURL is the absolute base URL embed bundles are fetched from.
	// By default the service fetches from its own /embeds/ mount.
	AssetBaseURL string

	// StaticDataURL points at the upstream widget data endpoint. Empty means
	// the built-in fixture data is served.
	StaticDataURL string

	ActionTokenKey string
	ActionTokenTTL time.Duration
	InitTimeout    time.Duration

	// PreloadTypes lists embed types to warm at startup.
	PreloadTypes []string

	Redis        RedisConfig
	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

var ActionTokenTTL = 15 * time.Minute
var InitTimeout = 10 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PROXYAUTH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	environment := os.Getenv("PROXYAUTH_ENV")
	if environment == "" {
		environment = "development"
	}

	assetBase := os.Getenv("PROXYAUTH_ASSET_BASE_URL")
	if assetBase == "" {
		assetBase = "http://localhost:8080/"
	}

	tokenKey := os.Getenv("PROXYAUTH_ACTION_TOKEN_KEY")
	if tokenKey == "" {
		// Use a default for development - should be overridden in production
		tokenKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := ActionTokenTTL
	if raw := os.Getenv("PROXYAUTH_ACTION_TOKEN_TTL"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			tokenTTL = duration
		}
	}

	initTimeout := InitTimeout
	if raw := os.Getenv("PROXYAUTH_INIT_TIMEOUT"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			initTimeout = duration
		}
	}

	return Server{
		Addr:           addr,
		Environment:    environment,
		AssetBaseURL:   assetBase,
		StaticDataURL:  os.Getenv("PROXYAUTH_STATIC_DATA_URL"),
		ActionTokenKey: tokenKey,
		ActionTokenTTL: tokenTTL,
		InitTimeout:    initTimeout,
		PreloadTypes:   splitList(os.Getenv("PROXYAUTH_PRELOAD_TYPES")),
		Redis:          redisFromEnv(),
		KafkaBrokers:   splitList(os.Getenv("PROXYAUTH_KAFKA_BROKERS")),
		KafkaTopic:     os.Getenv("PROXYAUTH_KAFKA_TOPIC"),
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("PROXYAUTH_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

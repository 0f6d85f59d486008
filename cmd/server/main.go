package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"proxyauth/internal/platform/config"
	"proxyauth/internal/platform/health"
	"proxyauth/internal/platform/kafka"
	"proxyauth/internal/platform/logger"
	platformmetrics "proxyauth/internal/platform/metrics"
	"proxyauth/internal/platform/middleware"
	platformredis "proxyauth/internal/platform/redis"
	"proxyauth/internal/staticdata"
	"proxyauth/internal/widget/assets"
	"proxyauth/internal/widget/audit"
	"proxyauth/internal/widget/callback"
	"proxyauth/internal/widget/dispatch"
	"proxyauth/internal/widget/handler"
	"proxyauth/internal/widget/loader"
	widgetmetrics "proxyauth/internal/widget/metrics"
	"proxyauth/internal/widget/models"
	"proxyauth/internal/widget/registry"
	"proxyauth/internal/widget/session"
	"proxyauth/internal/widget/token"
	"proxyauth/internal/widget/tracer"
	"proxyauth/pkg/platform/validation"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. The widget runtime lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing proxyauth widget service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"asset_base_url", cfg.AssetBaseURL,
	)

	wm := widgetmetrics.New()
	hm := platformmetrics.New()
	healthHandler := health.New(cfg.Environment)

	// Optional Redis: caches bundle fetches and widget data snapshots.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		defer redisClient.Close()
	}

	// Optional Kafka: audits triggered widget actions.
	var auditor audit.Publisher = audit.NewMemory()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaCfg := kafka.DefaultConfig()
		kafkaCfg.Brokers = strings.Join(cfg.KafkaBrokers, ",")
		producer, err := kafka.New(kafkaCfg, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		topic := cfg.KafkaTopic
		if topic == "" {
			topic = audit.DefaultTopic
		}
		auditor = audit.NewKafka(producer, topic, log)
		log.Info("audit events publishing to kafka", "topic", topic)
	}

	// Widget data: upstream endpoint when configured, fixture data otherwise.
	// The upstream path is circuit-broken with the fixture as fallback.
	var data staticdata.Provider
	if cfg.StaticDataURL != "" {
		upstream := staticdata.NewHTTPProvider(cfg.StaticDataURL, nil)
		data = staticdata.NewResilient(upstream, staticdata.NewFixture(), log)
	} else {
		data = staticdata.NewFixture()
		log.Info("no static data URL configured, serving fixture data")
	}
	if redisClient != nil {
		data = staticdata.NewRedisCached(data, redisClient.Client, 5*time.Minute, log)
	}

	invoker := callback.New(log, wm)
	reg := registry.New()

	var source loader.Source = loader.NewHTTPSource(nil)
	if redisClient != nil {
		source = loader.NewCachedSource(source, redisClient.Client, 10*time.Minute, log)
	}

	ld, err := loader.New(reg, source, cfg.AssetBaseURL, invoker,
		loader.WithLogger(log),
		loader.WithMetrics(wm),
		loader.WithTracer(tracer.NewOTel()),
	)
	if err != nil {
		log.Error("loader init failed", "error", err)
		os.Exit(1)
	}

	healthHandler.RegisterInfo("registered_embeds", func() any { return reg.Types() })

	runtime := dispatch.New(reg, ld, data, invoker,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(wm),
		dispatch.WithTracer(tracer.NewOTel()),
	)

	signer := token.NewSigner(cfg.ActionTokenKey, "proxyauth", cfg.ActionTokenTTL)
	sessions := session.NewInMemory()

	widgetHandler := handler.New(runtime, sessions, signer, auditor, log,
		handler.WithMetrics(wm),
		handler.WithInitTimeout(cfg.InitTimeout),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Variant)
	r.Use(hm.Middleware)
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.BodyLimit(validation.MaxBodySize))
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler.Register(r)
	widgetHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/embeds/*", assets.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Warm configured embeds once the listener is up.
	if len(cfg.PreloadTypes) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			types := make([]models.Type, 0, len(cfg.PreloadTypes))
			for _, t := range cfg.PreloadTypes {
				types = append(types, models.Type(t))
			}
			if err := runtime.Preload(ctx, types...); err != nil {
				log.Warn("embed preload failed", "error", err)
			}
		}()
	}

	if redisClient != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				redisClient.RecordPoolStats()
			}
		}()
	}

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

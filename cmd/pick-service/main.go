package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/projection"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/providers/espn"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/ratelimit"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/slate"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/strategy"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Info("=== Fortuna Pick Service ===")

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.WithError(err).Fatal("failed to parse Redis URL")
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		redisOpts.DB = cfg.Redis.DB
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	logger.Info("✓ Connected to Redis")

	// Optional strategy persistence
	var strategyStore store.StrategyStore
	if cfg.Postgres.DSN != "" {
		pg, err := store.NewPostgres(cfg.Postgres.DSN)
		if err != nil {
			logger.WithError(err).Fatal("failed to open strategy database")
		}
		defer pg.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err = pg.Ping(pingCtx)
		if err == nil {
			err = pg.EnsureSchema(pingCtx)
		}
		pingCancel()
		if err != nil {
			logger.WithError(err).Fatal("failed to prepare strategy database")
		}
		strategyStore = pg
		logger.Info("✓ Connected to strategy database")
	} else {
		logger.Warn("DATABASE_URL not set, strategies will not be persisted")
	}

	// Sports registry
	registry := sports.New()
	registry.Restrict(cfg.Engine.Sports)
	for _, p := range registry.EnabledSports() {
		logging.WithSport(logger, p.Key).Info("sport enabled")
	}

	// Data source and engines
	espnClient := espn.New(espn.Config{
		BaseURL:       cfg.ESPN.BaseURL,
		Timeout:       cfg.ESPN.Timeout,
		RetryAttempts: cfg.ESPN.RetryAttempts,
		RetryDelay:    cfg.ESPN.RetryDelay,
	}, cache.NewRedisCache(redisClient, "espn"), logger)
	var limiter *ratelimit.TokenBucket
	if cfg.ESPN.RateLimit > 0 {
		limiter = ratelimit.NewTokenBucket(redisClient, "espn:ratelimit", cfg.ESPN.RateLimit, time.Minute)
		espnClient.WithLimiter(limiter)
	}
	source := espn.NewSource(espnClient, registry)

	engine := projection.NewEngine(source, registry, cfg.Engine.BatchSize, logger)
	allocator := strategy.NewAllocator(registry)
	slates := slate.NewService(source, engine, logger)
	streams := publisher.NewStreamPublisher(redisClient, cfg.Stream.MaxLen)
	if cfg.Stream.DedupTTL > 0 {
		streams.WithDedup(publisher.NewDeduplicator(redisClient, cfg.Stream.DedupTTL))
	}

	// Live feed
	live := hub.New(cfg.Server.CORSOrigins, logger)
	go live.Run(ctx)

	if cfg.Slate.Enabled {
		orchestrator := slate.NewOrchestrator(registry, slates, streams, live, cfg.Slate.Interval, logger).
			WithInvalidator(source)
		go orchestrator.Start(ctx)
	}

	var rateGauge handlers.TokenGauge
	if limiter != nil {
		rateGauge = limiter
	}
	handler := handlers.NewHandler(handlers.Dependencies{
		Slates:      slates,
		Allocator:   allocator,
		Store:       strategyStore,
		Publisher:   streams,
		Broadcaster: live,
		Live:        live,
		RateLimit:   rateGauge,
		Sports:      registry,
		Defaults:    cfg.Strategy,
		Logger:      logger,
		BaseContext: ctx,
	})

	// Start server
	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     handlers.NewRouter(handler, cfg.Server.CORSOrigins),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("✓ Pick service listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server error")
		}

	case sig := <-shutdown:
		logger.WithField("signal", sig.String()).Warn("received signal, shutting down")
	}

	// Cancel context to stop runners, the hub and websocket pumps
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.WithError(err).Error("could not stop server")
		}
	}

	logger.Info("✓ Shutdown complete")
}

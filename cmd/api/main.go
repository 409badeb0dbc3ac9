package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fplpulse/analytics-api/internal/config"
	"github.com/fplpulse/analytics-api/internal/fpl"
	"github.com/fplpulse/analytics-api/internal/handlers"
	"github.com/fplpulse/analytics-api/internal/loader"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Shared cache is optional; without it the client caches in-process.
	var rdb *redis.Client
	cache := fpl.NewMemoryCache()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("Invalid REDIS_URL", "error", err)
		}
		rdb = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			sugar.Warnw("Redis unreachable, using in-process cache", "error", err)
			rdb = nil
		} else {
			cache = fpl.NewRedisCache(rdb, logger)
		}
	}

	client := fpl.New(fpl.Config{
		BaseURL:   cfg.FPLBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Cache:     cache,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
	})

	// One blocking season load; the catalog is immutable afterwards and
	// every query is a pure read against it.
	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout)
	cat, err := loader.New(client, cfg.FetchConcurrency, logger).Load(loadCtx)
	cancel()
	if err != nil {
		sugar.Fatalw("Season load failed", "error", err)
	}

	h := handlers.New(handlers.Config{
		Catalog: cat,
		Redis:   rdb,
		Logger:  logger,
	})

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(handlers.RequestLogger(logger))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api/v1", h.Routes())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Listening", "port", cfg.Port, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		sugar.Infow("Shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("Server failed", "error", err)
		}
	}
}

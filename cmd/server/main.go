// Package main is the entrypoint for the RuckWatch API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/ruckwatch/ruckwatch/internal/api"
	"github.com/ruckwatch/ruckwatch/internal/api/handler"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/cache"
	"github.com/ruckwatch/ruckwatch/internal/config"
	"github.com/ruckwatch/ruckwatch/internal/jobs"
	"github.com/ruckwatch/ruckwatch/internal/mirror"
	"github.com/ruckwatch/ruckwatch/internal/results"
	"github.com/ruckwatch/ruckwatch/internal/storage"
	"github.com/ruckwatch/ruckwatch/internal/store"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

const shutdownTimeout = 30 * time.Second

// changeBuffer absorbs notification bursts between the listener and the
// mirror manager.
const changeBuffer = 64

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"videos_bucket", cfg.Storage.VideosBucket,
		"results_bucket", cfg.Storage.ResultsBucket)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create object storage clients
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	videosBucket := storage.NewS3Bucket(awsCfg, cfg.Storage.VideosBucket, cfg.Storage.SignedURLTTL)
	resultsBucket := storage.NewS3Bucket(awsCfg, cfg.Storage.ResultsBucket, cfg.Storage.SignedURLTTL)
	resultsSigner := storage.NewCachedSigner(resultsBucket, redisCache,
		cfg.Storage.ResultsBucket, cfg.Storage.SignedURLTTL)

	// 6. Create store, mirror manager and change stream
	pgStore := store.NewPostgresStore(pool)
	sessions := mirror.NewManager(pgStore,
		mirror.WithStatusCache(redisCache, cache.JobStatusTTL))

	changes := make(chan models.JobChange, changeBuffer)
	listener := store.NewListener(cfg.Database.URL)
	go listener.Run(ctx, changes)
	go sessions.Run(ctx, changes)
	slog.Info("change stream started", "channel", store.JobsChannel)

	// 7. Create domain services
	jobService := jobs.NewService(pgStore, videosBucket, sessions)
	fetcher := results.NewFetcher(resultsSigner, cfg.Results.FetchTimeout)

	// 8. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(pgStore),
		RateLimit: mw.NewRateLimit(redisCache, 0),

		HealthHandler:    handler.NewHealthHandler(pgStore, redisCache),
		UploadHandler:    handler.NewUploadHandler(jobService),
		CreateJobHandler: handler.NewCreateJobHandler(jobService),
		ListJobsHandler:  handler.NewListJobsHandler(sessions),
		GetJobHandler:    handler.NewGetJobHandler(sessions),
		JobStatusHandler: handler.NewJobStatusHandler(redisCache, pgStore),
		ResultsHandler:   handler.NewResultsHandler(sessions, fetcher),
		WatchHandler:     handler.NewWatchHandler(sessions),
	}
	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // watch streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

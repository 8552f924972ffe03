package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/adapter/chromedp_collector"
	"github.com/user/perf-insights/internal/adapter/postgres"
	redis_adapter "github.com/user/perf-insights/internal/adapter/redis"
	"github.com/user/perf-insights/internal/delivery/http/handler"
	"github.com/user/perf-insights/internal/delivery/http/router"
	"github.com/user/perf-insights/internal/detector"
	"github.com/user/perf-insights/internal/usecase"
	"github.com/user/perf-insights/pkg/config"
	"github.com/user/perf-insights/pkg/logger"
	"github.com/user/perf-insights/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer func() { _ = log.Sync() }()

	// --- Metrics ---
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL ---
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("Unable to create database pool", zap.Error(err))
	}
	defer dbpool.Close()
	if err := postgres.Migrate(ctx, dbpool); err != nil {
		log.Fatal("Unable to apply migrations", zap.Error(err))
	}
	log.Info("PostgreSQL connection pool established")

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Unable to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connection established")

	// --- Repositories ---
	settingsRepo := redis_adapter.NewSettingsRepo(rdb)
	snapshotRepo := redis_adapter.NewSnapshotRepo(rdb)
	queueRepo := redis_adapter.NewQueueRepo(rdb)
	failedRepo := postgres.NewFailedCollectionRepo(dbpool)
	reportRepo, err := postgres.NewReportRepo(ctx, dbpool, log)
	if err != nil {
		log.Fatal("Unable to initialize report store", zap.Error(err))
	}

	collector := chromedp_collector.NewChromedpCollector(cfg.CollectWorkers, cfg.CollectTimeoutDuration(), log)
	defer collector.Close()

	// --- Use Cases ---
	engine := detector.NewEngine(log, detector.WithRecorder(metrics.DetectorRecorder{}))
	settings := usecase.NewSettingsManager(settingsRepo)
	analyzer := usecase.NewAnalyzer(engine, settings, reportRepo, snapshotRepo, cfg.SnapshotTTL(), log)
	collections := usecase.NewCollectionManager(queueRepo, snapshotRepo, reportRepo, failedRepo,
		2*cfg.CollectTimeoutDuration()*time.Duration(max(cfg.MaxRetries, 1)), log)
	worker := usecase.NewCollectorUseCase(queueRepo, collector, snapshotRepo, failedRepo, analyzer, settings,
		usecase.CollectorOptions{MaxRetries: cfg.MaxRetries, SnapshotTTL: cfg.SnapshotTTL()}, log)

	pool := usecase.NewWorkerPool(worker, cfg.CollectWorkers, cfg.QueuePollInterval(), cfg.CollectTimeoutDuration()+10*time.Second, log)
	pool.Start(ctx)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(analyzer, settings, collections, map[string]handler.HealthCheck{
		"postgres": dbpool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	pool.Stop()

	log.Info("Server exiting")
}

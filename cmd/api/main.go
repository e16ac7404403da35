package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/cache"
	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/config"
	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/database"
	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/instrumentation"
	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/notify"
	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/repository"
	"github.com/mckechniep/sneatsnags-sub002/internal/infrastructure/telemetry"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/batch"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

func main() {
	var configPath = flag.String("config", "", "Path to configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("matcher failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting ticket match engine",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"schedule", cfg.Batch.Schedule)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	pool, err := database.NewPool(ctx, &cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(&cfg.Redis, zapLogger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var listings matching.ListingRepository = repository.NewListingRepository(pool)
	if cfg.Cache.Enabled {
		listings, err = cache.NewCandidateCache(listings, redisClient, cfg.Cache.TTL, zapLogger)
		if err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := instrumentation.NewPrometheusMetrics(registry)

	matcher, err := matching.NewService(listings, cfg.Matching, metrics, logger)
	if err != nil {
		return err
	}

	notifier := notify.NewRedisNotifier(redisClient, cfg.Batch.NotifyRatePerSecond, cfg.Batch.NotifyBurst, zapLogger)

	scheduler := batch.NewScheduler(
		repository.NewPreferenceRepository(pool),
		matcher,
		notifier,
		repository.NewMatchHistoryRepository(pool),
		metrics,
		logger,
		cfg.Batch.Workers,
	)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Batch.Schedule, func() {
		summary, err := scheduler.RunScheduledBatch(ctx)
		if err != nil {
			logger.Error("scheduled batch run failed", "error", err)
			return
		}
		logger.Info("scheduled batch run finished",
			"total_matches", summary.TotalMatches,
			"users_processed", summary.UsersProcessed,
			"failures", summary.Failures)
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.ListenAddr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return metricsSrv.Shutdown(shutdownCtx)
}

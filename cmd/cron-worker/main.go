package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastly-app/feastly-backend/internal/cron"
	"github.com/feastly-app/feastly-backend/internal/deliveries"
	"github.com/feastly-app/feastly-backend/internal/orders"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/migrate"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/redis"
)

const lockKeyFormat = "feastly:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	orderRepo := orders.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	orderTTLJob, err := cron.NewOrderTTLJob(cron.OrderTTLJobParams{
		Logger:     logg,
		DB:         dbClient,
		Orders:     orderRepo,
		Deliveries: deliveries.NewReleaser(deliveries.NewRepository(gormDB)),
		Outbox:     outboxSvc,
		PendingTTL: cfg.Cron.PendingOrderTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order ttl job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(orderTTLJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:    ":" + cfg.App.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error(context.Background(), "metrics server stopped unexpectedly", err)
		}
	}()
	defer metricsServer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "cron-worker",
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

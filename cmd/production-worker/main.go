package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/kitchenops/internal/cron"
	"github.com/angelmondragon/kitchenops/internal/production"
	"github.com/angelmondragon/kitchenops/pkg/config"
	"github.com/angelmondragon/kitchenops/pkg/db"
	"github.com/angelmondragon/kitchenops/pkg/logger"
	"github.com/angelmondragon/kitchenops/pkg/metrics"
	"github.com/angelmondragon/kitchenops/pkg/migrate"
	"github.com/angelmondragon/kitchenops/pkg/redis"
)

// lookaheadDays covers orders scheduled for tomorrow's prep.
const lookaheadDays = 1

func main() {
	once := flag.Bool("once", false, "run a single rebuild cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "production-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "production-worker"

	logg = logger.New(logger.Options{
		ServiceName: "production-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := production.NewRedisAggregateStore(redisClient, cfg.Production.AggregateTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create aggregate store", err)
		os.Exit(1)
	}

	productionSvc, err := production.NewService(production.ServiceParams{
		Repo:    production.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Store:   store,
		Policy:  production.PolicyFor(cfg.Production.Policy()),
		Logger:  logg,
		Metrics: metrics.NewProductionMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
		os.Exit(1)
	}

	loc, err := cfg.Production.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve production timezone", err)
		os.Exit(1)
	}

	rebuildJob, err := cron.NewAggregateRebuildJob(cron.AggregateRebuildJobParams{
		Logger:        logg,
		Rebuilder:     productionSvc,
		Location:      loc,
		LookaheadDays: lookaheadDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create aggregate rebuild job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName(cfg.App.Env)), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	if err := registry.Register(rebuildJob); err != nil {
		logg.Error(context.Background(), "failed to register aggregate rebuild job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Interval: cfg.Production.RecomputeInterval,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"policy":      string(cfg.Production.Policy()),
		"timezone":    loc.String(),
	})
	if *once {
		logg.Info(ctx, "running single production worker cycle")
		service.RunOnce(ctx)
		return
	}

	logg.Info(ctx, "starting production worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "production worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "production worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return "production-worker:" + env
}

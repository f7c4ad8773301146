package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/internal/checkout"
	"github.com/karangtaruna-pekunden/marketplace/internal/cron"
	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
	"github.com/karangtaruna-pekunden/marketplace/pkg/db"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
	"github.com/karangtaruna-pekunden/marketplace/pkg/migrate"
	"github.com/karangtaruna-pekunden/marketplace/pkg/payloadcms"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redis"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redislock"
)

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
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

	dependencyMetrics := metrics.NewDependencyMetrics(prometheus.DefaultRegisterer)
	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	cmsClient, err := payloadcms.NewClient(cfg.CMS.BaseURL,
		payloadcms.WithHTTPClient(&http.Client{Timeout: cfg.CMS.Timeout}),
		payloadcms.WithAPIKey(cfg.CMS.APIKeyCollection, cfg.CMS.APIKey),
		payloadcms.WithMetrics(dependencyMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cms client", err)
		os.Exit(1)
	}
	mediaBase := cfg.App.PublicURL
	if mediaBase == "" {
		mediaBase = cfg.CMS.BaseURL
	}
	catalogService, err := catalog.NewService(cmsClient, redisClient, logg, catalog.Options{
		ProductsCollection: cfg.CMS.ProductsCollection,
		CategoryCollection: cfg.CMS.CategoryCollection,
		Depth:              cfg.CMS.Depth,
		CacheTTL:           cfg.CMS.CacheTTL,
		MediaBaseURL:       mediaBase,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	refreshJob, err := cron.NewCatalogRefreshJob(cron.CatalogRefreshJobParams{
		Logger:  logg,
		Catalog: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog refresh job", err)
		os.Exit(1)
	}
	retentionJob, err := cron.NewHandoffRetentionJob(cron.HandoffRetentionJobParams{
		Logger:     logg,
		Repository: checkout.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.HandoffRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create handoff retention job", err)
		os.Exit(1)
	}

	lock, err := redislock.NewMutex(redisClient, redisClient.LockKey(cron.LockKeySuffix, cfg.App.Env), cfg.Cron.Interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry, err := cron.NewRegistry(refreshJob, retentionJob)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"jobs":        registry.Names(),
		"interval":    service.Interval().String(),
	})

	if *once {
		logg.Info(ctx, "running cron jobs once")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

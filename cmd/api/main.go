package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karangtaruna-pekunden/marketplace/api/routes"
	"github.com/karangtaruna-pekunden/marketplace/internal/address"
	"github.com/karangtaruna-pekunden/marketplace/internal/assistant"
	"github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/internal/checkout"
	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
	"github.com/karangtaruna-pekunden/marketplace/pkg/db"
	"github.com/karangtaruna-pekunden/marketplace/pkg/gemini"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
	"github.com/karangtaruna-pekunden/marketplace/pkg/migrate"
	"github.com/karangtaruna-pekunden/marketplace/pkg/nominatim"
	"github.com/karangtaruna-pekunden/marketplace/pkg/payloadcms"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redis"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redislock"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dependencyMetrics := metrics.NewDependencyMetrics(registry)
	assistantMetrics := metrics.NewAssistantMetrics(registry)

	services, err := buildServices(cfg, logg, redisClient, dbClient, dependencyMetrics, assistantMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			DB:               dbClient,
			Redis:            redisClient,
			RateLimiter:      redisClient,
			Metrics:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			AssistantMetrics: assistantMetrics,
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	dbClient *db.Client,
	dependencyMetrics *metrics.DependencyMetrics,
	assistantMetrics *metrics.AssistantMetrics,
) (routes.Services, error) {
	var services routes.Services

	cmsClient, err := payloadcms.NewClient(cfg.CMS.BaseURL,
		payloadcms.WithHTTPClient(&http.Client{Timeout: cfg.CMS.Timeout}),
		payloadcms.WithAPIKey(cfg.CMS.APIKeyCollection, cfg.CMS.APIKey),
		payloadcms.WithMetrics(dependencyMetrics),
	)
	if err != nil {
		return services, err
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
		return services, err
	}

	geocoder, err := nominatim.NewClient(cfg.Geocoder.UserAgent,
		nominatim.WithHTTPClient(&http.Client{Timeout: cfg.Geocoder.Timeout}),
		nominatim.WithBaseURL(cfg.Geocoder.BaseURL),
		nominatim.WithCountryCodes(cfg.Geocoder.CountryCodes),
		nominatim.WithLimit(cfg.Geocoder.Limit),
		nominatim.WithMetrics(dependencyMetrics),
	)
	if err != nil {
		return services, err
	}
	addressService, err := address.NewService(geocoder, logg)
	if err != nil {
		return services, err
	}

	// A nil Generator keeps the assistant on its offline fallback.
	var model assistant.Generator
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(cfg.Gemini.APIKey,
			gemini.WithHTTPClient(&http.Client{Timeout: cfg.Gemini.Timeout}),
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithMetrics(dependencyMetrics),
		)
		if err != nil {
			return services, err
		}
		model = geminiClient
		logg.Info(logg.WithField(context.Background(), "model", geminiClient.Model()), "shipping assistant online")
	} else {
		logg.Warn(context.Background(), "gemini api key not set, shipping assistant runs offline")
	}
	assistantService, err := assistant.NewService(model, logg, assistantMetrics, assistant.Rules{
		Origin:       cfg.Shipping.Origin,
		FreeRadiusKm: cfg.Shipping.FreeRadiusKm,
		StepKm:       cfg.Shipping.StepKm,
		StepFee:      cfg.Shipping.StepFee,
	}, cfg.Gemini.Temperature)
	if err != nil {
		return services, err
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Cart.StateTTL)
	if err != nil {
		return services, err
	}
	cartLocker, err := redislock.NewLocker(redisClient, redislock.Options{TTL: cfg.Cart.LockTTL})
	if err != nil {
		return services, err
	}
	cartService, err := cart.NewService(cart.Deps{
		Store:  cartStore,
		Locker: cartLocker,
		LockKey: func(cartID string) string {
			return redisClient.LockKey("cart", cartID)
		},
		Products: catalogService,
		Quoter:   assistantService,
		Logger:   logg,
	})
	if err != nil {
		return services, err
	}

	checkoutService, err := checkout.NewService(
		cartService,
		catalogService,
		checkout.NewRepository(dbClient.DB()),
		logg,
		checkout.Options{StoreName: cfg.WhatsApp.StoreName, Phone: cfg.WhatsApp.Number},
	)
	if err != nil {
		return services, err
	}

	services = routes.Services{
		Catalog:   catalogService,
		Cart:      cartService,
		Address:   addressService,
		Assistant: assistantService,
		Checkout:  checkoutService,
	}
	return services, nil
}

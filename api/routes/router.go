package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/karangtaruna-pekunden/marketplace/api/controllers"
	"github.com/karangtaruna-pekunden/marketplace/api/middleware"
	"github.com/karangtaruna-pekunden/marketplace/internal/address"
	"github.com/karangtaruna-pekunden/marketplace/internal/assistant"
	"github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/internal/checkout"
	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Infra carries the shared clients the router needs directly.
type Infra struct {
	DB               controllers.Pinger
	Redis            controllers.Pinger
	RateLimiter      rateLimiter
	Metrics          http.Handler
	AssistantMetrics *metrics.AssistantMetrics
}

// Services are the domain services exposed over HTTP.
type Services struct {
	Catalog   catalog.Service
	Cart      cart.Service
	Address   address.Service
	Assistant assistant.Service
	Checkout  checkout.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	assistantPolicy := middleware.NewRateLimitPolicy(
		"assistant",
		cfg.RateLimit.AssistantWindow,
		cfg.RateLimit.AssistantIPLimit,
	)
	onAssistantBlocked := func() {
		infra.AssistantMetrics.Inc(metrics.AssistantOutcomeRateLimited)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.DB, infra.Redis))
	})
	if infra.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", infra.Metrics)
	}

	r.With(middleware.RateLimit(assistantPolicy, infra.RateLimiter, logg, onAssistantBlocked)).
		Post("/api/ai", controllers.AssistantAsk(svc.Assistant, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.CatalogListProducts(svc.Catalog, logg))
		r.Get("/products/{productId}", controllers.CatalogGetProduct(svc.Catalog, logg))
		r.Get("/categories", controllers.CatalogListCategories(svc.Catalog, logg))

		r.Route("/address", func(r chi.Router) {
			r.Get("/search", controllers.AddressSearch(svc.Address, logg))
			r.Get("/reverse", controllers.AddressReverse(svc.Address, logg))
		})

		r.Post("/cart", controllers.CartCreate(svc.Cart, cfg.CartToken, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartToken(cfg.CartToken, logg))
			r.Get("/cart", controllers.CartGet(svc.Cart, logg))
			r.Delete("/cart", controllers.CartClear(svc.Cart, logg))
			r.Post("/cart/items", controllers.CartAddItem(svc.Cart, logg))
			r.Patch("/cart/items/{productId}", controllers.CartUpdateItem(svc.Cart, logg))
			r.Delete("/cart/items/{productId}", controllers.CartRemoveItem(svc.Cart, logg))
			r.Put("/cart/address", controllers.CartSetAddress(svc.Cart, logg))
			r.Post("/checkout", controllers.CheckoutCart(svc.Checkout, logg))
		})
		r.Post("/checkout/direct", controllers.CheckoutDirect(svc.Checkout, logg))
	})

	return r
}

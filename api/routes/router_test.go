package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/karangtaruna-pekunden/marketplace/internal/assistant"
	"github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/internal/checkout"
	"github.com/karangtaruna-pekunden/marketplace/pkg/cartoken"
	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
	"github.com/karangtaruna-pekunden/marketplace/pkg/gemini"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type countingLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (c *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[scope]++
	return c.counts[scope] <= limit, c.counts[scope], nil
}

type stubCatalog struct{}

func (stubCatalog) ListProducts(context.Context, catalog.Filter) (*catalog.ProductPage, error) {
	return &catalog.ProductPage{Items: []catalog.Product{}}, nil
}

func (stubCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	return &catalog.Product{ID: id, Name: "Kopi", Price: decimal.NewFromInt(8000)}, nil
}

func (stubCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{}, nil
}

func (stubCatalog) Refresh(context.Context) error { return nil }

type stubCart struct{}

func (stubCart) state(id string) (*cart.State, error) {
	s := cart.NewState(id)
	return &s, nil
}

func (c stubCart) Create(context.Context) (*cart.State, error) { return c.state(uuid.NewString()) }
func (c stubCart) Get(_ context.Context, id string) (*cart.State, error) {
	return c.state(id)
}
func (c stubCart) AddItem(_ context.Context, id, _ string, _ int) (*cart.State, error) {
	return c.state(id)
}
func (c stubCart) UpdateQuantity(_ context.Context, id, _ string, _ int) (*cart.State, error) {
	return c.state(id)
}
func (c stubCart) UpdateNote(_ context.Context, id, _, _ string) (*cart.State, error) {
	return c.state(id)
}
func (c stubCart) RemoveItem(_ context.Context, id, _ string) (*cart.State, error) {
	return c.state(id)
}
func (c stubCart) Clear(_ context.Context, id string) (*cart.State, error) { return c.state(id) }
func (c stubCart) SetAddress(_ context.Context, id string, _ types.Address) (*cart.State, error) {
	return c.state(id)
}
func (c stubCart) Dispatch(_ context.Context, id string, _ cart.Action) (*cart.State, error) {
	return c.state(id)
}

type stubAddress struct{}

func (stubAddress) Search(context.Context, string) ([]types.Address, error) {
	return []types.Address{}, nil
}

func (stubAddress) Reverse(context.Context, float64, float64) (types.Address, error) {
	return types.Address{FullAddress: "Semarang"}, nil
}

type stubAssistant struct{}

func (stubAssistant) Ask(context.Context, string, []gemini.Content) (*assistant.Answer, error) {
	return &assistant.Answer{Reply: "!null"}, nil
}

func (stubAssistant) Quote(context.Context, types.Address) assistant.Quote { return assistant.Quote{} }

type stubCheckout struct{}

func (stubCheckout) Checkout(context.Context, string) (*checkout.Result, error) {
	return &checkout.Result{URL: "https://wa.me/62"}, nil
}

func (stubCheckout) DirectCheckout(context.Context, string, int) (*checkout.Result, error) {
	return &checkout.Result{URL: "https://wa.me/62"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}},
		CartToken: config.CartTokenConfig{Secret: "router-secret", Issuer: "test", TTLHours: 1},
		RateLimit: config.RateLimitConfig{AssistantWindow: time.Minute, AssistantIPLimit: 2},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	handler := NewRouter(cfg, logg, Infra{
		DB:               stubPinger{},
		Redis:            stubPinger{},
		RateLimiter:      &countingLimiter{counts: map[string]int64{}},
		Metrics:          promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AssistantMetrics: metrics.NewAssistantMetrics(reg),
	}, Services{
		Catalog:   stubCatalog{},
		Cart:      stubCart{},
		Address:   stubAddress{},
		Assistant: stubAssistant{},
		Checkout:  stubCheckout{},
	})
	return handler, cfg
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.1.1.1:4000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterPublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products?category=Semua", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products/42", "", http.StatusOK},
		{http.MethodGet, "/api/v1/categories", "", http.StatusOK},
		{http.MethodGet, "/api/v1/address/search?q=pekunden", "", http.StatusOK},
		{http.MethodGet, "/api/v1/address/reverse?lat=-6.9&lng=110.4", "", http.StatusOK},
		{http.MethodPost, "/api/v1/cart", "", http.StatusCreated},
		{http.MethodPost, "/api/v1/checkout/direct", `{"product_id":"42","quantity":1}`, http.StatusOK},
	}
	for _, tc := range cases {
		rec := serve(router, tc.method, tc.path, tc.body, nil)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterCartRoutesRequireToken(t *testing.T) {
	router, cfg := newTestRouter(t)

	if rec := serve(router, http.MethodGet, "/api/v1/cart", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/api/v1/checkout", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on checkout without token, got %d", rec.Code)
	}

	token, err := cartoken.Mint(cfg.CartToken, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	headers := map[string]string{cartoken.Header: token}
	authed := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/cart", ""},
		{http.MethodDelete, "/api/v1/cart", ""},
		{http.MethodPost, "/api/v1/cart/items", `{"product_id":"42","quantity":2}`},
		{http.MethodPatch, "/api/v1/cart/items/42", `{"quantity":3}`},
		{http.MethodDelete, "/api/v1/cart/items/42", ""},
		{http.MethodPut, "/api/v1/cart/address", `{"fullAddress":"Jl. Pekunden"}`},
		{http.MethodPost, "/api/v1/checkout", ""},
	}
	for _, tc := range authed {
		if rec := serve(router, tc.method, tc.path, tc.body, headers); rec.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200, got %d (%s)", tc.method, tc.path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterAssistantRateLimited(t *testing.T) {
	router, _ := newTestRouter(t)

	for i := 0; i < 2; i++ {
		if rec := serve(router, http.MethodPost, "/api/ai", `{"prompt":"halo"}`, nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := serve(router, http.MethodPost, "/api/ai", `{"prompt":"halo"}`, nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the limit, got %d", rec.Code)
	}

	rec := serve(router, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(rec.Body.String(), `ktp_assistant_requests_total{outcome="rate_limited"} 1`) {
		t.Fatalf("expected rate limited counter, got:\n%s", rec.Body.String())
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodOptions, "/api/v1/cart", "", map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  http.MethodGet,
		"Access-Control-Request-Headers": cartoken.Header,
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin, got %q (status %d)", got, rec.Code)
	}
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/pagination"
	"github.com/karangtaruna-pekunden/marketplace/pkg/payloadcms"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redis"
)

type cmsReader interface {
	Find(ctx context.Context, collection string, params payloadcms.FindParams) (*payloadcms.FindResult, error)
	FindByID(ctx context.Context, collection, id string, depth int, out any) error
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(collection string) string
}

// Service exposes the read side of the storefront catalog.
type Service interface {
	ListProducts(ctx context.Context, filter Filter) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Refresh(ctx context.Context) error
}

// Options holds collection names and cache behavior.
type Options struct {
	ProductsCollection string
	CategoryCollection string
	Depth              int
	CacheTTL           time.Duration
	MediaBaseURL       string
}

type service struct {
	cms   cmsReader
	cache cacheStore
	logg  *logger.Logger
	opts  Options
}

// NewService builds the catalog service. cache may be nil, in which case every read hits the CMS.
func NewService(cms cmsReader, cache cacheStore, logg *logger.Logger, opts Options) (Service, error) {
	if cms == nil {
		return nil, fmt.Errorf("cms reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.ProductsCollection == "" {
		opts.ProductsCollection = "products"
	}
	if opts.CategoryCollection == "" {
		opts.CategoryCollection = "productCategories"
	}
	return &service{cms: cms, cache: cache, logg: logg, opts: opts}, nil
}

func (s *service) ListProducts(ctx context.Context, filter Filter) (*ProductPage, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterProducts(products, filter.Category, filter.Query)
	start, end, page := pagination.Window(pagination.Params{Limit: filter.Limit, Offset: filter.Offset}, len(matched))
	return &ProductPage{
		Items:   matched[start:end],
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}

	// Not in the cached listing; it may have been published since the last refresh.
	var doc ProductDoc
	if err := s.cms.FindByID(ctx, s.opts.ProductsCollection, id, s.opts.Depth, &doc); err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	product := MapProduct(doc, s.opts.MediaBaseURL)
	return &product, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if s.readCache(ctx, s.opts.CategoryCollection, &categories) {
		return categories, nil
	}
	categories, err := s.fetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, s.opts.CategoryCollection, categories)
	return categories, nil
}

// Refresh re-reads both collections concurrently and overwrites the cache.
func (s *service) Refresh(ctx context.Context) error {
	var (
		products   []Product
		categories []Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.fetchProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.fetchCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.writeCache(ctx, s.opts.ProductsCollection, products)
	s.writeCache(ctx, s.opts.CategoryCollection, categories)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"products":   len(products),
		"categories": len(categories),
	}), "catalog refreshed")
	return nil
}

func (s *service) products(ctx context.Context) ([]Product, error) {
	var products []Product
	if s.readCache(ctx, s.opts.ProductsCollection, &products) {
		return products, nil
	}
	products, err := s.fetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, s.opts.ProductsCollection, products)
	return products, nil
}

func (s *service) fetchProducts(ctx context.Context) ([]Product, error) {
	result, err := s.cms.Find(ctx, s.opts.ProductsCollection, payloadcms.FindParams{Depth: s.opts.Depth})
	if err != nil {
		return nil, err
	}
	var docs []ProductDoc
	if err := result.Decode(&docs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cms products")
	}
	products := make([]Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, MapProduct(doc, s.opts.MediaBaseURL))
	}
	return products, nil
}

func (s *service) fetchCategories(ctx context.Context) ([]Category, error) {
	result, err := s.cms.Find(ctx, s.opts.CategoryCollection, payloadcms.FindParams{})
	if err != nil {
		return nil, err
	}
	var docs []CategoryDoc
	if err := result.Decode(&docs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cms categories")
	}
	categories := make([]Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, MapCategory(doc))
	}
	return categories, nil
}

func (s *service) readCache(ctx context.Context, collection string, out any) bool {
	if s.cache == nil {
		return false
	}
	key := s.cache.CatalogKey(collection)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache entry undecodable")
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, collection string, value any) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return
	}
	key := s.cache.CatalogKey(collection)
	raw, err := json.Marshal(value)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.opts.CacheTTL); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache write failed")
	}
}

// FilterProducts applies the category chip and search box. An empty category or "Semua"
// matches everything; the query matches name or description case-insensitively.
func FilterProducts(products []Product, category, query string) []Product {
	category = strings.TrimSpace(category)
	query = strings.ToLower(strings.TrimSpace(query))
	allCategories := category == "" || strings.EqualFold(category, AllCategories)

	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if !allCategories && (p.Category == nil || p.Category.Key != category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(deref(p.Description)), query) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

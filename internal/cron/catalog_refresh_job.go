package cron

import (
	"context"
	"fmt"

	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

type catalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshJobParams wires the catalog warmer.
type CatalogRefreshJobParams struct {
	Logger  *logger.Logger
	Catalog catalogRefresher
}

// NewCatalogRefreshJob reloads products and categories from the CMS into the cache.
func NewCatalogRefreshJob(params CatalogRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &catalogRefreshJob{logg: params.Logger, catalog: params.Catalog}, nil
}

type catalogRefreshJob struct {
	logg    *logger.Logger
	catalog catalogRefresher
}

func (j *catalogRefreshJob) Name() string { return "catalog_refresh" }

func (j *catalogRefreshJob) Run(ctx context.Context) error {
	if err := j.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("catalog refresh: %w", err)
	}
	j.logg.Info(ctx, "catalog cache refreshed")
	return nil
}

package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karangtaruna-pekunden/marketplace/pkg/payloadcms"
)

// CategoryDoc is a productCategories document as returned by the CMS.
type CategoryDoc struct {
	ID          payloadcms.ID `json:"id"`
	Key         string        `json:"key"`
	Name        string        `json:"name"`
	Emoji       string        `json:"emoji"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ImageRow is one entry of a product's images array.
type ImageRow struct {
	ID   payloadcms.ID                         `json:"id"`
	Item payloadcms.Relation[payloadcms.Media] `json:"item"`
}

// FeatureRow is one entry of a product's features array.
type FeatureRow struct {
	ID   payloadcms.ID `json:"id"`
	Item string        `json:"item"`
}

// ProductDoc is a products document as returned by the CMS.
type ProductDoc struct {
	ID            payloadcms.ID                    `json:"id"`
	Name          string                           `json:"name"`
	Price         decimal.Decimal                  `json:"price"`
	Discounted    bool                             `json:"discounted"`
	OriginalPrice *decimal.Decimal                 `json:"originalPrice"`
	Excerpt       *string                          `json:"excerpt"`
	Description   *string                          `json:"description"`
	Unit          string                           `json:"unit"`
	Category      payloadcms.Relation[CategoryDoc] `json:"category"`
	Images        []ImageRow                       `json:"images"`
	Features      []FeatureRow                     `json:"features"`
	CreatedAt     time.Time                        `json:"createdAt"`
	UpdatedAt     time.Time                        `json:"updatedAt"`
}

package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllCategories is the storefront's "show everything" chip.
const AllCategories = "Semua"

// UncategorizedName labels products whose category is missing or unpopulated.
const UncategorizedName = "Uncategorized"

// Category is the storefront view of a product category.
type Category struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// Image is a resolved product image.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Product is the storefront view of a CMS product.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	Discounted    bool             `json:"discounted"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Excerpt       string           `json:"excerpt"`
	Description   *string          `json:"description"`
	Unit          string           `json:"unit"`
	Category      *Category        `json:"category,omitempty"`
	Images        []Image          `json:"images"`
	Features      []string         `json:"features"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// CartProduct is the product snapshot stored on a cart line.
type CartProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Images      []Image         `json:"images"`
	Features    []string        `json:"features"`
}

// Filter narrows a product listing.
type Filter struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}

// ProductPage is one window of a filtered listing.
type ProductPage struct {
	Items   []Product `json:"items"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"has_more"`
}

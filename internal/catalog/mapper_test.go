package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

const productJSON = `{
	"id": 42,
	"name": "Nasi Kuning Komplit",
	"price": 15000,
	"discounted": true,
	"originalPrice": 18000,
	"excerpt": "Nasi kuning khas Pekunden",
	"description": "Nasi kuning dengan ayam suwir, telur, dan sambal.",
	"unit": "per porsi",
	"category": {"id": 3, "name": "Makanan", "emoji": "🍛", "description": "Aneka makanan"},
	"images": [{"id": "img-1", "item": {"id": 9, "alt": "Nasi kuning", "url": "/api/media/file/nasi.png"}}],
	"features": [{"id": "f1", "item": "Halal"}, {"id": "f2", "item": "Pedas"}],
	"createdAt": "2026-03-01T08:00:00.000Z",
	"updatedAt": "2026-03-02T08:00:00.000Z"
}`

func TestMapProduct(t *testing.T) {
	var doc ProductDoc
	if err := json.Unmarshal([]byte(productJSON), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}

	p := MapProduct(doc, "https://cms.test")
	if p.ID != "42" {
		t.Fatalf("expected string id, got %q", p.ID)
	}
	if !p.Price.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("unexpected price %s", p.Price)
	}
	if p.OriginalPrice == nil || !p.OriginalPrice.Equal(decimal.NewFromInt(18000)) {
		t.Fatalf("unexpected original price %v", p.OriginalPrice)
	}
	if p.Category == nil || p.Category.Key != "Makanan" {
		t.Fatalf("category key should default to name, got %+v", p.Category)
	}
	if len(p.Images) != 1 || p.Images[0].URL != "https://cms.test/api/media/file/nasi.png" || p.Images[0].ID != "img-1" {
		t.Fatalf("unexpected images %+v", p.Images)
	}
	if len(p.Features) != 2 || p.Features[0] != "Halal" || p.Features[1] != "Pedas" {
		t.Fatalf("unexpected features %v", p.Features)
	}
}

func TestMapProductDropsOriginalPriceWhenNotDiscounted(t *testing.T) {
	price := decimal.NewFromInt(20000)
	p := MapProduct(ProductDoc{ID: "1", Discounted: false, OriginalPrice: &price}, "")
	if p.OriginalPrice != nil {
		t.Fatalf("original price should be hidden when not discounted")
	}
}

func TestToCartProductFallbacks(t *testing.T) {
	var doc ProductDoc
	raw := `{"id": 7, "name": "Es Teh", "price": 4000, "excerpt": "Segar", "unit": "per gelas", "category": 2}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}

	snapshot := ToCartProduct(MapProduct(doc, ""))
	if snapshot.ID != "7" {
		t.Fatalf("unexpected id %q", snapshot.ID)
	}
	if snapshot.Description != "Segar" {
		t.Fatalf("description should fall back to excerpt, got %q", snapshot.Description)
	}
	if snapshot.Category != UncategorizedName {
		t.Fatalf("unpopulated category should be Uncategorized, got %q", snapshot.Category)
	}
	if snapshot.Images == nil || snapshot.Features == nil || len(snapshot.Images) != 0 {
		t.Fatalf("images and features should be empty slices")
	}
}

func TestToCartProductEmptyDescription(t *testing.T) {
	snapshot := ToCartProduct(Product{ID: "1", Name: "Kerupuk"})
	if snapshot.Description != "" {
		t.Fatalf("expected empty description, got %q", snapshot.Description)
	}
}

func TestToCartProductKeepsExplicitEmptyDescription(t *testing.T) {
	var doc ProductDoc
	raw := `{"id": 8, "name": "Kerupuk", "price": 2000, "excerpt": "Renyah", "description": ""}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}

	snapshot := ToCartProduct(MapProduct(doc, ""))
	if snapshot.Description != "" {
		t.Fatalf("empty description must not fall back to excerpt, got %q", snapshot.Description)
	}
}

func TestMapCategoryKeepsExplicitKey(t *testing.T) {
	c := MapCategory(CategoryDoc{ID: "3", Key: "minuman", Name: "Minuman"})
	if c.Key != "minuman" || c.ID != "3" {
		t.Fatalf("unexpected category %+v", c)
	}
}

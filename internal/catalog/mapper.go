package catalog

import "strings"

// MapCategory maps a CMS category, defaulting the key to the name.
func MapCategory(doc CategoryDoc) Category {
	key := strings.TrimSpace(doc.Key)
	if key == "" {
		key = doc.Name
	}
	return Category{
		ID:          doc.ID.String(),
		Key:         key,
		Name:        doc.Name,
		Emoji:       doc.Emoji,
		Description: doc.Description,
	}
}

// MapProduct maps a CMS product. mediaBase resolves relative upload URLs.
func MapProduct(doc ProductDoc, mediaBase string) Product {
	product := Product{
		ID:            doc.ID.String(),
		Name:          doc.Name,
		Price:         doc.Price,
		Discounted:    doc.Discounted,
		OriginalPrice: doc.OriginalPrice,
		Excerpt:       deref(doc.Excerpt),
		Description:   copyString(doc.Description),
		Unit:          doc.Unit,
		Images:        make([]Image, 0, len(doc.Images)),
		Features:      make([]string, 0, len(doc.Features)),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if !doc.Discounted {
		product.OriginalPrice = nil
	}
	if doc.Category.Populated() {
		category := MapCategory(*doc.Category.Value)
		product.Category = &category
	}
	for _, row := range doc.Images {
		product.Images = append(product.Images, mapImage(row, mediaBase))
	}
	for _, row := range doc.Features {
		product.Features = append(product.Features, row.Item)
	}
	return product
}

// ToCartProduct builds the cart snapshot of a product.
func ToCartProduct(p Product) CartProduct {
	// Only a missing description falls back; an explicit empty one is kept.
	description := p.Excerpt
	if p.Description != nil {
		description = *p.Description
	}
	category := UncategorizedName
	if p.Category != nil && strings.TrimSpace(p.Category.Name) != "" {
		category = p.Category.Name
	}
	images := make([]Image, len(p.Images))
	copy(images, p.Images)
	features := make([]string, len(p.Features))
	copy(features, p.Features)

	return CartProduct{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: description,
		Category:    category,
		Unit:        p.Unit,
		Images:      images,
		Features:    features,
	}
}

func mapImage(row ImageRow, mediaBase string) Image {
	img := Image{ID: row.ID.String()}
	if row.Item.Populated() {
		media := *row.Item.Value
		img.URL = media.AbsoluteURL(mediaBase)
		img.Alt = media.Alt
		if img.ID == "" {
			img.ID = media.ID.String()
		}
	}
	return img
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}


package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

// Item is one cart line.
type Item struct {
	Product  catalog.CartProduct `json:"product"`
	Quantity int                 `json:"quantity"`
	Note     string              `json:"note,omitempty"`
}

// Subtotal is price × quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// State is the full cart as seen by the storefront.
type State struct {
	ID           string          `json:"id"`
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"itemCount"`
	Address      *types.Address  `json:"address"`
	MapURL       *string         `json:"mapUrl"`
	ShippingCost *int64          `json:"shippingCost"`
	IsFetching   bool            `json:"isFetching"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewState returns an empty cart. Shipping starts at 0 rather than unknown.
func NewState(id string) State {
	zero := int64(0)
	return State{
		ID:           id,
		Items:        []Item{},
		Total:        decimal.Zero,
		ShippingCost: &zero,
	}
}

// FindItem returns the line for productID.
func (s State) FindItem(productID string) (Item, bool) {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return Item{}, false
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// recompute derives total and item count from the lines.
func (s State) recompute() State {
	total := decimal.Zero
	count := 0
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}
	s.Total = total
	s.ItemCount = count
	return s
}

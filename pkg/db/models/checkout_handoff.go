package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karangtaruna-pekunden/marketplace/pkg/enums"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

// CheckoutHandoff records a WhatsApp order link handed to a buyer.
type CheckoutHandoff struct {
	ID           string            `gorm:"column:id;type:varchar(36);primaryKey"`
	Kind         enums.HandoffKind `gorm:"column:kind;type:varchar(16);not null"`
	CartID       *string           `gorm:"column:cart_id;type:varchar(36);index:idx_checkout_handoffs_cart_id"`
	ItemCount    int               `gorm:"column:item_count;not null"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(14,2);not null"`
	ShippingCost *int64            `gorm:"column:shipping_cost"`
	Address      *types.Address    `gorm:"column:address;type:text"`
	Message      string            `gorm:"column:message;type:text;not null"`
	URL          string            `gorm:"column:url;type:text;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_checkout_handoffs_created_at"`
}

// TableName pins the table created by the goose migration.
func (CheckoutHandoff) TableName() string {
	return "checkout_handoffs"
}

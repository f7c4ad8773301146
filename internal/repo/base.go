package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the connection shared by gorm-backed repositories.
type Base struct {
	db *gorm.DB
}

// NewBase wraps a GORM connection or transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection scoped to ctx. A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}


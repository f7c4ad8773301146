package checkout

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/karangtaruna-pekunden/marketplace/internal/repo"
	"github.com/karangtaruna-pekunden/marketplace/pkg/db"
	"github.com/karangtaruna-pekunden/marketplace/pkg/db/models"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
)

// Repository persists checkout handoffs.
type Repository interface {
	Create(ctx context.Context, handoff *models.CheckoutHandoff) (*models.CheckoutHandoff, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a handoff repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) Create(ctx context.Context, handoff *models.CheckoutHandoff) (*models.CheckoutHandoff, error) {
	if !handoff.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown handoff kind").
			WithDetails(map[string]any{"kind": handoff.Kind.String()})
	}
	if err := r.DB(ctx).Create(handoff).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "handoff already recorded")
		}
		return nil, err
	}
	return handoff, nil
}

// DeleteOlderThan removes handoffs created before cutoff and reports how many went.
func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.DB(ctx).Where("created_at < ?", cutoff).Delete(&models.CheckoutHandoff{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

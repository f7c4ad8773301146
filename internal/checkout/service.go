package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/pkg/db/models"
	"github.com/karangtaruna-pekunden/marketplace/pkg/enums"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/whatsapp"
)

type cartReader interface {
	Get(ctx context.Context, cartID string) (*cart.State, error)
}

type productLoader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type handoffWriter interface {
	Create(ctx context.Context, handoff *models.CheckoutHandoff) (*models.CheckoutHandoff, error)
}

// Result is the prefilled WhatsApp handoff returned to the storefront.
type Result struct {
	ID      string            `json:"id"`
	Kind    enums.HandoffKind `json:"kind"`
	Message string            `json:"message"`
	URL     string            `json:"url"`
}

// Service turns carts and single products into WhatsApp order links.
type Service interface {
	Checkout(ctx context.Context, cartID string) (*Result, error)
	DirectCheckout(ctx context.Context, productID string, quantity int) (*Result, error)
}

// Options carries the store identity used in every message.
type Options struct {
	StoreName string
	Phone     string
}

type service struct {
	carts     cartReader
	products  productLoader
	handoffs  handoffWriter
	logg      *logger.Logger
	storeName string
	phone     string
	now       func() time.Time
}

// NewService builds a checkout service.
func NewService(carts cartReader, products productLoader, handoffs handoffWriter, logg *logger.Logger, opts Options) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if handoffs == nil {
		return nil, fmt.Errorf("handoff repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if whatsapp.NormalizePhone(opts.Phone) == "" {
		return nil, fmt.Errorf("whatsapp number required")
	}
	if strings.TrimSpace(opts.StoreName) == "" {
		return nil, fmt.Errorf("store name required")
	}
	return &service{
		carts:     carts,
		products:  products,
		handoffs:  handoffs,
		logg:      logg,
		storeName: opts.StoreName,
		phone:     opts.Phone,
		now:       time.Now,
	}, nil
}

// Blockers lists why state cannot be checked out yet. Empty means ready.
func Blockers(state cart.State) []enums.CheckoutBlocker {
	blockers := []enums.CheckoutBlocker{}
	if state.IsEmpty() {
		blockers = append(blockers, enums.CheckoutBlockerCartEmpty)
	}
	if state.Address == nil {
		blockers = append(blockers, enums.CheckoutBlockerAddressMissing)
	}
	if state.ShippingCost == nil {
		blockers = append(blockers, enums.CheckoutBlockerShippingUnknown)
	}
	if state.IsFetching {
		blockers = append(blockers, enums.CheckoutBlockerShippingPending)
	}
	return blockers
}

func (s *service) Checkout(ctx context.Context, cartID string) (*Result, error) {
	state, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if blockers := Blockers(*state); len(blockers) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is not ready for checkout").
			WithDetails(map[string]any{"blockers": blockers})
	}

	order := OrderFromCart(*state)
	result, err := s.handoff(ctx, enums.HandoffKindCart, order)
	if err != nil {
		return nil, err
	}

	id := state.ID
	s.record(ctx, result, order, &id)
	return result, nil
}

func (s *service) DirectCheckout(ctx context.Context, productID string, quantity int) (*Result, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	order := OrderFromProduct(catalog.ToCartProduct(*product), quantity)
	result, err := s.handoff(ctx, enums.HandoffKindDirect, order)
	if err != nil {
		return nil, err
	}
	s.record(ctx, result, order, nil)
	return result, nil
}

func (s *service) handoff(ctx context.Context, kind enums.HandoffKind, order Order) (*Result, error) {
	message := ComposeMessage(s.storeName, order)
	url, err := whatsapp.BuildURL(message, s.phone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build whatsapp link")
	}
	return &Result{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		URL:     url,
	}, nil
}

// record stores the handoff. A failed write is logged; the buyer still gets the link.
func (s *service) record(ctx context.Context, result *Result, order Order, cartID *string) {
	row := &models.CheckoutHandoff{
		ID:           result.ID,
		Kind:         result.Kind,
		CartID:       cartID,
		ItemCount:    order.ItemCount(),
		Total:        order.Total,
		ShippingCost: order.ShippingCost,
		Address:      order.Address,
		Message:      result.Message,
		URL:          result.URL,
		CreatedAt:    s.now().UTC(),
	}
	if _, err := s.handoffs.Create(ctx, row); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"handoff_id": result.ID,
			"kind":       result.Kind.String(),
		})
		s.logg.Error(logCtx, "failed to record checkout handoff", err)
	}
}

package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/karangtaruna-pekunden/marketplace/internal/assistant"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redislock"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

type stateStore interface {
	Load(ctx context.Context, cartID string) (*State, error)
	Save(ctx context.Context, state State) error
}

type locker interface {
	Lock(ctx context.Context, key string) (*redislock.Lease, error)
}

type productLoader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type shippingQuoter interface {
	Quote(ctx context.Context, address types.Address) assistant.Quote
}

// Service exposes cart operations keyed by cart id.
type Service interface {
	Create(ctx context.Context) (*State, error)
	Get(ctx context.Context, cartID string) (*State, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*State, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*State, error)
	UpdateNote(ctx context.Context, cartID, productID, note string) (*State, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*State, error)
	Clear(ctx context.Context, cartID string) (*State, error)
	SetAddress(ctx context.Context, cartID string, address types.Address) (*State, error)
	Dispatch(ctx context.Context, cartID string, action Action) (*State, error)
}

// Deps groups the collaborators of the cart service.
type Deps struct {
	Store    stateStore
	Locker   locker
	LockKey  func(cartID string) string
	Products productLoader
	Quoter   shippingQuoter
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	store    stateStore
	locker   locker
	lockKey  func(string) string
	products productLoader
	quoter   shippingQuoter
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Locker == nil || deps.LockKey == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if deps.Quoter == nil {
		return nil, fmt.Errorf("shipping quoter required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:    deps.Store,
		locker:   deps.Locker,
		lockKey:  deps.LockKey,
		products: deps.Products,
		quoter:   deps.Quoter,
		logg:     deps.Logger,
		now:      now,
	}, nil
}

func (s *service) Create(ctx context.Context) (*State, error) {
	state := NewState(uuid.NewString())
	state.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *service) Get(ctx context.Context, cartID string) (*State, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, cartID)
}

func (s *service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*State, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	snapshot := catalog.ToCartProduct(*product)
	return s.Dispatch(ctx, cartID, AddItem{Product: snapshot, Quantity: quantity})
}

func (s *service) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*State, error) {
	return s.mutate(ctx, cartID, func(state State) (State, error) {
		if _, ok := state.FindItem(productID); !ok {
			return state, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return Reduce(state, UpdateQuantity{ProductID: productID, Quantity: quantity}), nil
	})
}

func (s *service) UpdateNote(ctx context.Context, cartID, productID, note string) (*State, error) {
	return s.mutate(ctx, cartID, func(state State) (State, error) {
		if _, ok := state.FindItem(productID); !ok {
			return state, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return Reduce(state, UpdateNote{ProductID: productID, Note: strings.TrimSpace(note)}), nil
	})
}

func (s *service) RemoveItem(ctx context.Context, cartID, productID string) (*State, error) {
	return s.Dispatch(ctx, cartID, RemoveItem{ProductID: productID})
}

func (s *service) Clear(ctx context.Context, cartID string) (*State, error) {
	return s.Dispatch(ctx, cartID, Clear{})
}

// SetAddress stores the address and quotes shipping for it. The quote runs without the
// cart lock and is applied only if the address was not replaced in the meantime. The
// apply step outlives the caller's context so a dropped request cannot leave the cart
// stuck in the fetching state.
func (s *service) SetAddress(ctx context.Context, cartID string, address types.Address) (*State, error) {
	if address.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	var stored types.Address
	if _, err := s.mutate(ctx, cartID, func(state State) (State, error) {
		next := Reduce(state, SetAddress{Address: address})
		stored = *next.Address
		next = Reduce(next, SetMapURL{URL: nil})
		next = Reduce(next, SetShippingCost{Cost: nil})
		return Reduce(next, SetFetching{Fetching: true}), nil
	}); err != nil {
		return nil, err
	}

	quote := s.quoter.Quote(ctx, stored)

	applyCtx := context.WithoutCancel(ctx)
	state, err := s.mutate(applyCtx, cartID, func(state State) (State, error) {
		if !quotedAddress(state, stored) {
			s.logg.Info(s.logg.WithCartID(ctx, cartID), "discarding stale shipping quote")
			return state, nil
		}
		next := Reduce(state, SetMapURL{URL: quote.MapURL})
		next = Reduce(next, SetShippingCost{Cost: quote.ShippingCost})
		return Reduce(next, SetFetching{Fetching: false}), nil
	})
	if err == nil {
		return state, nil
	}

	logCtx := s.logg.WithCartID(ctx, cartID)
	s.logg.Error(logCtx, "apply shipping quote failed", err)
	if _, resetErr := s.mutate(applyCtx, cartID, func(state State) (State, error) {
		if !quotedAddress(state, stored) {
			return state, nil
		}
		next := Reduce(state, SetShippingCost{Cost: nil})
		return Reduce(next, SetFetching{Fetching: false}), nil
	}); resetErr != nil {
		s.logg.Error(logCtx, "reset fetching flag failed", resetErr)
	}
	return nil, err
}

func quotedAddress(state State, quoted types.Address) bool {
	return state.Address != nil && state.Address.Equal(quoted)
}

func (s *service) Dispatch(ctx context.Context, cartID string, action Action) (*State, error) {
	return s.mutate(ctx, cartID, func(state State) (State, error) {
		return Reduce(state, action), nil
	})
}

// mutate runs load → fn → save under the per-cart lock.
func (s *service) mutate(ctx context.Context, cartID string, fn func(State) (State, error)) (*State, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}

	lease, err := s.locker.Lock(ctx, s.lockKey(cartID))
	if err != nil {
		if errors.Is(err, redislock.ErrNotAcquired) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is busy, retry shortly")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
	}
	defer func() {
		if relErr := lease.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Warn(s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{"error": relErr.Error()}), "cart lock release failed")
		}
	}()

	state, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	next, err := fn(*state)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func validateCartID(cartID string) error {
	if _, err := uuid.Parse(strings.TrimSpace(cartID)); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart id")
	}
	return nil
}

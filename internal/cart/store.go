package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(cartID string) string
}

// Store persists cart state as JSON documents in redis.
type Store struct {
	kv  kvStore
	ttl time.Duration
}

// NewStore builds a Store whose entries expire ttl after their last write.
func NewStore(kv kvStore, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart state ttl must be positive")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Load returns the stored state with totals recomputed from the lines.
func (s *Store) Load(ctx context.Context, cartID string) (*State, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(cartID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	if state.Items == nil {
		state.Items = []Item{}
	}
	state = state.recompute()
	return &state, nil
}

// Save writes the state and slides its TTL.
func (s *Store) Save(ctx context.Context, state State) error {
	if state.ID == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "cart id missing")
	}
	raw, err := json.Marshal(state.recompute())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(state.ID), string(raw), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

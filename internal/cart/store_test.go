package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) CartKey(cartID string) string { return "ktp:cart:" + cartID }

func TestStoreSaveLoad(t *testing.T) {
	t.Parallel()
	kv := newFakeKV()
	store, err := NewStore(kv, time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	state := Reduce(NewState("c1"), AddItem{Product: product("1", 2500), Quantity: 4})
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.ttls["ktp:cart:c1"] != time.Hour {
		t.Fatalf("expected sliding ttl on save")
	}

	loaded, err := store.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Total.Equal(decimal.NewFromInt(10000)) || loaded.ItemCount != 4 {
		t.Fatalf("unexpected loaded totals %s/%d", loaded.Total, loaded.ItemCount)
	}
	if loaded.ShippingCost == nil || *loaded.ShippingCost != 0 {
		t.Fatalf("shipping cost lost in round trip")
	}
}

func TestStoreLoadRecomputesTotals(t *testing.T) {
	t.Parallel()
	kv := newFakeKV()
	kv.values["ktp:cart:c2"] = `{"id":"c2","items":[{"product":{"id":"1","price":"3000"},"quantity":2}],"total":"999999","itemCount":42}`
	store, _ := NewStore(kv, time.Hour)

	loaded, err := store.Load(context.Background(), "c2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Total.Equal(decimal.NewFromInt(6000)) || loaded.ItemCount != 2 {
		t.Fatalf("stored totals must be ignored, got %s/%d", loaded.Total, loaded.ItemCount)
	}
}

func TestStoreLoadErrors(t *testing.T) {
	t.Parallel()
	kv := newFakeKV()
	store, _ := NewStore(kv, time.Hour)

	if _, err := store.Load(context.Background(), "missing"); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	kv.getErr = errors.New("connection reset")
	if _, err := store.Load(context.Background(), "c1"); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewStoreValidates(t *testing.T) {
	t.Parallel()
	if _, err := NewStore(nil, time.Hour); err == nil {
		t.Fatalf("expected error for nil kv")
	}
	if _, err := NewStore(newFakeKV(), 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

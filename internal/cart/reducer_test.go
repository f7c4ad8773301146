package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

func product(id string, price int64) catalog.CartProduct {
	return catalog.CartProduct{
		ID:       id,
		Name:     "Produk " + id,
		Price:    decimal.NewFromInt(price),
		Category: "Makanan",
		Unit:     "per porsi",
	}
}

func TestAddItemMergesByProductID(t *testing.T) {
	t.Parallel()

	state := NewState("c1")
	state = Reduce(state, AddItem{Product: product("1", 15000), Quantity: 1})
	state = Reduce(state, AddItem{Product: product("1", 15000), Quantity: 2})

	if len(state.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 3 || state.ItemCount != 3 {
		t.Fatalf("expected quantity 3, got %+v", state.Items[0])
	}
	if !state.Total.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("unexpected total %s", state.Total)
	}
}

func TestAddItemClampsQuantity(t *testing.T) {
	t.Parallel()

	state := Reduce(NewState("c1"), AddItem{Product: product("1", 1000), Quantity: 0})
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", state.Items[0].Quantity)
	}
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	t.Parallel()

	state := Reduce(NewState("c1"), AddItem{Product: product("1", 1000), Quantity: 1})
	state = Reduce(state, AddItem{Product: product("2", 2000), Quantity: 1})
	state = Reduce(state, UpdateQuantity{ProductID: "1", Quantity: 0})

	if len(state.Items) != 1 || state.Items[0].Product.ID != "2" {
		t.Fatalf("expected only product 2 to remain, got %+v", state.Items)
	}
	if !state.Total.Equal(decimal.NewFromInt(2000)) || state.ItemCount != 1 {
		t.Fatalf("derived fields not recomputed: total=%s count=%d", state.Total, state.ItemCount)
	}
}

func TestTotalTracksItems(t *testing.T) {
	t.Parallel()

	state := NewState("c1")
	actions := []Action{
		AddItem{Product: product("1", 15000), Quantity: 2},
		AddItem{Product: product("2", 4000), Quantity: 3},
		UpdateQuantity{ProductID: "2", Quantity: 5},
		UpdateNote{ProductID: "1", Note: "pedas"},
		RemoveItem{ProductID: "missing"},
	}
	for _, a := range actions {
		state = Reduce(state, a)
		sum := decimal.Zero
		count := 0
		for _, item := range state.Items {
			sum = sum.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			count += item.Quantity
		}
		if !state.Total.Equal(sum) || state.ItemCount != count {
			t.Fatalf("after %s: total=%s count=%d, want %s/%d", a.Type(), state.Total, state.ItemCount, sum, count)
		}
	}
	if state.Items[0].Note != "pedas" {
		t.Fatalf("note not applied")
	}
}

func TestClearResetsEverything(t *testing.T) {
	t.Parallel()

	url := "https://maps.test/embed"
	cost := int64(5000)
	state := Reduce(NewState("c1"), AddItem{Product: product("1", 1000), Quantity: 2})
	state = Reduce(state, SetAddress{Address: types.Address{Street: "Jl. A", City: "Semarang"}})
	state = Reduce(state, SetMapURL{URL: &url})
	state = Reduce(state, SetShippingCost{Cost: &cost})
	state = Reduce(state, SetFetching{Fetching: true})

	state = Reduce(state, Clear{})
	if len(state.Items) != 0 || state.ItemCount != 0 || !state.Total.IsZero() {
		t.Fatalf("items not cleared: %+v", state)
	}
	if state.Address != nil || state.MapURL != nil || state.ShippingCost != nil || state.IsFetching {
		t.Fatalf("derived fields not reset: %+v", state)
	}
	if state.ID != "c1" {
		t.Fatalf("clear must keep the cart id")
	}
}

func TestNewStateStartsWithZeroShipping(t *testing.T) {
	t.Parallel()

	state := NewState("c1")
	if state.ShippingCost == nil || *state.ShippingCost != 0 {
		t.Fatalf("expected initial shipping 0, got %v", state.ShippingCost)
	}
	if state.Address != nil || state.MapURL != nil || state.IsFetching {
		t.Fatalf("unexpected initial state %+v", state)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	before := Reduce(NewState("c1"), AddItem{Product: product("1", 1000), Quantity: 1})
	before = Reduce(before, AddItem{Product: product("2", 1000), Quantity: 1})

	after := Reduce(before, UpdateQuantity{ProductID: "1", Quantity: 9})
	_ = Reduce(before, RemoveItem{ProductID: "1"})

	if before.Items[0].Quantity != 1 || len(before.Items) != 2 {
		t.Fatalf("input state mutated: %+v", before.Items)
	}
	if after.Items[0].Quantity != 9 {
		t.Fatalf("unexpected next state %+v", after.Items)
	}
}

type unknownAction struct{}

func (unknownAction) Type() ActionType { return "SOMETHING_ELSE" }

func TestUnknownActionIsNoop(t *testing.T) {
	t.Parallel()

	state := Reduce(NewState("c1"), AddItem{Product: product("1", 1000), Quantity: 1})
	next := Reduce(state, unknownAction{})
	if len(next.Items) != 1 || !next.Total.Equal(state.Total) {
		t.Fatalf("unknown action changed state: %+v", next)
	}
	next.Items[0].Quantity = 99
	if state.Items[0].Quantity != 1 {
		t.Fatalf("unknown action result shares its items slice with the input")
	}
}

func TestSetMapURLAndShippingAcceptNull(t *testing.T) {
	t.Parallel()

	url := "https://maps.test/embed"
	state := Reduce(NewState("c1"), SetMapURL{URL: &url})
	state = Reduce(state, SetShippingCost{Cost: nil})
	if state.MapURL == nil || *state.MapURL != url {
		t.Fatalf("map url not set")
	}
	if state.ShippingCost != nil {
		t.Fatalf("expected unknown shipping")
	}
	state = Reduce(state, SetMapURL{URL: nil})
	if state.MapURL != nil {
		t.Fatalf("expected map url cleared")
	}
}

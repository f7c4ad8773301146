package cart

// Reduce applies action to state and returns the next state. The input is never
// mutated and the returned state always owns a fresh items slice.
func Reduce(state State, action Action) State {
	next := state
	next.Items = cloneItems(state.Items)

	switch a := action.(type) {
	case AddItem:
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		merged := false
		for i := range next.Items {
			if next.Items[i].Product.ID == a.Product.ID {
				next.Items[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			next.Items = append(next.Items, Item{Product: a.Product, Quantity: qty})
		}

	case RemoveItem:
		next.Items = removeItem(next.Items, a.ProductID)

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(state, RemoveItem{ProductID: a.ProductID})
		}
		for i := range next.Items {
			if next.Items[i].Product.ID == a.ProductID {
				next.Items[i].Quantity = a.Quantity
			}
		}

	case UpdateNote:
		for i := range next.Items {
			if next.Items[i].Product.ID == a.ProductID {
				next.Items[i].Note = a.Note
			}
		}

	case Clear:
		next.Items = []Item{}
		next.Address = nil
		next.MapURL = nil
		next.ShippingCost = nil
		next.IsFetching = false

	case SetAddress:
		addr := a.Address
		if addr.Coordinates != nil {
			coords := *addr.Coordinates
			addr.Coordinates = &coords
		}
		next.Address = &addr

	case SetMapURL:
		next.MapURL = copyPtr(a.URL)

	case SetShippingCost:
		next.ShippingCost = copyPtr(a.Cost)

	case SetFetching:
		next.IsFetching = a.Fetching

	default:
		return next
	}

	return next.recompute()
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func removeItem(items []Item, productID string) []Item {
	out := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

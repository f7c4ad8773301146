package cart

import (
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

// ActionType names a cart transition.
type ActionType string

const (
	ActionAddItem         ActionType = "ADD_ITEM"
	ActionRemoveItem      ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity  ActionType = "UPDATE_QUANTITY"
	ActionUpdateNote      ActionType = "UPDATE_NOTE"
	ActionClear           ActionType = "CLEAR_CART"
	ActionSetAddress      ActionType = "SET_ADDRESS"
	ActionSetMapURL       ActionType = "SET_MAP_URL"
	ActionSetShippingCost ActionType = "SET_ONGKIR"
	ActionSetFetching     ActionType = "SET_FETCHING"
)

// Action is anything Reduce can be asked to apply.
type Action interface {
	Type() ActionType
}

type AddItem struct {
	Product  catalog.CartProduct
	Quantity int
}

type RemoveItem struct {
	ProductID string
}

type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type UpdateNote struct {
	ProductID string
	Note      string
}

type Clear struct{}

type SetAddress struct {
	Address types.Address
}

// SetMapURL with a nil URL clears the embedded map.
type SetMapURL struct {
	URL *string
}

// SetShippingCost with a nil cost marks shipping as unknown.
type SetShippingCost struct {
	Cost *int64
}

type SetFetching struct {
	Fetching bool
}

func (AddItem) Type() ActionType         { return ActionAddItem }
func (RemoveItem) Type() ActionType      { return ActionRemoveItem }
func (UpdateQuantity) Type() ActionType  { return ActionUpdateQuantity }
func (UpdateNote) Type() ActionType      { return ActionUpdateNote }
func (Clear) Type() ActionType           { return ActionClear }
func (SetAddress) Type() ActionType      { return ActionSetAddress }
func (SetMapURL) Type() ActionType       { return ActionSetMapURL }
func (SetShippingCost) Type() ActionType { return ActionSetShippingCost }
func (SetFetching) Type() ActionType     { return ActionSetFetching }

package enums

// CheckoutBlocker names a reason a cart cannot be handed off to WhatsApp yet.
type CheckoutBlocker string

const (
	CheckoutBlockerCartEmpty       CheckoutBlocker = "cart_empty"
	CheckoutBlockerAddressMissing  CheckoutBlocker = "address_missing"
	CheckoutBlockerShippingUnknown CheckoutBlocker = "shipping_unknown"
	CheckoutBlockerShippingPending CheckoutBlocker = "shipping_pending"
)

func (b CheckoutBlocker) String() string {
	return string(b)
}

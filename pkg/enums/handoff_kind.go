package enums

// HandoffKind describes the allowed values for the `kind` column in checkout_handoffs.
type HandoffKind string

const (
	HandoffKindCart   HandoffKind = "cart"
	HandoffKindDirect HandoffKind = "direct"
)

var validHandoffKinds = []HandoffKind{
	HandoffKindCart,
	HandoffKindDirect,
}

// String implements fmt.Stringer.
func (k HandoffKind) String() string {
	return string(k)
}

// IsValid reports whether the value matches a known handoff kind.
func (k HandoffKind) IsValid() bool {
	for _, candidate := range validHandoffKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

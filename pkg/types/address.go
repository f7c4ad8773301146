package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address is a delivery address as selected by the buyer.
type Address struct {
	Street      string       `json:"street,omitempty"`
	City        string       `json:"city,omitempty"`
	District    string       `json:"district,omitempty"`
	PostalCode  string       `json:"postalCode,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	FullAddress string       `json:"fullAddress,omitempty"`
	Detail      string       `json:"detail"`
}

// Label returns the full address, or a comma-joined street/district/city/postal line when the
// geocoder did not supply one.
func (a Address) Label() string {
	if full := strings.TrimSpace(a.FullAddress); full != "" {
		return full
	}
	return joinNonEmpty(", ", a.Street, a.District, a.City, a.PostalCode)
}

// Routing returns the "street, district, city" form used for distance lookups.
func (a Address) Routing() string {
	line := joinNonEmpty(", ", a.Street, a.District, a.City)
	if line == "" {
		return strings.TrimSpace(a.FullAddress)
	}
	return line
}

// IsZero reports whether nothing identifying was provided.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.District) == "" &&
		strings.TrimSpace(a.FullAddress) == "" &&
		a.Coordinates == nil
}

// Equal compares two addresses field by field.
func (a Address) Equal(other Address) bool {
	if a.Street != other.Street || a.City != other.City || a.District != other.District ||
		a.PostalCode != other.PostalCode || a.FullAddress != other.FullAddress || a.Detail != other.Detail {
		return false
	}
	switch {
	case a.Coordinates == nil && other.Coordinates == nil:
		return true
	case a.Coordinates == nil || other.Coordinates == nil:
		return false
	default:
		return *a.Coordinates == *other.Coordinates
	}
}

// Value stores the address as a JSON document.
func (a Address) Value() (driver.Value, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: marshal %w", err)
	}
	return string(raw), nil
}

// Scan decodes a JSON document column.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
	if strings.TrimSpace(raw) == "" {
		*a = Address{}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), a); err != nil {
		return fmt.Errorf("address: decode %w", err)
	}
	return nil
}

func toString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, sep)
}

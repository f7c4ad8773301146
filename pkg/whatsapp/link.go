package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

var errPhoneRequired = errors.New("whatsapp number is required")

// BuildURL returns a click-to-chat link with the message prefilled.
func BuildURL(message, phone string) (string, error) {
	digits := NormalizePhone(phone)
	if digits == "" {
		return "", errPhoneRequired
	}
	return baseURL + digits + "?text=" + EncodeURIComponent(message), nil
}

// NormalizePhone keeps only the digits of an international phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncodeURIComponent escapes s the way browsers do for a URI component. Unlike
// url.QueryEscape it leaves !'()* alone and encodes spaces as %20.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	replacer := strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	)
	return replacer.Replace(escaped)
}

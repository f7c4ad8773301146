// Package rupiah formats Indonesian Rupiah amounts the way the storefront displays them.
package rupiah

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Number renders an amount with Indonesian digit grouping, e.g. 15000 -> "15.000".
func Number(amount decimal.Decimal) string {
	if amount.IsInteger() {
		return printer.Sprint(number.Decimal(amount.IntPart()))
	}
	return printer.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(3)))
}

// Format renders "Rp 15.000".
func Format(amount decimal.Decimal) string {
	return "Rp " + Number(amount)
}

// FormatInt is Format for whole-rupiah amounts such as shipping fees.
func FormatInt(amount int64) string {
	return Format(decimal.NewFromInt(amount))
}

// FormatIntPlain renders a whole amount with grouping only, e.g. "5.000".
func FormatIntPlain(amount int64) string {
	return Number(decimal.NewFromInt(amount))
}

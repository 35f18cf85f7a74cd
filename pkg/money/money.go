// Package money formats storefront prices.
package money

import "github.com/shopspring/decimal"

// Symbol prefixes every formatted amount; the storefront sells in one currency.
const Symbol = "$"

// MaxScale is the most fractional digits a unit price may carry. Format still
// rounds to two places.
const MaxScale = 4

// MaxUnitPrice caps a single unit price.
var MaxUnitPrice = decimal.NewFromInt(1_000_000)

const maxExponent = 6

// Format renders amount with the currency symbol and exactly two decimal places,
// rounding half away from zero.
func Format(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + Symbol + amount.Neg().StringFixed(2)
	}
	return Symbol + amount.StringFixed(2)
}

// IsUnitPrice reports whether amount is a positive price no larger than
// MaxUnitPrice with at most MaxScale fractional digits. The exponent is checked
// before any comparison so values like 1e1000000 are never expanded.
func IsUnitPrice(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp < -MaxScale || exp > maxExponent {
		return false
	}
	return amount.IsPositive() && amount.LessThanOrEqual(MaxUnitPrice)
}

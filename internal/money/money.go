package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal currency value. Intermediate results keep full
// precision; rounding to cents happens only at the display boundary.
type Amount = decimal.Decimal

// Zero returns the zero amount.
func Zero() Amount {
	return decimal.Zero
}

// FromString parses a decimal amount from its string form.
func FromString(value string) (Amount, error) {
	return decimal.NewFromString(value)
}

// MustParse parses a decimal amount and panics on malformed input.
// Useful for seed data and tests.
func MustParse(value string) Amount {
	return decimal.RequireFromString(value)
}

// Line multiplies a unit price by an integer quantity.
func Line(unit Amount, qty int) Amount {
	if qty <= 0 {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// Percent returns pct percent of base, e.g. Percent(284.47, 10) = 28.447.
func Percent(base, pct Amount) Amount {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}

// Round2 rounds an amount to two decimal places for display.
func Round2(a Amount) Amount {
	return a.Round(2)
}

// Format renders an amount as a dollar string rounded to cents.
func Format(a Amount) string {
	return "$" + a.StringFixed(2)
}

// ClampZero floors an amount at zero.
func ClampZero(a Amount) Amount {
	if a.IsNegative() {
		return decimal.Zero
	}
	return a
}

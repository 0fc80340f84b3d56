// Package money provides exact rounding and formatting for monetary
// amounts. Engine math runs on float64; every figure that leaves the
// engine (plans, allocations, alert messages) is passed through here
// so rounding is decimal, not binary.
package money

import "github.com/shopspring/decimal"

// Round returns v rounded half away from zero to two decimal places.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Format renders v with exactly two decimal places, e.g. "1125.61".
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Equal reports whether two amounts are the same after rounding to
// two decimal places.
func Equal(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}

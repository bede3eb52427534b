// Package core implements the pure derivation layer of the spending
// dashboard: date-range resolution, category aggregation, transaction
// querying, trend slicing and summary building over an immutable dataset.
//
// Monetary amounts are decimals with minor-unit precision of 2. All rounding
// in this package is half-up (ties round away from zero), performed through
// cents arithmetic so that aggregate totals stay exact to the cent.
package core

import "math"

// Cents converts a decimal amount to integer cents, rounding half-up.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Round2 rounds to 2 decimal places, half-up.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place, half-up.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Negative zero is normalized to zero so rendered schedules never show -0.00.
func Round(val float64) float64 {
	r := math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
	if r == 0 {
		return 0
	}
	return r
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether a value is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsInf(val, 0) && !math.IsNaN(val)
}

// PercentToFraction converts a percentage such as 6.5 into 0.065.
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// FractionToPercent converts a fraction such as 0.065 into 6.5.
func FractionToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}

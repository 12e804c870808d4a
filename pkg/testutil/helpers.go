// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
)

// AssertCents fails the test when got and want differ by more than half a
// cent.
func AssertCents(t testing.TB, label string, got, want float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, constants.CurrencyTolerance/2) {
		t.Errorf("%s = %.2f, expected %.2f", label, got, want)
	}
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s = %v, expected %v (tolerance %g)", label, got, want, tolerance)
	}
}

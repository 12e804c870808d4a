package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "$0.00"},
		{"Cents", 0.5, "$0.50"},
		{"Thousands", 1234.56, "$1,234.56"},
		{"Millions", 1234567.891, "$1,234,567.89"},
		{"Negative", -599.55, "-$599.55"},
		{"Negative rounds to zero", -0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-1234.5); got != "-1,234.50" {
		t.Errorf("NumericCurrency(-1234.5) = %q, expected %q", got, "-1,234.50")
	}
	if got := NumericCurrency(100000); got != "100,000.00" {
		t.Errorf("NumericCurrency(100000) = %q, expected %q", got, "100,000.00")
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.0616778, 3); got != "6.168%" {
		t.Errorf("Percent() = %q, expected %q", got, "6.168%")
	}
	if got := Percent(0.05, 0); got != "5%" {
		t.Errorf("Percent() = %q, expected %q", got, "5%")
	}
}

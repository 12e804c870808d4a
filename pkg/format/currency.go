// Package format renders currency amounts and rates for display.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if mathutil.Round(amount) < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", mathutil.Round(amount))
}

// Percent renders a rate fraction as a percentage with the given number of
// decimals (e.g., 0.0616778 with 3 decimals is "6.168%").
func Percent(fraction float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df%%%%", decimals), mathutil.FractionToPercent(fraction))
}

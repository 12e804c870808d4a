package validation

import (
	"fmt"

	"github.com/iwvelando/finance-calculator/pkg/schedule"
)

// LoanWarnings returns non-fatal observations about a loan definition.
func LoanWarnings(name string, params schedule.LoanParams) []string {
	var warnings []string

	if params.TermYears == 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has a term of zero years - schedule will only contain the opening balance", name))
	}
	if params.Amount == 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has a zero amount", name))
	}
	if params.NominalRate == 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has a zero interest rate - payments will be split evenly with no interest", name))
	}
	if params.NominalRate < 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has a negative interest rate (%.2f%%)", name, params.NominalRate*100))
	}

	return warnings
}

// InvestmentWarnings returns non-fatal observations about an investment
// definition.
func InvestmentWarnings(name string, params schedule.InvestmentParams, realRate float64) []string {
	var warnings []string

	if params.TermYears == 0 {
		warnings = append(warnings, fmt.Sprintf("Investment '%s' has a term of zero years - no periods will be produced", name))
	}
	if params.Principal == 0 && params.AnnuityPayment == 0 {
		warnings = append(warnings, fmt.Sprintf("Investment '%s' has neither a principal nor recurring payments", name))
	}
	if realRate < 0 {
		warnings = append(warnings, fmt.Sprintf("Investment '%s' loses purchasing power - inflation (%.2f%%) exceeds the effective return",
			name, params.InflationRate*100))
	}

	return warnings
}

// DuplicateNames reports names that appear more than once in the given kind
// of entry.
func DuplicateNames(kind string, names []string) []string {
	var warnings []string
	seen := make(map[string]int, len(names))
	for _, name := range names {
		seen[name]++
		if seen[name] == 2 {
			warnings = append(warnings, fmt.Sprintf("%s name '%s' is used more than once", kind, name))
		}
	}
	return warnings
}

package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculator/pkg/schedule"
)

func TestLoanWarnings(t *testing.T) {
	tests := []struct {
		name     string
		params   schedule.LoanParams
		expected []string
	}{
		{
			name:   "Healthy loan",
			params: schedule.LoanParams{Amount: 1000, NominalRate: 0.05, TermYears: 5},
		},
		{
			name:     "Zero term",
			params:   schedule.LoanParams{Amount: 1000, NominalRate: 0.05},
			expected: []string{"term of zero years"},
		},
		{
			name:     "Zero rate",
			params:   schedule.LoanParams{Amount: 1000, TermYears: 5},
			expected: []string{"zero interest rate"},
		},
		{
			name:     "Negative rate and zero amount",
			params:   schedule.LoanParams{NominalRate: -0.01, TermYears: 5},
			expected: []string{"zero amount", "negative interest rate (-1.00%)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := LoanWarnings("car", tt.params)
			if len(warnings) != len(tt.expected) {
				t.Fatalf("LoanWarnings() = %v, expected %d warnings", warnings, len(tt.expected))
			}
			for i, fragment := range tt.expected {
				if !strings.Contains(warnings[i], fragment) {
					t.Errorf("warning %q does not contain %q", warnings[i], fragment)
				}
			}
		})
	}
}

func TestInvestmentWarnings(t *testing.T) {
	params := schedule.InvestmentParams{InflationRate: 0.08, TermYears: 0}
	warnings := InvestmentWarnings("savings", params, -0.03)
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[2], "inflation (8.00%)") {
		t.Errorf("unexpected purchasing power warning %q", warnings[2])
	}

	healthy := schedule.InvestmentParams{Principal: 1000, TermYears: 10}
	if got := InvestmentWarnings("savings", healthy, 0.03); len(got) != 0 {
		t.Errorf("expected no warnings, got %v", got)
	}
}

func TestDuplicateNames(t *testing.T) {
	warnings := DuplicateNames("Loan", []string{"a", "b", "a", "a", "c", "b"})
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if warnings[0] != "Loan name 'a' is used more than once" {
		t.Errorf("unexpected warning %q", warnings[0])
	}
}

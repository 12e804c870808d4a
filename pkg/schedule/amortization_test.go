package schedule

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thirtyYearMortgage(compounding rates.CompoundingFrequency) LoanParams {
	return LoanParams{
		Amount:           100000,
		NominalRate:      0.06,
		Compounding:      compounding,
		TermYears:        30,
		PaymentFrequency: PaymentMonthly,
	}
}

func TestBuildAmortizationMonthlyCompounding(t *testing.T) {
	params := thirtyYearMortgage(rates.Monthly)
	assert.InDelta(t, 0.005, params.PeriodicRate(), 1e-12)

	schedule := BuildAmortization(params)
	require.Len(t, schedule, 361)

	first := schedule[1]
	assert.Equal(t, 599.55, first.Payment)
	assert.Equal(t, 500.00, first.Interest)
	assert.Equal(t, 99.55, first.Principal)
	assert.Equal(t, 99900.45, first.OutstandingBalance)

	assert.InDelta(t, 0, schedule[360].OutstandingBalance, 0.01)
}

func TestBuildAmortizationAnnualCompoundingMonthlyPayments(t *testing.T) {
	params := thirtyYearMortgage(rates.Annual)
	assert.InDelta(t, 0.004868, params.PeriodicRate(), 1e-6)

	schedule := BuildAmortization(params)
	require.Len(t, schedule, 361)

	assert.Equal(t, 589.37, schedule[1].Payment)
	assert.Equal(t, 486.76, schedule[1].Interest)
	assert.Equal(t, 102.62, schedule[1].Principal)
	assert.InDelta(t, 0, schedule.FinalBalance(), 0.01)
}

func TestBuildAmortizationPeriodZero(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	params := thirtyYearMortgage(rates.Monthly)
	params.StartDate = &start

	schedule := BuildAmortization(params)
	zero := schedule[0]

	assert.Equal(t, 0, zero.Period)
	assert.Equal(t, 0.0, zero.Payment)
	assert.Equal(t, 0.0, zero.Principal)
	assert.Equal(t, 0.0, zero.Interest)
	assert.Equal(t, 100000.0, zero.OutstandingBalance)
	require.NotNil(t, zero.Date)
	assert.True(t, zero.Date.Equal(start))

	// The schedule must not alias the caller's date.
	*zero.Date = zero.Date.AddDate(1, 0, 0)
	assert.Equal(t, 2025, start.Year())
}

func TestBuildAmortizationAdvancesDates(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	monthly := BuildAmortization(LoanParams{
		Amount: 1200, NominalRate: 0.05, Compounding: rates.Monthly,
		TermYears: 1, PaymentFrequency: PaymentMonthly, StartDate: &start,
	})
	require.Len(t, monthly, 13)
	assert.Equal(t, "2025-02-28", monthly[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", monthly[2].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-01-31", monthly[12].Date.Format("2006-01-02"))

	annual := BuildAmortization(LoanParams{
		Amount: 10000, NominalRate: 0.05, Compounding: rates.Annual,
		TermYears: 3, PaymentFrequency: PaymentAnnual, StartDate: &start,
	})
	require.Len(t, annual, 4)
	assert.Equal(t, "2026-01-31", annual[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2028-01-31", annual[3].Date.Format("2006-01-02"))
}

func TestBuildAmortizationWithoutStartDate(t *testing.T) {
	schedule := BuildAmortization(thirtyYearMortgage(rates.Monthly))
	for _, entry := range schedule {
		assert.Nil(t, entry.Date)
	}
}

func TestBuildAmortizationAnnualPayments(t *testing.T) {
	schedule := BuildAmortization(LoanParams{
		Amount:           10000,
		NominalRate:      0.05,
		Compounding:      rates.Annual,
		TermYears:        5,
		PaymentFrequency: PaymentAnnual,
	})
	require.Len(t, schedule, 6)

	expected := []AmortizationEntry{
		{Period: 1, Payment: 2309.75, Principal: 1809.75, Interest: 500.00, OutstandingBalance: 8190.25},
		{Period: 2, Payment: 2309.75, Principal: 1900.24, Interest: 409.51, OutstandingBalance: 6290.02},
		{Period: 3, Payment: 2309.75, Principal: 1995.25, Interest: 314.50, OutstandingBalance: 4294.77},
		{Period: 4, Payment: 2309.75, Principal: 2095.01, Interest: 214.74, OutstandingBalance: 2199.76},
		{Period: 5, Payment: 2309.75, Principal: 2199.76, Interest: 109.99, OutstandingBalance: 0},
	}
	assert.Equal(t, expected, []AmortizationEntry(schedule[1:]))
}

func TestBuildAmortizationBalanceNonIncreasing(t *testing.T) {
	for _, freq := range []rates.CompoundingFrequency{rates.Annual, rates.Quarterly, rates.Daily, rates.Continuous} {
		t.Run(string(freq), func(t *testing.T) {
			schedule := BuildAmortization(LoanParams{
				Amount: 250000, NominalRate: 0.0725, Compounding: freq,
				TermYears: 15, PaymentFrequency: PaymentMonthly,
			})
			for i := 1; i < len(schedule); i++ {
				assert.LessOrEqual(t, schedule[i].OutstandingBalance, schedule[i-1].OutstandingBalance,
					"period %d", i)
			}
			assert.InDelta(t, 0, schedule.FinalBalance(), 0.01*float64(len(schedule)-1))
		})
	}
}

func TestBuildAmortizationZeroRate(t *testing.T) {
	schedule := BuildAmortization(LoanParams{
		Amount:           12000,
		NominalRate:      0,
		Compounding:      rates.Monthly,
		TermYears:        2,
		PaymentFrequency: PaymentMonthly,
	})
	require.Len(t, schedule, 25)

	for _, entry := range schedule[1:] {
		assert.Equal(t, 500.0, entry.Payment)
		assert.Equal(t, 500.0, entry.Principal)
		assert.Equal(t, 0.0, entry.Interest)
		assert.False(t, math.IsNaN(entry.OutstandingBalance))
	}
	assert.Equal(t, 0.0, schedule.FinalBalance())
}

func TestBuildAmortizationZeroTerm(t *testing.T) {
	params := thirtyYearMortgage(rates.Monthly)
	params.TermYears = 0

	schedule := BuildAmortization(params)
	require.Len(t, schedule, 1)
	assert.Equal(t, 100000.0, schedule[0].OutstandingBalance)
	assert.Equal(t, 0.0, schedule.Payment())

	params.TermYears = -3
	assert.Len(t, BuildAmortization(params), 1)
}

func TestLevelPayment(t *testing.T) {
	assert.InDelta(t, 599.5505251527, LevelPayment(100000, 0.005, 360), 1e-9)
	assert.Equal(t, 250.0, LevelPayment(3000, 0, 12))
	assert.Equal(t, 0.0, LevelPayment(3000, 0.01, 0))
	assert.Equal(t, 250.0, LevelPayment(3000, 1e-17, 12))
}

func TestBuildAmortizationSteepNegativeRates(t *testing.T) {
	for _, rate := range []float64{-0.5, -0.99, -9.99} {
		params := LoanParams{
			Amount: 100000, NominalRate: rate, Compounding: rates.Monthly,
			TermYears: 30, PaymentFrequency: PaymentMonthly,
		}
		var totals LoanTotals
		require.NotPanics(t, func() { totals = BuildAmortization(params).Totals() })
		assert.False(t, math.IsNaN(totals.Paid), "rate %v", rate)
	}
}

func TestAmortizationTotalsNonFinite(t *testing.T) {
	schedule := Amortization{
		{Period: 0, OutstandingBalance: 1000},
		{Period: 1, Principal: math.NaN(), Interest: 5},
		{Period: 2, Principal: 10, Interest: math.Inf(1)},
	}

	var totals LoanTotals
	require.NotPanics(t, func() { totals = schedule.Totals() })
	assert.True(t, math.IsNaN(totals.Principal))
	assert.True(t, math.IsInf(totals.Interest, 1))
}

func TestAmortizationTotals(t *testing.T) {
	schedule := BuildAmortization(LoanParams{
		Amount: 10000, NominalRate: 0.05, Compounding: rates.Annual,
		TermYears: 5, PaymentFrequency: PaymentAnnual,
	})

	totals := schedule.Totals()
	assert.Equal(t, 10000.01, totals.Principal)
	assert.Equal(t, 1548.74, totals.Interest)
	assert.Equal(t, 11548.75, totals.Paid)
}

func TestAmortizationTotalsExactInCents(t *testing.T) {
	schedule := BuildAmortization(thirtyYearMortgage(rates.Monthly))
	totals := schedule.Totals()

	assert.InDelta(t, 100000, totals.Principal, 1.0)
	assert.Equal(t, 115838.23, totals.Interest)
	assert.Equal(t, totals.Paid, roundCents(totals.Principal+totals.Interest))
}

func TestParsePaymentFrequency(t *testing.T) {
	freq, err := ParsePaymentFrequency("")
	require.NoError(t, err)
	assert.Equal(t, PaymentMonthly, freq)

	freq, err = ParsePaymentFrequency("Annual")
	require.NoError(t, err)
	assert.Equal(t, PaymentAnnual, freq)

	_, err = ParsePaymentFrequency("biweekly")
	assert.Error(t, err)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package schedule builds loan amortization schedules and investment
// accumulation series from the rate and annuity primitives.
package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/datetime"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/shopspring/decimal"
)

// PaymentFrequency indicates how often loan payments are made.
type PaymentFrequency string

const (
	// PaymentMonthly makes twelve payments per year.
	PaymentMonthly PaymentFrequency = "monthly"
	// PaymentAnnual makes one payment per year.
	PaymentAnnual PaymentFrequency = "annual"
)

// ParsePaymentFrequency converts a user-supplied string into a
// PaymentFrequency. An empty string means monthly.
func ParsePaymentFrequency(value string) (PaymentFrequency, error) {
	switch PaymentFrequency(strings.ToLower(strings.TrimSpace(value))) {
	case "", PaymentMonthly:
		return PaymentMonthly, nil
	case PaymentAnnual:
		return PaymentAnnual, nil
	default:
		return "", fmt.Errorf("unsupported payment frequency %q", value)
	}
}

// LoanParams holds the inputs of an amortization schedule. Rates are fractions.
type LoanParams struct {
	Amount           float64
	NominalRate      float64
	Compounding      rates.CompoundingFrequency
	TermYears        int
	PaymentFrequency PaymentFrequency
	StartDate        *time.Time
}

// AmortizationEntry holds the values for a given payment period.
type AmortizationEntry struct {
	Period             int        `json:"period"`
	Date               *time.Time `json:"date,omitempty"`
	Payment            float64    `json:"payment"`
	Principal          float64    `json:"principal"`
	Interest           float64    `json:"interest"`
	OutstandingBalance float64    `json:"outstandingBalance"`
}

// Amortization is a schedule ordered by period, starting with the period 0
// snapshot of the original balance.
type Amortization []AmortizationEntry

// LoanTotals sums the principal and interest paid over a schedule.
type LoanTotals struct {
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Paid      float64 `json:"paid"`
}

// Periods returns the number of payments made over the term.
func (p LoanParams) Periods() int {
	if p.TermYears <= 0 {
		return 0
	}
	if p.PaymentFrequency == PaymentAnnual {
		return p.TermYears
	}
	return p.TermYears * constants.MonthsPerYear
}

// PeriodicRate returns the effective rate applied each payment period.
func (p LoanParams) PeriodicRate() float64 {
	effectiveAnnual := rates.EffectiveRate(p.NominalRate, p.Compounding)
	if p.PaymentFrequency == PaymentAnnual {
		return effectiveAnnual
	}
	return rates.MonthlyRate(effectiveAnnual)
}

// LevelPayment returns the fixed payment that retires balance over the given
// number of periods at the periodic rate. A rate too small to move the
// discount factor splits the balance evenly; no periods means no payment.
func LevelPayment(balance, rate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	n := float64(periods)
	denom := 1 - math.Pow(1+rate, -n)
	if rate == 0 || denom == 0 {
		return balance / n
	}
	return (balance * rate) / denom
}

// BuildAmortization generates the amortization schedule for a fixed-payment
// loan. Every emitted figure is rounded to cents while the running balance
// keeps full precision.
func BuildAmortization(p LoanParams) Amortization {
	periods := p.Periods()
	rate := p.PeriodicRate()
	payment := LevelPayment(p.Amount, rate, periods)

	schedule := make(Amortization, 0, periods+1)
	schedule = append(schedule, AmortizationEntry{
		Period:             0,
		Date:               copyDate(p.StartDate),
		OutstandingBalance: mathutil.Round(p.Amount),
	})

	balance := p.Amount
	for period := 1; period <= periods; period++ {
		interest := balance * rate
		principal := payment - interest
		balance -= principal

		schedule = append(schedule, AmortizationEntry{
			Period:             period,
			Date:               advanceDate(p.StartDate, p.PaymentFrequency, period),
			Payment:            mathutil.Round(payment),
			Principal:          mathutil.Round(principal),
			Interest:           mathutil.Round(interest),
			OutstandingBalance: mathutil.Round(balance),
		})
	}

	return schedule
}

// Payment returns the level payment of the schedule, or zero when the
// schedule has no payment periods.
func (a Amortization) Payment() float64 {
	if len(a) < 2 {
		return 0
	}
	return a[1].Payment
}

// FinalBalance returns the outstanding balance after the last period.
func (a Amortization) FinalBalance() float64 {
	if len(a) == 0 {
		return 0
	}
	return a[len(a)-1].OutstandingBalance
}

// Totals sums the rounded principal and interest of every entry. The sums are
// exact in cents; they may differ from the original balance by a few cents
// because each entry is rounded independently. Schedules holding NaN or
// infinite figures are summed in float64.
func (a Amortization) Totals() LoanTotals {
	principal := decimal.Zero
	interest := decimal.Zero
	for _, entry := range a {
		if !mathutil.IsFinite(entry.Principal) || !mathutil.IsFinite(entry.Interest) {
			return a.floatTotals()
		}
		principal = principal.Add(decimal.NewFromFloat(entry.Principal))
		interest = interest.Add(decimal.NewFromFloat(entry.Interest))
	}

	return LoanTotals{
		Principal: principal.Round(constants.CurrencyPlaces).InexactFloat64(),
		Interest:  interest.Round(constants.CurrencyPlaces).InexactFloat64(),
		Paid:      principal.Add(interest).Round(constants.CurrencyPlaces).InexactFloat64(),
	}
}

func (a Amortization) floatTotals() LoanTotals {
	var principal, interest float64
	for _, entry := range a {
		principal += entry.Principal
		interest += entry.Interest
	}
	return LoanTotals{
		Principal: mathutil.Round(principal),
		Interest:  mathutil.Round(interest),
		Paid:      mathutil.Round(principal + interest),
	}
}

func advanceDate(start *time.Time, frequency PaymentFrequency, period int) *time.Time {
	if start == nil {
		return nil
	}
	var next time.Time
	if frequency == PaymentAnnual {
		next = datetime.AddYearsClamped(*start, period)
	} else {
		next = datetime.AddMonthsClamped(*start, period)
	}
	return &next
}

func copyDate(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}
	d := *date
	return &d
}

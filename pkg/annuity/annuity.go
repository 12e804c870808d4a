// Package annuity splits a recurring payment stream into the principal and
// interest it contributes over one year.
package annuity

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/rates"
)

// Frequency indicates how often recurring payments occur.
type Frequency string

// Timing indicates whether payments fall at the end or the start of a period.
type Timing string

const (
	// Annual payments occur once per year.
	Annual Frequency = "annual"
	// Monthly payments occur twelve times per year.
	Monthly Frequency = "monthly"

	// Immediate payments occur at the end of each period (ordinary annuity).
	Immediate Timing = "immediate"
	// Due payments occur at the beginning of each period (annuity due).
	Due Timing = "due"
)

// Contribution is the principal paid in and the interest earned by one year of
// recurring payments.
type Contribution struct {
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
}

// FrequencyInfo pairs an annuity frequency with a human description.
type FrequencyInfo struct {
	Frequency   Frequency `json:"frequency"`
	Description string    `json:"description"`
}

// TimingInfo pairs an annuity timing with a human description.
type TimingInfo struct {
	Timing      Timing `json:"timing"`
	Description string `json:"description"`
}

// Frequencies returns the supported annuity frequencies in display order.
func Frequencies() []FrequencyInfo {
	return []FrequencyInfo{
		{Annual, "Payments or contributions made once per year (1 time per year)."},
		{Monthly, "Payments or contributions made every month (12 times per year)."},
	}
}

// Timings returns the supported annuity timings in display order.
func Timings() []TimingInfo {
	return []TimingInfo{
		{Immediate, "Payments occur at the end of each period (ordinary annuity)."},
		{Due, "Payments occur at the beginning of each period (annuity due)."},
	}
}

// ParseFrequency converts a user-supplied string into a Frequency. An empty
// string means annual.
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(value))) {
	case "", Annual:
		return Annual, nil
	case Monthly:
		return Monthly, nil
	default:
		return "", fmt.Errorf("unsupported annuity frequency %q", value)
	}
}

// ParseTiming converts a user-supplied string into a Timing. An empty string
// means immediate; "ordinary" is accepted as an alias.
func ParseTiming(value string) (Timing, error) {
	switch Timing(strings.ToLower(strings.TrimSpace(value))) {
	case "", Immediate, "ordinary":
		return Immediate, nil
	case Due:
		return Due, nil
	default:
		return "", fmt.Errorf("unsupported annuity timing %q", value)
	}
}

// PrincipalAndInterest returns the principal and interest contributed within a
// single year by recurring payments of the given size, made at the given
// frequency and timing, growing at the effective annual rate.
func PrincipalAndInterest(payment float64, frequency Frequency, timing Timing, effectiveRate float64) Contribution {
	if frequency == Monthly {
		monthlyRate := rates.MonthlyRate(effectiveRate)
		principal := payment * constants.MonthsPerYear

		futureValue := payment * futureValueFactor(monthlyRate, constants.MonthsPerYear)
		if timing == Due {
			futureValue *= 1 + monthlyRate
		}

		return Contribution{
			Principal: principal,
			Interest:  futureValue - principal,
		}
	}

	if timing == Due {
		return Contribution{Principal: payment, Interest: payment * effectiveRate}
	}
	return Contribution{Principal: payment}
}

// futureValueFactor is ((1+rate)^periods - 1) / rate, with its limit of
// periods when the rate is zero.
func futureValueFactor(rate float64, periods int) float64 {
	if rate == 0 {
		return float64(periods)
	}
	return (math.Pow(1+rate, float64(periods)) - 1) / rate
}

// Package rates converts nominal annual rates into effective rates across
// compounding frequencies.
package rates

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// CompoundingFrequency indicates how often interest is compounded.
type CompoundingFrequency string

// Supported compounding frequencies.
const (
	Annual     CompoundingFrequency = "annual"
	Semiannual CompoundingFrequency = "semiannual"
	Quarterly  CompoundingFrequency = "quarterly"
	Monthly    CompoundingFrequency = "monthly"
	Daily      CompoundingFrequency = "daily"
	Continuous CompoundingFrequency = "continuous"
)

// FrequencyInfo pairs a compounding frequency with a human description.
type FrequencyInfo struct {
	Frequency   CompoundingFrequency `json:"frequency"`
	Description string               `json:"description"`
}

var frequencies = []FrequencyInfo{
	{Annual, "Interest is compounded once per year."},
	{Semiannual, "Interest is compounded twice per year (every 6 months)."},
	{Quarterly, "Interest is compounded four times per year (every 3 months)."},
	{Monthly, "Interest is compounded 12 times per year (once each month)."},
	{Daily, "Interest is compounded every day of the year (365 times)."},
	{Continuous, "Interest is compounded continuously, using the natural exponential function."},
}

// Frequencies returns the supported compounding frequencies in display order.
func Frequencies() []FrequencyInfo {
	out := make([]FrequencyInfo, len(frequencies))
	copy(out, frequencies)
	return out
}

// ParseCompoundingFrequency converts a user-supplied string into a
// CompoundingFrequency. An empty string means annual.
func ParseCompoundingFrequency(value string) (CompoundingFrequency, error) {
	normalized := CompoundingFrequency(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return Annual, nil
	}
	for _, info := range frequencies {
		if info.Frequency == normalized {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("unsupported compounding frequency %q", value)
}

// PeriodsPerYear returns the number of compounding periods in a year. The
// boolean is false for continuous compounding, which has no period count.
// Unknown frequencies compound once per year.
func PeriodsPerYear(frequency CompoundingFrequency) (int, bool) {
	switch frequency {
	case Annual:
		return 1, true
	case Semiannual:
		return 2, true
	case Quarterly:
		return 4, true
	case Monthly:
		return constants.MonthsPerYear, true
	case Daily:
		return constants.DaysPerYear, true
	case Continuous:
		return 0, false
	default:
		return 1, true
	}
}

// EffectiveRate returns the effective annual rate implied by compounding the
// nominal annual rate at the given frequency: (1 + r/n)^n - 1, or e^r - 1 when
// compounding continuously.
func EffectiveRate(nominalRate float64, frequency CompoundingFrequency) float64 {
	periods, discrete := PeriodsPerYear(frequency)
	if !discrete {
		return math.Expm1(nominalRate)
	}
	if periods == 1 {
		return nominalRate
	}
	n := float64(periods)
	return math.Pow(1+nominalRate/n, n) - 1
}

// PositiveGrowth reports whether compounding the nominal rate at the given
// frequency keeps a positive growth factor, i.e. 1 + r/n > 0 for every period
// and an effective rate above -100%. Rates outside that domain have no real
// monthly equivalent.
func PositiveGrowth(nominalRate float64, frequency CompoundingFrequency) bool {
	if periods, discrete := PeriodsPerYear(frequency); discrete && 1+nominalRate/float64(periods) <= 0 {
		return false
	}
	return EffectiveRate(nominalRate, frequency) > -1
}

// MonthlyRate derives the effective monthly rate equivalent to an effective
// annual rate.
func MonthlyRate(effectiveAnnualRate float64) float64 {
	return math.Pow(1+effectiveAnnualRate, 1.0/constants.MonthsPerYear) - 1
}

// RealRate applies the Fisher relation to strip inflation out of an effective
// nominal rate.
func RealRate(effectiveNominalRate, inflationRate float64) float64 {
	return (effectiveNominalRate - inflationRate) / (1 + inflationRate)
}

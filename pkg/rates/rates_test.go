package rates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFrequencies = []CompoundingFrequency{Annual, Semiannual, Quarterly, Monthly, Daily, Continuous}

func TestEffectiveRateZeroNominal(t *testing.T) {
	for _, freq := range allFrequencies {
		t.Run(string(freq), func(t *testing.T) {
			assert.Equal(t, 0.0, EffectiveRate(0, freq))
		})
	}
}

func TestEffectiveRateAnnualIsIdentity(t *testing.T) {
	for _, r := range []float64{0.05, 0.0725, -0.02, 1.5} {
		assert.Equal(t, r, EffectiveRate(r, Annual))
	}
}

func TestEffectiveRateContinuous(t *testing.T) {
	for _, r := range []float64{0.01, 0.05, 0.12, -0.03} {
		assert.InDelta(t, math.Exp(r)-1, EffectiveRate(r, Continuous), 1e-12)
	}
}

func TestEffectiveRateDiscrete(t *testing.T) {
	tests := []struct {
		name     string
		nominal  float64
		freq     CompoundingFrequency
		expected float64
	}{
		{"semiannual 6%", 0.06, Semiannual, 0.0609},
		{"quarterly 8%", 0.08, Quarterly, 0.08243216},
		{"monthly 6%", 0.06, Monthly, 0.0616778118644995},
		{"daily 5%", 0.05, Daily, 0.0512674964674473},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EffectiveRate(tt.nominal, tt.freq), 1e-9)
		})
	}
}

func TestEffectiveRateIncreasesWithFrequency(t *testing.T) {
	previous := EffectiveRate(0.07, Annual)
	for _, freq := range allFrequencies[1:] {
		current := EffectiveRate(0.07, freq)
		assert.Greater(t, current, previous, "frequency %s", freq)
		previous = current
	}
}

func TestEffectiveRateUnknownFrequencyCompoundsAnnually(t *testing.T) {
	assert.Equal(t, 0.05, EffectiveRate(0.05, CompoundingFrequency("weekly")))
}

func TestPeriodsPerYear(t *testing.T) {
	expected := map[CompoundingFrequency]int{
		Annual:     1,
		Semiannual: 2,
		Quarterly:  4,
		Monthly:    12,
		Daily:      365,
	}
	for freq, want := range expected {
		got, discrete := PeriodsPerYear(freq)
		assert.True(t, discrete, "frequency %s", freq)
		assert.Equal(t, want, got, "frequency %s", freq)
	}

	_, discrete := PeriodsPerYear(Continuous)
	assert.False(t, discrete)
}

func TestMonthlyRate(t *testing.T) {
	effective := EffectiveRate(0.06, Monthly)
	assert.InDelta(t, 0.005, MonthlyRate(effective), 1e-12)
	assert.InDelta(t, 0.004074123784, MonthlyRate(0.05), 1e-10)
	assert.Equal(t, 0.0, MonthlyRate(0))
}

func TestRealRate(t *testing.T) {
	assert.InDelta(t, 0.0294117647, RealRate(0.05, 0.02), 1e-10)
	assert.Equal(t, 0.05, RealRate(0.05, 0))
	assert.Equal(t, 0.0, RealRate(0.03, 0.03))
	assert.Less(t, RealRate(0.02, 0.04), 0.0)
}

func TestParseCompoundingFrequency(t *testing.T) {
	freq, err := ParseCompoundingFrequency(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, Monthly, freq)

	freq, err = ParseCompoundingFrequency("")
	require.NoError(t, err)
	assert.Equal(t, Annual, freq)

	_, err = ParseCompoundingFrequency("fortnightly")
	assert.Error(t, err)
}

func TestFrequenciesReturnsCopy(t *testing.T) {
	list := Frequencies()
	require.Len(t, list, 6)
	list[0].Description = "changed"
	assert.NotEqual(t, "changed", Frequencies()[0].Description)
}

func TestPositiveGrowth(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		frequency CompoundingFrequency
		expected  bool
	}{
		{"ordinary rate", 0.06, Monthly, true},
		{"negative rate", -0.5, Annual, true},
		{"annual at -100%", -1, Annual, false},
		{"annual below -100%", -2, Annual, false},
		{"semiannual below -200%", -3, Semiannual, false},
		{"monthly at -1000%", -10, Monthly, true},
		{"continuous at -1000%", -10, Continuous, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PositiveGrowth(tt.rate, tt.frequency))
			if tt.expected {
				assert.False(t, math.IsNaN(MonthlyRate(EffectiveRate(tt.rate, tt.frequency))))
			}
		})
	}
}

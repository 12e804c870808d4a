package schedule

import (
	"github.com/iwvelando/finance-calculator/pkg/annuity"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/shopspring/decimal"
)

// Track selects the nominal or inflation-adjusted side of an investment.
type Track string

const (
	// Nominal figures are not adjusted for inflation.
	Nominal Track = "nominal"
	// Real figures are expressed in today's purchasing power.
	Real Track = "real"
)

// InvestmentParams holds the inputs of an accumulation series. Rates are
// fractions.
type InvestmentParams struct {
	Principal        float64
	NominalRate      float64
	Compounding      rates.CompoundingFrequency
	InflationRate    float64
	TermYears        int
	AnnuityPayment   float64
	AnnuityFrequency annuity.Frequency
	AnnuityTiming    annuity.Timing
}

// InvestmentPeriod holds the cumulative figures at the end of a given year.
type InvestmentPeriod struct {
	Year             int     `json:"year"`
	NominalPrincipal float64 `json:"nominalPrincipal"`
	NominalInterest  float64 `json:"nominalInterest"`
	RealPrincipal    float64 `json:"realPrincipal"`
	RealInterest     float64 `json:"realInterest"`
}

// Investment is an accumulation series ordered by year, starting at year 1.
type Investment []InvestmentPeriod

// ChartEntry is one year of a single track with its total amount.
type ChartEntry struct {
	Year      int     `json:"year"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Amount    float64 `json:"amount"`
}

// accumulator tracks the running totals of one track.
type accumulator struct {
	rate         float64
	contribution annuity.Contribution
	principal    float64
	interest     float64
	amount       float64
}

func newAccumulator(principal, rate float64, contribution annuity.Contribution) *accumulator {
	return &accumulator{
		rate:         rate,
		contribution: contribution,
		principal:    principal,
		amount:       principal,
	}
}

// step advances the accumulator by one year.
func (a *accumulator) step() {
	a.principal += a.contribution.Principal
	interest := a.amount*a.rate + a.contribution.Interest
	a.interest += interest
	a.amount += interest + a.contribution.Principal
}

// BuildInvestment generates the yearly accumulation series for both the
// nominal and the real track. Year 0 is not emitted; a term of zero or less
// yields an empty series.
func BuildInvestment(p InvestmentParams) Investment {
	if p.TermYears <= 0 {
		return Investment{}
	}

	effectiveRate := rates.EffectiveRate(p.NominalRate, p.Compounding)
	realRate := rates.RealRate(effectiveRate, p.InflationRate)

	nominalTrack := newAccumulator(p.Principal, effectiveRate,
		annuity.PrincipalAndInterest(p.AnnuityPayment, p.AnnuityFrequency, p.AnnuityTiming, effectiveRate))
	realTrack := newAccumulator(p.Principal, realRate,
		annuity.PrincipalAndInterest(p.AnnuityPayment, p.AnnuityFrequency, p.AnnuityTiming, realRate))

	investment := make(Investment, 0, p.TermYears)
	for year := 1; year <= p.TermYears; year++ {
		nominalTrack.step()
		realTrack.step()

		investment = append(investment, InvestmentPeriod{
			Year:             year,
			NominalPrincipal: mathutil.Round(nominalTrack.principal),
			NominalInterest:  mathutil.Round(nominalTrack.interest),
			RealPrincipal:    mathutil.Round(realTrack.principal),
			RealInterest:     mathutil.Round(realTrack.interest),
		})
	}

	return investment
}

// Entry returns the period's figures for the requested track.
func (p InvestmentPeriod) Entry(track Track) ChartEntry {
	principal, interest := p.NominalPrincipal, p.NominalInterest
	if track == Real {
		principal, interest = p.RealPrincipal, p.RealInterest
	}

	entry := ChartEntry{
		Year:      p.Year,
		Principal: principal,
		Interest:  interest,
	}
	if !mathutil.IsFinite(principal) || !mathutil.IsFinite(interest) {
		entry.Amount = principal + interest
		return entry
	}
	amount := decimal.NewFromFloat(principal).Add(decimal.NewFromFloat(interest))
	entry.Amount = amount.Round(constants.CurrencyPlaces).InexactFloat64()
	return entry
}

// ChartData projects the series onto one track with the yearly total amount.
func (inv Investment) ChartData(track Track) []ChartEntry {
	data := make([]ChartEntry, 0, len(inv))
	for _, period := range inv {
		data = append(data, period.Entry(track))
	}
	return data
}

// Final returns the last year of the requested track. The boolean is false
// for an empty series.
func (inv Investment) Final(track Track) (ChartEntry, bool) {
	if len(inv) == 0 {
		return ChartEntry{}, false
	}
	return inv[len(inv)-1].Entry(track), true
}

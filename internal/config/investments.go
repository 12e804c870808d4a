package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/annuity"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/iwvelando/finance-calculator/pkg/schedule"
	"github.com/iwvelando/finance-calculator/pkg/validation"
)

// Investment describes a lump sum growing over a number of years, optionally
// with recurring payments. Rates are percentages; a blank inflation rate
// uses the default of 2%.
type Investment struct {
	Name             string          `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Principal        validation.Text `json:"principal" yaml:"principal" mapstructure:"principal"`
	Rate             validation.Text `json:"rate" yaml:"rate" mapstructure:"rate"`
	Compounding      string          `json:"compounding,omitempty" yaml:"compounding,omitempty" mapstructure:"compounding"`
	InflationRate    validation.Text `json:"inflationRate,omitempty" yaml:"inflationRate,omitempty" mapstructure:"inflationrate"`
	TermYears        validation.Text `json:"termYears" yaml:"termYears" mapstructure:"termyears"`
	AnnuityPayment   validation.Text `json:"annuityPayment,omitempty" yaml:"annuityPayment,omitempty" mapstructure:"annuitypayment"`
	AnnuityFrequency string          `json:"annuityFrequency,omitempty" yaml:"annuityFrequency,omitempty" mapstructure:"annuityfrequency"`
	AnnuityTiming    string          `json:"annuityTiming,omitempty" yaml:"annuityTiming,omitempty" mapstructure:"annuitytiming"`
}

// DisplayName returns the investment name, or a positional name when it has
// none.
func (investment Investment) DisplayName(index int) string {
	if name := strings.TrimSpace(investment.Name); name != "" {
		return name
	}
	return fmt.Sprintf("investment %d", index+1)
}

// Params parses the investment into schedule parameters. Every invalid field
// is reported in the returned validation.FieldErrors.
func (investment Investment) Params() (schedule.InvestmentParams, error) {
	var form validation.Form

	params := schedule.InvestmentParams{
		Principal:        form.Amount("principal", "Principal", investment.Principal),
		NominalRate:      form.RequiredPercent("rate", "Interest rate", investment.Rate),
		Compounding:      validation.Choice(&form, "compounding", validation.Text(investment.Compounding), rates.ParseCompoundingFrequency),
		InflationRate:    form.Percent("inflationRate", "Inflation rate", investment.InflationRate, constants.DefaultInflationRate),
		TermYears:        form.Term("termYears", "Investment term", investment.TermYears),
		AnnuityPayment:   form.OptionalAmount("annuityPayment", "Annuity payment", investment.AnnuityPayment),
		AnnuityFrequency: validation.Choice(&form, "annuityFrequency", validation.Text(investment.AnnuityFrequency), annuity.ParseFrequency),
		AnnuityTiming:    validation.Choice(&form, "annuityTiming", validation.Text(investment.AnnuityTiming), annuity.ParseTiming),
	}

	if !rates.PositiveGrowth(params.NominalRate, params.Compounding) {
		form.Reject("rate", validation.ErrOutOfRange, outOfDomainRate)
	}
	if params.InflationRate <= -1 {
		form.Reject("inflationRate", validation.ErrOutOfRange, "Inflation rate must be above -100%.")
	}

	if err := form.Err(); err != nil {
		return schedule.InvestmentParams{}, err
	}
	return params, nil
}

// EffectiveRate returns the effective annual rate of the investment.
func EffectiveRate(params schedule.InvestmentParams) float64 {
	return rates.EffectiveRate(params.NominalRate, params.Compounding)
}

// RealRate returns the inflation-adjusted effective annual rate of the
// investment.
func RealRate(params schedule.InvestmentParams) float64 {
	return rates.RealRate(EffectiveRate(params), params.InflationRate)
}

package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/datetime"
	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/iwvelando/finance-calculator/pkg/schedule"
	"github.com/iwvelando/finance-calculator/pkg/validation"
)

const outOfDomainRate = "Interest rate cannot reach -100% or below per compounding period."

// Loan indicates a loan and its parameters as typed by a user. Amounts accept
// thousands separators and the rate is a percentage.
type Loan struct {
	Name             string          `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Amount           validation.Text `json:"amount" yaml:"amount" mapstructure:"amount"`
	Rate             validation.Text `json:"rate" yaml:"rate" mapstructure:"rate"`
	Compounding      string          `json:"compounding,omitempty" yaml:"compounding,omitempty" mapstructure:"compounding"`
	TermYears        validation.Text `json:"termYears" yaml:"termYears" mapstructure:"termyears"`
	PaymentFrequency string          `json:"paymentFrequency,omitempty" yaml:"paymentFrequency,omitempty" mapstructure:"paymentfrequency"`
	StartDate        string          `json:"startDate,omitempty" yaml:"startDate,omitempty" mapstructure:"startdate"`
}

// DisplayName returns the loan name, or a positional name when it has none.
func (loan Loan) DisplayName(index int) string {
	if name := strings.TrimSpace(loan.Name); name != "" {
		return name
	}
	return fmt.Sprintf("loan %d", index+1)
}

// Params parses the loan into schedule parameters. Every invalid field is
// reported in the returned validation.FieldErrors.
func (loan Loan) Params() (schedule.LoanParams, error) {
	var form validation.Form

	params := schedule.LoanParams{
		Amount:           form.Amount("amount", "Loan amount", loan.Amount),
		NominalRate:      form.RequiredPercent("rate", "Interest rate", loan.Rate),
		Compounding:      validation.Choice(&form, "compounding", validation.Text(loan.Compounding), rates.ParseCompoundingFrequency),
		TermYears:        form.Term("termYears", "Loan term", loan.TermYears),
		PaymentFrequency: validation.Choice(&form, "paymentFrequency", validation.Text(loan.PaymentFrequency), schedule.ParsePaymentFrequency),
	}

	if !rates.PositiveGrowth(params.NominalRate, params.Compounding) {
		form.Reject("rate", validation.ErrOutOfRange, outOfDomainRate)
	}

	startDate, err := datetime.ParseOptionalDate(loan.StartDate)
	if err != nil {
		form.Reject("startDate", validation.ErrInvalidDate,
			fmt.Sprintf("Start date must use the %s layout.", DateLayout))
	}
	params.StartDate = startDate

	if err := form.Err(); err != nil {
		return schedule.LoanParams{}, err
	}
	return params, nil
}

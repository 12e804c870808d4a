// Package output provides utilities for formatting and displaying calculator results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-calculator/pkg/datetime"
	"github.com/iwvelando/finance-calculator/pkg/format"
	"github.com/iwvelando/finance-calculator/pkg/schedule"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LoanResult is a named amortization schedule with its totals.
type LoanResult struct {
	Name          string                `json:"name"`
	EffectiveRate float64               `json:"effectiveRate"`
	PeriodicRate  float64               `json:"periodicRate"`
	Payment       float64               `json:"payment"`
	Totals        schedule.LoanTotals   `json:"totals"`
	Schedule      schedule.Amortization `json:"schedule"`
}

// InvestmentResult is a named accumulation series with its final totals.
type InvestmentResult struct {
	Name          string                `json:"name"`
	EffectiveRate float64               `json:"effectiveRate"`
	RealRate      float64               `json:"realRate"`
	Investment    schedule.Investment   `json:"investment"`
	NominalChart  []schedule.ChartEntry `json:"nominalChart"`
	RealChart     []schedule.ChartEntry `json:"realChart"`
	FinalNominal  schedule.ChartEntry   `json:"finalNominal"`
	FinalReal     schedule.ChartEntry   `json:"finalReal"`
}

// NewLoanResult wraps a schedule with its derived payment and totals. Rates
// are left for the caller to fill in.
func NewLoanResult(name string, amortization schedule.Amortization) LoanResult {
	return LoanResult{
		Name:     name,
		Payment:  amortization.Payment(),
		Totals:   amortization.Totals(),
		Schedule: amortization,
	}
}

// NewInvestmentResult wraps a series with its chart data and final-year
// totals. Rates are left for the caller to fill in.
func NewInvestmentResult(name string, investment schedule.Investment) InvestmentResult {
	finalNominal, _ := investment.Final(schedule.Nominal)
	finalReal, _ := investment.Final(schedule.Real)
	return InvestmentResult{
		Name:         name,
		Investment:   investment,
		NominalChart: investment.ChartData(schedule.Nominal),
		RealChart:    investment.ChartData(schedule.Real),
		FinalNominal: finalNominal,
		FinalReal:    finalReal,
	}
}

// WritePretty writes the human-readable tables to w.
func WritePretty(w io.Writer, loans []LoanResult, investments []InvestmentResult) {
	p := message.NewPrinter(language.English)
	first := true
	separate := func() {
		if !first {
			_, _ = fmt.Fprintf(w, "\n")
		}
		first = false
	}

	for _, loan := range loans {
		separate()
		_, _ = fmt.Fprintf(w, "--- Amortization schedule for loan %s ---\n", loan.Name)
		_, _ = fmt.Fprintf(w, "Effective annual rate: %s\n", format.Percent(loan.EffectiveRate, 3))
		_, _ = fmt.Fprintf(w, "Payment: %s\n", format.Currency(loan.Payment))
		_, _ = fmt.Fprintf(w, "Date  | Payment | Principal | Interest | Balance\n")
		_, _ = fmt.Fprintf(w, "____  | _______ | _________ | ________ | _______\n")
		for _, entry := range loan.Schedule {
			_, _ = p.Fprintf(w, "%s | $%.2f | $%.2f | $%.2f | $%.2f\n",
				entryLabel(entry), entry.Payment, entry.Principal, entry.Interest, entry.OutstandingBalance)
		}
		_, _ = fmt.Fprintf(w, "Total principal: %s\n", format.Currency(loan.Totals.Principal))
		_, _ = fmt.Fprintf(w, "Total interest:  %s\n", format.Currency(loan.Totals.Interest))
		_, _ = fmt.Fprintf(w, "Total paid:      %s\n", format.Currency(loan.Totals.Paid))
	}

	for _, inv := range investments {
		separate()
		_, _ = fmt.Fprintf(w, "--- Growth of investment %s ---\n", inv.Name)
		_, _ = fmt.Fprintf(w, "Effective annual rate: %s (real %s)\n",
			format.Percent(inv.EffectiveRate, 3), format.Percent(inv.RealRate, 3))
		_, _ = fmt.Fprintf(w, "Year | Nominal principal | Nominal interest | Real principal | Real interest\n")
		_, _ = fmt.Fprintf(w, "____ | _________________ | ________________ | ______________ | _____________\n")
		for _, period := range inv.Investment {
			_, _ = p.Fprintf(w, "%d | $%.2f | $%.2f | $%.2f | $%.2f\n",
				period.Year, period.NominalPrincipal, period.NominalInterest, period.RealPrincipal, period.RealInterest)
		}
		if len(inv.Investment) > 0 {
			_, _ = fmt.Fprintf(w, "Final nominal amount: %s\n", format.Currency(inv.FinalNominal.Amount))
			_, _ = fmt.Fprintf(w, "Final real amount:    %s\n", format.Currency(inv.FinalReal.Amount))
		}
	}
}

// CsvString returns the CSV representation as a string. Loans and
// investments are written as separate tables separated by a blank line.
func CsvString(loans []LoanResult, investments []InvestmentResult) string {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, loans, investments)
	return buf.String()
}

// WriteCSV writes the CSV tables to w.
func WriteCSV(w io.Writer, loans []LoanResult, investments []InvestmentResult) error {
	if len(loans) > 0 {
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"loan", "period", "date", "payment", "principal", "interest", "balance"})
		for _, loan := range loans {
			for _, entry := range loan.Schedule {
				date := ""
				if entry.Date != nil {
					date = entry.Date.Format(datetime.DateLayout)
				}
				_ = cw.Write([]string{
					loan.Name,
					strconv.Itoa(entry.Period),
					date,
					money(entry.Payment),
					money(entry.Principal),
					money(entry.Interest),
					money(entry.OutstandingBalance),
				})
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	if len(investments) > 0 {
		if len(loans) > 0 {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
		}
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"investment", "year", "nominal principal", "nominal interest", "real principal", "real interest"})
		for _, inv := range investments {
			for _, period := range inv.Investment {
				_ = cw.Write([]string{
					inv.Name,
					strconv.Itoa(period.Year),
					money(period.NominalPrincipal),
					money(period.NominalInterest),
					money(period.RealPrincipal),
					money(period.RealInterest),
				})
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	return nil
}

// WriteJSON writes the results as an indented JSON document to w.
func WriteJSON(w io.Writer, loans []LoanResult, investments []InvestmentResult) error {
	if loans == nil {
		loans = []LoanResult{}
	}
	if investments == nil {
		investments = []InvestmentResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Loans       []LoanResult       `json:"loans"`
		Investments []InvestmentResult `json:"investments"`
	}{loans, investments})
}

func entryLabel(entry schedule.AmortizationEntry) string {
	if entry.Date != nil {
		return datetime.FormatScheduleDate(*entry.Date)
	}
	return strconv.Itoa(entry.Period)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

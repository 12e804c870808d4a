// Package calculator turns loan and investment requests into schedules,
// recording logs, metrics and trace spans along the way.
package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/metrics"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/iwvelando/finance-calculator/pkg/schedule"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	kindLoan       = "loan"
	kindInvestment = "investment"
)

// Results holds every schedule computed for a configuration.
type Results struct {
	Loans       []output.LoanResult       `json:"loans"`
	Investments []output.InvestmentResult `json:"investments"`
}

// Calculator computes schedules from user requests.
type Calculator struct {
	logger *zap.Logger
	tracer trace.Tracer
}

// New creates a Calculator. A nil tracer uses the global tracer provider.
func New(logger *zap.Logger, tracer trace.Tracer) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tracer == nil {
		tracer = otel.Tracer("finance-calculator")
	}
	return &Calculator{logger: logger, tracer: tracer}
}

// Loan parses the request and builds its amortization schedule. Parse
// failures are returned as validation.FieldErrors.
func (c *Calculator) Loan(ctx context.Context, req config.Loan, name string) (output.LoanResult, error) {
	_, span := c.tracer.Start(ctx, "calculator.Loan", trace.WithAttributes(attribute.String("loan.name", name)))
	defer span.End()

	params, err := req.Params()
	if err != nil {
		c.reject(span, kindLoan, name, err)
		return output.LoanResult{}, err
	}

	start := time.Now()
	amortization := schedule.BuildAmortization(params)
	metrics.CalculationDuration.WithLabelValues(kindLoan).Observe(time.Since(start).Seconds())
	metrics.Calculations.WithLabelValues(kindLoan, metrics.StatusOK).Inc()

	result := output.NewLoanResult(name, amortization)
	result.PeriodicRate = params.PeriodicRate()
	result.EffectiveRate = rates.EffectiveRate(params.NominalRate, params.Compounding)

	span.SetAttributes(
		attribute.Int("loan.periods", params.Periods()),
		attribute.Float64("loan.payment", result.Payment),
	)
	c.logger.Debug(fmt.Sprintf("computed amortization schedule for loan %s", name),
		zap.String("op", "calculator.Loan"),
		zap.Int("periods", params.Periods()),
		zap.Float64("payment", result.Payment),
		zap.Float64("totalInterest", result.Totals.Interest),
	)

	return result, nil
}

// Investment parses the request and builds its accumulation series. Parse
// failures are returned as validation.FieldErrors.
func (c *Calculator) Investment(ctx context.Context, req config.Investment, name string) (output.InvestmentResult, error) {
	_, span := c.tracer.Start(ctx, "calculator.Investment", trace.WithAttributes(attribute.String("investment.name", name)))
	defer span.End()

	params, err := req.Params()
	if err != nil {
		c.reject(span, kindInvestment, name, err)
		return output.InvestmentResult{}, err
	}

	start := time.Now()
	investment := schedule.BuildInvestment(params)
	metrics.CalculationDuration.WithLabelValues(kindInvestment).Observe(time.Since(start).Seconds())
	metrics.Calculations.WithLabelValues(kindInvestment, metrics.StatusOK).Inc()

	result := output.NewInvestmentResult(name, investment)
	result.EffectiveRate = config.EffectiveRate(params)
	result.RealRate = config.RealRate(params)

	span.SetAttributes(
		attribute.Int("investment.years", params.TermYears),
		attribute.Float64("investment.final_nominal", result.FinalNominal.Amount),
	)
	c.logger.Debug(fmt.Sprintf("computed accumulation series for investment %s", name),
		zap.String("op", "calculator.Investment"),
		zap.Int("years", params.TermYears),
		zap.Float64("finalNominal", result.FinalNominal.Amount),
		zap.Float64("finalReal", result.FinalReal.Amount),
	)

	return result, nil
}

// Run computes every loan and investment of the configuration. The first
// invalid entry aborts the run with an error naming it.
func (c *Calculator) Run(ctx context.Context, conf config.Configuration) (Results, error) {
	ctx, span := c.tracer.Start(ctx, "calculator.Run", trace.WithAttributes(
		attribute.Int("loans", len(conf.Loans)),
		attribute.Int("investments", len(conf.Investments)),
	))
	defer span.End()

	results := Results{
		Loans:       make([]output.LoanResult, 0, len(conf.Loans)),
		Investments: make([]output.InvestmentResult, 0, len(conf.Investments)),
	}

	for i, loan := range conf.Loans {
		name := loan.DisplayName(i)
		result, err := c.Loan(ctx, loan, name)
		if err != nil {
			span.SetStatus(codes.Error, "invalid loan")
			return results, fmt.Errorf("loan '%s': %w", name, err)
		}
		results.Loans = append(results.Loans, result)
	}

	for i, investment := range conf.Investments {
		name := investment.DisplayName(i)
		result, err := c.Investment(ctx, investment, name)
		if err != nil {
			span.SetStatus(codes.Error, "invalid investment")
			return results, fmt.Errorf("investment '%s': %w", name, err)
		}
		results.Investments = append(results.Investments, result)
	}

	c.logger.Info("computed all schedules",
		zap.String("op", "calculator.Run"),
		zap.Int("loans", len(results.Loans)),
		zap.Int("investments", len(results.Investments)),
	)

	return results, nil
}

func (c *Calculator) reject(span trace.Span, kind, name string, err error) {
	metrics.Calculations.WithLabelValues(kind, metrics.StatusInvalid).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "invalid request")
	c.logger.Debug(fmt.Sprintf("rejected %s %s", kind, name),
		zap.String("op", "calculator.reject"),
		zap.Error(err),
	)
}

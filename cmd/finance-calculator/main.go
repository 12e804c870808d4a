package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/finance-calculator/internal/cache"
	"github.com/iwvelando/finance-calculator/internal/calculator"
	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/server"
	"github.com/iwvelando/finance-calculator/internal/tracing"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"github.com/iwvelando/finance-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalFlags struct {
	outputFormat string
	logLevel     string
	logFormat    string
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "finance-calculator",
		Short:   "Loan amortization and investment growth calculator",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)

	rootCmd.PersistentFlags().StringVar(&flags.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")

	rootCmd.AddCommand(
		newLoanCommand(flags),
		newInvestCommand(flags),
		newRunCommand(flags),
		newServeCommand(flags),
	)

	return rootCmd
}

func newLoanCommand(flags *globalFlags) *cobra.Command {
	var req config.Loan
	var amount, rate, term string

	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Print the amortization schedule of a fixed-payment loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Amount = validation.Text(amount)
			req.Rate = validation.Text(rate)
			req.TermYears = validation.Text(term)

			logger, err := initializeLogger(config.LoggingConfig{Format: flags.logFormat}, flags.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			result, err := calculator.New(logger, nil).Loan(cmd.Context(), req, req.DisplayName(0))
			if err != nil {
				return describe(err)
			}
			return render(cmd.OutOrStdout(), resolveFormat(flags.outputFormat, ""), []output.LoanResult{result}, nil)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "name shown in the output")
	cmd.Flags().StringVar(&amount, "amount", "", "loan amount, e.g. 250,000")
	cmd.Flags().StringVar(&rate, "rate", "", "nominal annual interest rate in percent")
	cmd.Flags().StringVar(&req.Compounding, "compounding", "", "compounding frequency: annual, semiannual, quarterly, monthly, daily, continuous")
	cmd.Flags().StringVar(&term, "term", "", "loan term in whole years")
	cmd.Flags().StringVar(&req.PaymentFrequency, "payment-frequency", "", "payment frequency: monthly, annual")
	cmd.Flags().StringVar(&req.StartDate, "start-date", "", "date of the loan in "+constants.DateLayout+" layout")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}

func newInvestCommand(flags *globalFlags) *cobra.Command {
	var req config.Investment
	var principal, rate, inflation, term, payment string

	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Print the yearly growth of an investment in nominal and real terms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Principal = validation.Text(principal)
			req.Rate = validation.Text(rate)
			req.InflationRate = validation.Text(inflation)
			req.TermYears = validation.Text(term)
			req.AnnuityPayment = validation.Text(payment)

			logger, err := initializeLogger(config.LoggingConfig{Format: flags.logFormat}, flags.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			result, err := calculator.New(logger, nil).Investment(cmd.Context(), req, req.DisplayName(0))
			if err != nil {
				return describe(err)
			}
			return render(cmd.OutOrStdout(), resolveFormat(flags.outputFormat, ""), nil, []output.InvestmentResult{result})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "name shown in the output")
	cmd.Flags().StringVar(&principal, "principal", "", "initial investment, e.g. 10,000")
	cmd.Flags().StringVar(&rate, "rate", "", "nominal annual interest rate in percent")
	cmd.Flags().StringVar(&req.Compounding, "compounding", "", "compounding frequency: annual, semiannual, quarterly, monthly, daily, continuous")
	cmd.Flags().StringVar(&inflation, "inflation", "", "annual inflation rate in percent (default 2)")
	cmd.Flags().StringVar(&term, "term", "", "investment term in whole years")
	cmd.Flags().StringVar(&payment, "payment", "", "recurring payment per period")
	cmd.Flags().StringVar(&req.AnnuityFrequency, "annuity-frequency", "", "recurring payment frequency: annual, monthly")
	cmd.Flags().StringVar(&req.AnnuityTiming, "annuity-timing", "", "recurring payment timing: immediate, due")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}

func newRunCommand(flags *globalFlags) *cobra.Command {
	var configLocation string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute every loan and investment of a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
			}
			if flags.logFormat != "" {
				conf.Logging.Format = flags.logFormat
			}

			logger, err := initializeLogger(conf.Logging, flags.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			outputFormat := resolveFormat(flags.outputFormat, conf.Output.Format)
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			for _, warning := range conf.ValidateConfiguration() {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main.run"),
				)
			}

			results, err := calculator.New(logger, nil).Run(cmd.Context(), *conf)
			if err != nil {
				logger.Error("failed to compute schedules",
					zap.String("op", "main.run"),
					zap.Error(err),
				)
				return err
			}

			return render(cmd.OutOrStdout(), outputFormat, results.Loans, results.Investments)
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	return cmd
}

func newServeCommand(flags *globalFlags) *cobra.Command {
	var configLocation string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(configLocation)
			if err != nil {
				return err
			}
			if flags.logFormat != "" {
				cfg.Logging.Format = flags.logFormat
			}

			logger, err := initializeLogger(cfg.Logging, flags.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, logger, cfg)
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config) error {
	cfg.Tracing.Version = version
	provider, err := tracing.InitTracing(ctx, logger, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	var resultCache cache.Repository
	switch {
	case cfg.Cache.Disabled:
	case cfg.Cache.RedisAddress != "":
		redisCache := cache.NewRedisCache(logger, cfg.Cache.RedisAddress, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTLDuration())
		defer func() { _ = redisCache.Close() }()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis is not reachable yet, lookups will miss until it is",
				zap.String("op", "main.serve"),
				zap.String("address", cfg.Cache.RedisAddress),
				zap.Error(err),
			)
		}
		resultCache = redisCache
	default:
		resultCache = cache.NewMemoryCache(cfg.Cache.TTLDuration())
	}

	var limiter *server.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		limiter = server.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillDuration())
		defer limiter.Stop()
	}

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		Calculator:    calculator.New(logger, provider.Tracer()),
		Cache:         resultCache,
		Limiter:       limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server",
		zap.String("op", "main.serve"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// resolveFormat picks the CLI override, then the configured format, then
// pretty.
func resolveFormat(override, configured string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	return constants.OutputFormatPretty
}

func render(w io.Writer, outputFormat string, loans []output.LoanResult, investments []output.InvestmentResult) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.WritePretty(w, loans, investments)
		return nil
	case constants.OutputFormatCSV:
		return output.WriteCSV(w, loans, investments)
	case constants.OutputFormatJSON:
		return output.WriteJSON(w, loans, investments)
	default:
		return validation.ValidateOutputFormat(outputFormat)
	}
}

// describe flattens field errors into one line per field.
func describe(err error) error {
	fieldErrs, ok := validation.AsFieldErrors(err)
	if !ok {
		return err
	}
	msg := "invalid input:"
	for _, fieldErr := range fieldErrs {
		msg += "\n  " + fieldErr.Message
	}
	return errors.New(msg)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/finance-calculator/internal/cache"
	"github.com/iwvelando/finance-calculator/internal/calculator"
	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/metrics"
	"github.com/iwvelando/finance-calculator/pkg/annuity"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"github.com/iwvelando/finance-calculator/pkg/rates"
	"github.com/iwvelando/finance-calculator/pkg/schedule"
	"github.com/iwvelando/finance-calculator/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options wires the collaborators of the HTTP handler. Nil fields disable
// the corresponding feature.
type Options struct {
	MaxUploadSize int64
	Version       string
	Calculator    *calculator.Calculator
	Cache         cache.Repository
	Limiter       *RateLimiter
}

type handler struct {
	logger        *zap.Logger
	calc          *calculator.Calculator
	cache         cache.Repository
	limiter       *RateLimiter
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	calc := opts.Calculator
	if calc == nil {
		calc = calculator.New(logger, nil)
	}

	h := &handler{
		logger:        logger,
		calc:          calc,
		cache:         opts.Cache,
		limiter:       opts.Limiter,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	api := http.NewServeMux()
	api.HandleFunc("/api/loan", h.handleLoan)
	api.HandleFunc("/api/investment", h.handleInvestment)
	api.HandleFunc("/api/batch", h.handleBatch)
	api.HandleFunc("/api/options", h.handleOptions)
	api.HandleFunc("/api/version", h.handleVersion)

	mux := http.NewServeMux()
	mux.Handle("/api/", instrument(h.rateLimitMiddleware(api)))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

type batchResponse struct {
	Loans       []output.LoanResult       `json:"loans"`
	Investments []output.InvestmentResult `json:"investments"`
	CSV         string                    `json:"csv"`
	Warnings    []string                  `json:"warnings,omitempty"`
	Duration    string                    `json:"duration"`
}

type optionsResponse struct {
	Compounding        []rates.FrequencyInfo       `json:"compounding"`
	AnnuityFrequencies []annuity.FrequencyInfo     `json:"annuityFrequencies"`
	AnnuityTimings     []annuity.TimingInfo        `json:"annuityTimings"`
	PaymentFrequencies []schedule.PaymentFrequency `json:"paymentFrequencies"`
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoan"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req config.Loan
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	h.cached(r.Context(), w, "loan", req, op, func() (interface{}, error) {
		return h.calc.Loan(r.Context(), req, req.DisplayName(0))
	})
}

func (h *handler) handleInvestment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInvestment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req config.Investment
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	h.cached(r.Context(), w, "investment", req, op, func() (interface{}, error) {
		return h.calc.Investment(r.Context(), req, req.DisplayName(0))
	})
}

func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBatch"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results, err := h.calc.Run(r.Context(), *cfg)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	response := batchResponse{
		Loans:       results.Loans,
		Investments: results.Investments,
		CSV:         output.CsvString(results.Loans, results.Investments),
		Warnings:    warnings,
		Duration:    elapsed.String(),
	}

	h.logger.Info("batch computed",
		zap.String("op", op),
		zap.Int("loans", len(response.Loans)),
		zap.Int("investments", len(response.Investments)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, optionsResponse{
		Compounding:        rates.Frequencies(),
		AnnuityFrequencies: annuity.Frequencies(),
		AnnuityTimings:     annuity.Timings(),
		PaymentFrequencies: []schedule.PaymentFrequency{schedule.PaymentMonthly, schedule.PaymentAnnual},
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// cached serves a previously computed response for an identical request, or
// computes, stores and writes a new one. The key is derived from the
// re-encoded request so that field order and whitespace do not matter.
func (h *handler) cached(ctx context.Context, w http.ResponseWriter, kind string, req interface{}, op string, compute func() (interface{}, error)) {
	var key string
	if h.cache != nil {
		normalized, err := json.Marshal(req)
		if err == nil {
			key = cache.Key(kind, string(normalized))
			if body, ok := h.cache.Get(ctx, key); ok {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				w.Header().Set("X-Cache", "HIT")
				h.writeRawJSON(w, http.StatusOK, []byte(body))
				return
			}
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	}

	result, err := compute()
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode result: %v", err), op)
		return
	}

	if key != "" {
		if err := h.cache.Set(ctx, key, string(body)); err != nil {
			h.logger.Warn("failed to cache result",
				zap.String("op", op),
				zap.Error(err),
			)
		}
		w.Header().Set("X-Cache", "MISS")
	}
	h.writeRawJSON(w, http.StatusOK, body)
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	if fieldErrs, ok := validation.AsFieldErrors(err); ok {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Fields: fieldErrs})
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculator request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

var knownRoutes = map[string]struct{}{
	"/api/loan":       {},
	"/api/investment": {},
	"/api/batch":      {},
	"/api/options":    {},
	"/api/version":    {},
}

// instrument counts API requests by route and status code.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.URL.Path
		if _, ok := knownRoutes[route]; !ok {
			route = "other"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

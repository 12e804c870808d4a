// Package metrics declares the Prometheus collectors of the calculator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcome labels.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
)

var (
	// Calculations counts computed schedules by kind (loan, investment) and status.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_calculations_total",
			Help: "Number of schedules computed, by kind and status",
		},
		[]string{"kind", "status"},
	)

	// CalculationDuration observes the time spent building a schedule.
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fincalc_calculation_duration_seconds",
			Help:    "Time spent building a schedule",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"kind"},
	)

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_http_requests_total",
			Help: "API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	// CacheLookups counts result cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"},
	)

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fincalc_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trends_provider_requests_total",
		Help: "Total number of requests sent to the trends provider.",
	}, []string{"endpoint", "outcome"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trends_provider_request_seconds",
		Help:    "Latency of a single trends provider request.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	ProviderRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trends_provider_retries_total",
		Help: "Total number of retried trends provider requests.",
	}, []string{"endpoint"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trends_analyses_total",
		Help: "Total number of analyses by outcome status.",
	}, []string{"status"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trends_analysis_seconds",
		Help:    "Time spent on a full fetch cycle.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trends_active_sessions",
		Help: "Current number of browser sessions holding a result slot.",
	})
)

// Outcome labels for ProviderRequestsTotal.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

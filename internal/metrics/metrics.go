package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Wallet counters and histograms, partitioned by method, transaction type or
// outcome.

var (
	// Ledger service
	LedgerCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "ledger",
		Name:      "calls_total",
		Help:      "Total ledger API calls by method and status",
	}, []string{"method", "status"})

	LedgerCallLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "xrplwallet",
		Subsystem: "ledger",
		Name:      "call_duration_seconds",
		Help:      "Ledger API call duration",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method"})

	LedgerRateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "ledger",
		Name:      "rate_limit_waits_total",
		Help:      "Total times ledger calls waited for the rate limiter",
	})

	LedgerEntryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "ledger",
		Name:      "entry_cache_hits_total",
		Help:      "Total ledger_entry lookups served from cache",
	})

	// Exchange
	LiquidityEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "exchange",
		Name:      "evaluations_total",
		Help:      "Total liquidity evaluations by direction and safety",
	}, []string{"direction", "safe"})

	// Lifecycle
	LifecycleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "lifecycle",
		Name:      "transitions_total",
		Help:      "Total lifecycle transitions by transaction type and target state",
	}, []string{"tx_type", "state"})

	LifecycleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "lifecycle",
		Name:      "failures_total",
		Help:      "Total failed attempts by error kind",
	}, []string{"kind"})

	SubmitRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "xrplwallet",
		Subsystem: "lifecycle",
		Name:      "submit_retries_total",
		Help:      "Total submission retries after transport failures",
	})

	VerifyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "xrplwallet",
		Subsystem: "lifecycle",
		Name:      "verify_duration_seconds",
		Help:      "Time from submission to an observed validated result",
		Buckets:   []float64{1, 2, 4, 8, 15, 30, 60, 120},
	})
)

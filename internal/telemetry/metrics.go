package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trax"

var (
	// Remote calls
	RemoteAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "remote",
		Name:      "attempts_total",
		Help:      "HTTP attempts per endpoint, including retries",
	}, []string{"endpoint"})

	RemoteCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "remote",
		Name:      "calls_total",
		Help:      "Remote calls by final outcome",
	}, []string{"endpoint", "outcome"})

	RemoteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "remote",
		Name:      "attempt_duration_seconds",
		Help:      "Duration of a single HTTP attempt",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"})

	// Captcha
	CaptchaSolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "captcha",
		Name:      "solves_total",
		Help:      "Captcha solve attempts by provider and status",
	}, []string{"provider", "status"})

	CaptchaSolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "captcha",
		Name:      "solve_duration_seconds",
		Help:      "Time spent waiting for a captcha token",
		Buckets:   []float64{5, 10, 20, 30, 60, 120, 300},
	}, []string{"provider"})

	// Chain
	StakeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "stake_results_total",
		Help:      "Zap-and-stake results: settled, empty, failed",
	}, []string{"result"})

	// Workflow / scheduler
	ClaimOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "claim_outcomes_total",
		Help:      "Final faucet claim outcome per wallet",
	}, []string{"status"})

	WalletsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "wallets_processed_total",
		Help:      "Wallets processed per sweep (ok or failed boundary)",
	}, []string{"result"})

	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "sweeps_total",
		Help:      "Completed sweeps",
	})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "sweep_duration_seconds",
		Help:      "Duration of a full sweep over all wallets",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
	})

	// Status API
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled by the status API",
	}, []string{"path", "status"})
)

// Package metrics defines the Prometheus instrumentation for the engine
// and the HTTP server that exposes it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle metrics
var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arion_cycles_total",
		Help: "Total number of analysis cycles started",
	})

	CyclesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arion_cycles_failed_total",
		Help: "Cycles aborted on total input absence",
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arion_cycle_duration_seconds",
		Help:    "End-to-end analysis cycle latency",
		Buckets: prometheus.DefBuckets,
	})

	UnifiedScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arion_unified_risk_score",
		Help: "Unified risk score of the most recent completed cycle (0-100)",
	})
)

// Agent metrics
var (
	AgentDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arion_agent_degraded_total",
		Help: "Agent invocations that fell back to a neutral, zero-confidence signal",
	}, []string{"agent"})

	AgentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arion_agent_duration_seconds",
		Help:    "Per-agent analysis latency within a cycle",
		Buckets: prometheus.DefBuckets,
	}, []string{"agent"})
)

// Alert metrics
var (
	AlertsBySeverity = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arion_alerts_total",
		Help: "Alerts emitted, by severity",
	}, []string{"severity"})
)

// API metrics
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arion_http_requests_total",
		Help: "HTTP requests by endpoint and status code",
	}, []string{"endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arion_http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

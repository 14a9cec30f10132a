// Package metrics exports the service's Prometheus series.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every series this service exports.
const namespace = "label_service"

// unmatchedRoute labels requests that matched no route, so probing clients
// cannot grow the path label without bound.
const unmatchedRoute = "unmatched"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 30, 60},
	}, []string{"method", "path", "status_code"})

	HTTPRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served.",
	})

	// DuplicateChecksTotal is labelled clean, dirty or error.
	DuplicateChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_checks_total",
		Help:      "Duplicate serial lookups by result.",
	}, []string{"result"})

	BatchesGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_generated_total",
		Help:      "Batch generation attempts by status.",
	}, []string{"status"})

	LabelsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "labels_issued_total",
		Help:      "Serials recorded in the issued history, by system.",
	}, []string{"system"})

	// BatchGenerationDuration covers rendering and recording together.
	BatchGenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_generation_duration_seconds",
		Help:      "Time to render and record a batch.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	PrintJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "print_jobs_total",
		Help:      "Print dispatches by printer and status.",
	}, []string{"printer", "status"})

	WorkflowSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workflow_sessions_active",
		Help:      "Open server-hosted workflow sessions.",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state: 0 closed, 1 open, 2 half-open.",
	}, []string{"name"})

	DocumentsPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_pruned_total",
		Help:      "Rendered label documents removed by retention.",
	})

	// AuditEventsTotal is labelled written, dropped, failed or pruned.
	AuditEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Audit journal events by disposition.",
	}, []string{"disposition"})

	AuditQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Audit events waiting to be written.",
	})

	// IdempotentReplaysTotal is labelled stored, replayed, reused or in_flight.
	IdempotentReplaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_requests_total",
		Help:      "Requests carrying an Idempotency-Key, by outcome.",
	}, []string{"outcome"})

	PanicsRecoveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_recovered_total",
		Help:      "Recovered handler panics by route.",
	}, []string{"path"})
)

// PrometheusMiddleware records latency and status per route pattern.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// RecordDuplicateCheck records the outcome of a duplicate lookup.
func RecordDuplicateCheck(result string) {
	DuplicateChecksTotal.WithLabelValues(result).Inc()
}

// RecordBatchGeneration records metrics for a batch generation.
func RecordBatchGeneration(duration time.Duration, status string) {
	BatchGenerationDuration.Observe(duration.Seconds())
	BatchesGeneratedTotal.WithLabelValues(status).Inc()
}

// RecordLabelsIssued adds count serials to the issued total for system.
func RecordLabelsIssued(system string, count int) {
	LabelsIssuedTotal.WithLabelValues(system).Add(float64(count))
}

// RecordPrintJob records a print dispatch.
func RecordPrintJob(printer, status string) {
	if printer == "" {
		printer = "default"
	}
	PrintJobsTotal.WithLabelValues(printer, status).Inc()
}

// SetActiveSessions updates the workflow session gauge.
func SetActiveSessions(n int) {
	WorkflowSessionsActive.Set(float64(n))
}

// RecordDocumentsPruned records removed expired documents.
func RecordDocumentsPruned(n int) {
	DocumentsPrunedTotal.Add(float64(n))
}

// SetCircuitBreakerState records the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAuditEvents counts n audit events with the given disposition.
func RecordAuditEvents(disposition string, n int) {
	if n <= 0 {
		return
	}
	AuditEventsTotal.WithLabelValues(disposition).Add(float64(n))
}

// SetAuditQueueDepth updates the audit queue gauge.
func SetAuditQueueDepth(n int) {
	AuditQueueDepth.Set(float64(n))
}

// RecordIdempotentRequest counts a keyed request by outcome.
func RecordIdempotentRequest(outcome string) {
	IdempotentReplaysTotal.WithLabelValues(outcome).Inc()
}

// RecordPanic counts a recovered panic on route.
func RecordPanic(route string) {
	if route == "" {
		route = unmatchedRoute
	}
	PanicsRecoveredTotal.WithLabelValues(route).Inc()
}

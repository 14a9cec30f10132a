package http

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/label-service/internal/circuitbreaker"
	"github.com/guttosm/label-service/internal/middleware"
)

// readinessTimeout bounds each dependency check of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthChecker is a dependency the readiness probe pings.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a ping function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Check calls f.
func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// DependencyStatus is one entry of the readiness report.
type DependencyStatus struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// ReadinessReport is the /readyz body.
type ReadinessReport struct {
	Status   string                            `json:"status"`
	Checks   map[string]DependencyStatus       `json:"checks"`
	Circuits map[string]circuitbreaker.Snapshot `json:"circuits,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers map[string]HealthChecker
	circuits map[string]*circuitbreaker.CircuitBreaker
}

// NewHealthHandler returns a handler with nothing registered; readiness then
// always reports ok.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: make(map[string]HealthChecker),
		circuits: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// RegisterChecker adds a dependency to the readiness probe.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterCircuitBreaker reports cb under name. Anything but a closed
// breaker makes the service not ready.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb == nil {
		return
	}
	h.circuits[name] = cb
}

// Register mounts /healthz and /readyz.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving requests.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Pings the serial history store and reports each circuit breaker. Returns 503 when any dependency fails or a breaker is not closed.
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessReport "Service is ready"
// @Failure     503 {object} ReadinessReport "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.check(c.Request.Context())
	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
		middleware.RequestLog(c).Warn().
			Strs("failing", report.failing()).
			Msg("Readiness check failed")
	}
	c.JSON(status, report)
}

// check pings every dependency concurrently, each under its own deadline.
func (h *HealthHandler) check(ctx context.Context) ReadinessReport {
	report := ReadinessReport{
		Status: "ok",
		Checks: make(map[string]DependencyStatus, len(h.checkers)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, checker := range h.checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, readinessTimeout)
			defer cancel()

			start := time.Now()
			err := checker.Check(cctx)
			ds := DependencyStatus{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				ds.Status = "down"
				ds.Error = err.Error()
			}

			mu.Lock()
			report.Checks[name] = ds
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, ds := range report.Checks {
		if ds.Status != "ok" {
			report.Status = "degraded"
		}
	}

	if len(h.circuits) > 0 {
		report.Circuits = make(map[string]circuitbreaker.Snapshot, len(h.circuits))
		for name, cb := range h.circuits {
			snap := cb.Snapshot()
			report.Circuits[name] = snap
			if !snap.Healthy() {
				report.Status = "degraded"
			}
		}
	}
	return report
}

func (r ReadinessReport) failing() []string {
	var names []string
	for name, ds := range r.Checks {
		if ds.Status != "ok" {
			names = append(names, name)
		}
	}
	for name, snap := range r.Circuits {
		if !snap.Healthy() {
			names = append(names, name+" circuit "+snap.State)
		}
	}
	sort.Strings(names)
	return names
}

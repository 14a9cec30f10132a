// Package circuitbreaker guards calls to the issued-serial store so a failing
// backend is reported as unavailable instead of being hammered.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/label-service/internal/metrics"
)

// ErrCircuitOpen is returned without calling the guarded function while the
// breaker is open, or while its single half-open probe is in flight.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker position. The numeric values are exported as the
// circuit_breaker_state gauge.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{"closed", "open", "half-open"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Config tunes a breaker.
type Config struct {
	// Name labels logs and metrics.
	Name string
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// SuccessThreshold consecutive probe successes close it again.
	SuccessThreshold int
	// Timeout is the cool-down before the first probe.
	Timeout time.Duration
	// IsFailure filters which errors count. Errors it rejects are still
	// returned to the caller but leave the breaker as if the call succeeded.
	// Nil counts every error.
	IsFailure func(error) bool
}

// DefaultConfig returns a breaker that opens after five failures and probes
// every thirty seconds.
func DefaultConfig() Config {
	return Config{
		Name:             "circuit-breaker",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker is a three-state breaker. While half-open it admits one
// probe at a time; concurrent callers are refused until the probe settles.
type CircuitBreaker struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	probing   bool
}

// New returns a closed breaker.
func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.SuccessThreshold < 1 {
		cfg.SuccessThreshold = 1
	}
	metrics.SetCircuitBreakerState(cfg.Name, int(StateClosed))
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.cfg.Name
}

// Execute calls fn unless the breaker refuses it. A done ctx is returned
// before anything else and is not counted.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	probe, err := cb.admit()
	if err != nil {
		return err
	}

	err = fn()
	cb.settle(probe, err != nil && cb.counts(err))
	return err
}

// admit decides whether a call may run and whether it is the half-open probe.
func (cb *CircuitBreaker) admit() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Before(cb.openedAt.Add(cb.cfg.Timeout)) {
			return false, ErrCircuitOpen
		}
		cb.moveTo(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if cb.probing {
			return false, ErrCircuitOpen
		}
		cb.probing = true
		return true, nil
	default:
		return false, nil
	}
}

func (cb *CircuitBreaker) settle(probe, failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if probe {
		cb.probing = false
	}

	if failed {
		cb.failures++
		cb.successes = 0
		if cb.state == StateHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.openedAt = cb.now()
			cb.moveTo(StateOpen)
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.successes = 0
			cb.moveTo(StateClosed)
		}
	}
}

// moveTo records a transition. Callers hold mu.
func (cb *CircuitBreaker) moveTo(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	metrics.SetCircuitBreakerState(cb.cfg.Name, int(to))

	event := log.Info()
	if to == StateOpen {
		event = log.Warn().Int("consecutive_failures", cb.failures)
	}
	event.Str("circuit_breaker", cb.cfg.Name).
		Stringer("from", from).
		Stringer("to", to).
		Msg("Circuit breaker state changed")
}

func (cb *CircuitBreaker) counts(err error) bool {
	return cb.cfg.IsFailure == nil || cb.cfg.IsFailure(err)
}

// State returns the current state. An open breaker whose cool-down has
// elapsed still reads as open until the next call probes it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen reports whether calls are currently refused outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Snapshot is a point-in-time view for health reporting.
type Snapshot struct {
	State               string    `json:"state"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	RetryAt             time.Time `json:"retry_at"`
}

// Healthy reports whether the breaker lets traffic through normally.
func (s Snapshot) Healthy() bool {
	return s.State == StateClosed.String()
}

// Snapshot returns the current state, failure streak and, when open, the
// earliest time of the next probe.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s := Snapshot{State: cb.state.String(), ConsecutiveFailures: cb.failures}
	if cb.state == StateOpen {
		s.RetryAt = cb.openedAt.Add(cb.cfg.Timeout)
	}
	return s
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/label-service/internal/circuitbreaker"
	"github.com/guttosm/label-service/internal/domain/model"
)

// ErrStorageUnavailable is returned when the history store is failing and
// the circuit breaker has stopped sending it requests.
var ErrStorageUnavailable = errors.New("storage unavailable")

// HistoryBreakerConfig adapts cfg so duplicate-serial conflicts do not count
// as store failures.
func HistoryBreakerConfig(cfg circuitbreaker.Config) circuitbreaker.Config {
	cfg.IsFailure = func(err error) bool {
		return !errors.Is(err, model.ErrSerialAlreadyIssued) &&
			!errors.Is(err, context.Canceled)
	}
	return cfg
}

// SerialHistoryWithCircuitBreaker wraps a SerialHistoryRepository with circuit breaker protection.
type SerialHistoryWithCircuitBreaker struct {
	repo           SerialHistoryRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSerialHistoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSerialHistoryWithCircuitBreaker(repo SerialHistoryRepository, cb *circuitbreaker.CircuitBreaker) *SerialHistoryWithCircuitBreaker {
	return &SerialHistoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// FindIssued looks up issued serials with circuit breaker protection.
func (r *SerialHistoryWithCircuitBreaker) FindIssued(ctx context.Context, systemID, year, month string, serials []string) ([]string, error) {
	var result []string
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindIssued(ctx, systemID, year, month, serials)
		return cbErr
	})
	return result, unavailable(err)
}

// RecordIssued records a batch with circuit breaker protection.
func (r *SerialHistoryWithCircuitBreaker) RecordIssued(ctx context.Context, entries []model.IssuedSerial) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.RecordIssued(ctx, entries)
	})
	return unavailable(err)
}

// History lists issued serials with circuit breaker protection.
func (r *SerialHistoryWithCircuitBreaker) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	var result []model.IssuedSerial
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.History(ctx, q)
		return cbErr
	})
	return result, unavailable(err)
}

// Ping checks the wrapped store directly; readiness must see the real state.
func (r *SerialHistoryWithCircuitBreaker) Ping(ctx context.Context) error {
	return r.repo.Ping(ctx)
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SerialHistoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

func unavailable(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return err
}

// AuditStoreWithCircuitBreaker guards an AuditStore. Audit writes never
// block issuance, so an open circuit fails them fast with ErrStorageUnavailable.
type AuditStoreWithCircuitBreaker struct {
	store          AuditStore
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAuditStoreWithCircuitBreaker wraps store.
func NewAuditStoreWithCircuitBreaker(store AuditStore, cb *circuitbreaker.CircuitBreaker) *AuditStoreWithCircuitBreaker {
	return &AuditStoreWithCircuitBreaker{store: store, circuitBreaker: cb}
}

// Append stores events with circuit breaker protection.
func (r *AuditStoreWithCircuitBreaker) Append(ctx context.Context, events []model.AuditEvent) error {
	return unavailable(r.circuitBreaker.Execute(ctx, func() error {
		return r.store.Append(ctx, events)
	}))
}

// Find lists events with circuit breaker protection.
func (r *AuditStoreWithCircuitBreaker) Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error) {
	var result []model.AuditEvent
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.store.Find(ctx, f)
		return cbErr
	})
	return result, unavailable(err)
}

// Count counts events with circuit breaker protection.
func (r *AuditStoreWithCircuitBreaker) Count(ctx context.Context, f model.AuditFilter) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.store.Count(ctx, f)
		return cbErr
	})
	return result, unavailable(err)
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *AuditStoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

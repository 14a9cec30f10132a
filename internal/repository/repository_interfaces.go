package repository

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
)

// SerialHistoryRepository stores the serials that have been issued.
// Serials are unique per (system, year, month).
type SerialHistoryRepository interface {
	// FindIssued returns the subset of serials already issued for the period.
	FindIssued(ctx context.Context, systemID, year, month string, serials []string) ([]string, error)
	// RecordIssued stores every entry or none. A collision with the history
	// yields model.ErrSerialAlreadyIssued.
	RecordIssued(ctx context.Context, entries []model.IssuedSerial) error
	// History lists issued serials, newest first.
	History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// AuditStore is the append-only audit journal.
type AuditStore interface {
	// Append stores events in order. Events must carry an ID and time.
	Append(ctx context.Context, events []model.AuditEvent) error
	// Find lists matching events, newest first.
	Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error)
	// Count returns the number of matching events, ignoring the limit.
	Count(ctx context.Context, f model.AuditFilter) (int64, error)
}

const defaultHistoryLimit = 100

func historyLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return defaultHistoryLimit
	}
	return limit
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/repository"
)

// AuditLog records and queries the audit journal.
type AuditLog interface {
	Record(ctx context.Context, events ...model.AuditEvent) error
	Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error)
	Count(ctx context.Context, f model.AuditFilter) (int64, error)
}

// AuditJournal stamps events and hands them to an AuditStore.
type AuditJournal struct {
	store repository.AuditStore
	now   func() time.Time
}

// NewAuditJournal returns a journal over store.
func NewAuditJournal(store repository.AuditStore) *AuditJournal {
	return &AuditJournal{store: store, now: time.Now}
}

// Record assigns missing IDs and timestamps and appends the events.
func (j *AuditJournal) Record(ctx context.Context, events ...model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	stamped := make([]model.AuditEvent, len(events))
	for i, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.At.IsZero() {
			e.At = j.now()
		}
		if e.Outcome == "" {
			e.Outcome = model.OutcomeOK
		}
		e.At = e.At.UTC()
		stamped[i] = e
	}
	return j.store.Append(ctx, stamped)
}

// Find lists matching events, newest first.
func (j *AuditJournal) Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error) {
	return j.store.Find(ctx, f)
}

// Count returns the number of matching events.
func (j *AuditJournal) Count(ctx context.Context, f model.AuditFilter) (int64, error) {
	return j.store.Count(ctx, f)
}

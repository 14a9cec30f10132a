package app

import (
	"context"
	"time"

	"github.com/guttosm/label-service/internal/metrics"
	"github.com/rs/zerolog/log"
)

// DocumentPruner removes rendered documents older than a retention window.
type DocumentPruner interface {
	Prune(retention time.Duration) (int, error)
}

// AuditPruner deletes journal events recorded before a cutoff.
type AuditPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor periodically prunes rendered label documents and, for stores
// without native expiry, old audit events.
type Janitor struct {
	documents DocumentPruner
	retention time.Duration
	interval  time.Duration

	audit          AuditPruner
	auditRetention time.Duration
	now            func() time.Time
}

// JanitorOption configures a Janitor.
type JanitorOption func(*Janitor)

// WithAuditPruning also prunes audit events older than retention.
// A nil pruner or non-positive retention leaves the journal alone.
func WithAuditPruning(pruner AuditPruner, retention time.Duration) JanitorOption {
	return func(j *Janitor) {
		if pruner != nil && retention > 0 {
			j.audit = pruner
			j.auditRetention = retention
		}
	}
}

// NewJanitor creates a janitor. A non-positive interval defaults to an hour.
func NewJanitor(documents DocumentPruner, retention, interval time.Duration, opts ...JanitorOption) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	j := &Janitor{documents: documents, retention: retention, interval: interval, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// PruneOnce runs a single pruning pass and reports what was removed.
func (j *Janitor) PruneOnce(ctx context.Context) (documents int, events int64) {
	if j.retention > 0 {
		n, err := j.documents.Prune(j.retention)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to prune label documents")
		}
		if n > 0 {
			metrics.RecordDocumentsPruned(n)
			log.Info().Int("removed", n).Dur("retention", j.retention).Msg("Pruned label documents")
		}
		documents = n
	}

	if j.audit != nil {
		n, err := j.audit.PruneBefore(ctx, j.now().Add(-j.auditRetention))
		if err != nil {
			log.Warn().Err(err).Msg("Failed to prune audit events")
		}
		if n > 0 {
			metrics.RecordAuditEvents("pruned", int(n))
			log.Info().Int64("removed", n).Dur("retention", j.auditRetention).Msg("Pruned audit events")
		}
		events = n
	}
	return documents, events
}

// Run prunes once, then on every interval until ctx is done.
// It returns immediately when there is nothing to prune.
func (j *Janitor) Run(ctx context.Context) {
	if j.retention <= 0 && j.audit == nil {
		return
	}
	j.PruneOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.PruneOnce(ctx)
		}
	}
}

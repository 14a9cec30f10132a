//go:build !integration

package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	calls     atomic.Int32
	retention time.Duration
	removed   int
	err       error
}

func (p *fakePruner) Prune(retention time.Duration) (int, error) {
	p.calls.Add(1)
	p.retention = retention
	return p.removed, p.err
}

type fakeAuditPruner struct {
	calls   atomic.Int32
	cutoff  time.Time
	removed int64
	err     error
}

func (p *fakeAuditPruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.calls.Add(1)
	p.cutoff = cutoff
	return p.removed, p.err
}

func TestJanitor_PruneOnce(t *testing.T) {
	tests := []struct {
		name     string
		pruner   *fakePruner
		expected int
	}{
		{"removes expired documents", &fakePruner{removed: 3}, 3},
		{"nothing to remove", &fakePruner{}, 0},
		{"errors are logged", &fakePruner{removed: 1, err: errors.New("permission denied")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewJanitor(tt.pruner, 2*time.Hour, time.Minute)

			docs, events := j.PruneOnce(context.Background())
			assert.Equal(t, tt.expected, docs)
			assert.Zero(t, events)
			assert.Equal(t, 2*time.Hour, tt.pruner.retention)
		})
	}
}

func TestJanitor_AuditPruning(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		audit      *fakeAuditPruner
		retention  time.Duration
		wantCalls  int32
		wantEvents int64
	}{
		{"prunes past retention", &fakeAuditPruner{removed: 12}, 30 * 24 * time.Hour, 1, 12},
		{"failure is logged", &fakeAuditPruner{err: errors.New("database is locked")}, time.Hour, 1, 0},
		{"zero retention keeps everything", &fakeAuditPruner{removed: 5}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewJanitor(&fakePruner{}, 0, time.Minute, WithAuditPruning(tt.audit, tt.retention))
			j.now = func() time.Time { return now }

			_, events := j.PruneOnce(context.Background())

			assert.Equal(t, tt.wantEvents, events)
			assert.Equal(t, tt.wantCalls, tt.audit.calls.Load())
			if tt.wantCalls > 0 {
				assert.Equal(t, now.Add(-tt.retention), tt.audit.cutoff)
			}
		})
	}
}

func TestJanitor_Run(t *testing.T) {
	t.Run("prunes immediately then on interval", func(t *testing.T) {
		pruner := &fakePruner{}
		j := NewJanitor(pruner, time.Hour, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			j.Run(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return pruner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done
	})

	t.Run("audit pruning alone keeps it running", func(t *testing.T) {
		docs := &fakePruner{}
		audit := &fakeAuditPruner{}
		j := NewJanitor(docs, 0, 10*time.Millisecond, WithAuditPruning(audit, time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			j.Run(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return audit.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done
		assert.Zero(t, docs.calls.Load(), "document retention disabled")
	})

	t.Run("nothing to prune returns at once", func(t *testing.T) {
		pruner := &fakePruner{}
		j := NewJanitor(pruner, 0, 0)

		j.Run(context.Background())

		assert.Zero(t, pruner.calls.Load())
		assert.Equal(t, time.Hour, j.interval)
	})
}

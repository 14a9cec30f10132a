package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/logger"
	"github.com/guttosm/label-service/internal/metrics"
)

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Record(ctx context.Context, events ...model.AuditEvent) error
}

// AuditQueueConfig sizes the queue in front of the journal.
type AuditQueueConfig struct {
	BufferSize    int
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
}

// DefaultAuditQueueConfig returns the queue settings used by the server.
func DefaultAuditQueueConfig() AuditQueueConfig {
	return AuditQueueConfig{
		BufferSize:    1024,
		Workers:       2,
		BatchSize:     64,
		FlushInterval: time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

func (c AuditQueueConfig) normalized() AuditQueueConfig {
	d := DefaultAuditQueueConfig()
	if c.BufferSize <= 0 {
		c.BufferSize = d.BufferSize
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = d.FlushInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	return c
}

// AuditQueueStats counts events by fate.
type AuditQueueStats struct {
	Accepted int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AuditQueue batches audit events onto a fixed pool of writers so request
// handling never waits on the journal. Events submitted while the buffer is
// full are dropped.
type AuditQueue struct {
	recorder AuditRecorder
	cfg      AuditQueueConfig
	events   chan model.AuditEvent
	stop     chan struct{}
	wg       sync.WaitGroup
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool

	accepted, dropped, written, failed atomic.Int64
}

// NewAuditQueue starts the writers.
func NewAuditQueue(recorder AuditRecorder, cfg AuditQueueConfig) *AuditQueue {
	cfg = cfg.normalized()
	q := &AuditQueue{
		recorder: recorder,
		cfg:      cfg,
		events:   make(chan model.AuditEvent, cfg.BufferSize),
		stop:     make(chan struct{}),
		log:      logger.Component("audit_queue"),
	}
	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
	return q
}

// Submit enqueues e and reports whether it was accepted.
func (q *AuditQueue) Submit(e model.AuditEvent) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.drop()
		return false
	}
	select {
	case q.events <- e:
		q.accepted.Add(1)
		metrics.SetAuditQueueDepth(len(q.events))
		return true
	default:
		q.drop()
		return false
	}
}

func (q *AuditQueue) drop() {
	q.dropped.Add(1)
	metrics.RecordAuditEvents("dropped", 1)
}

// Close stops accepting events, writes what is buffered and waits for the
// writers. It is safe to call more than once.
func (q *AuditQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.stop)
	q.mu.Unlock()

	q.wg.Wait()
	metrics.SetAuditQueueDepth(0)
}

// Stats returns the counters so far.
func (q *AuditQueue) Stats() AuditQueueStats {
	return AuditQueueStats{
		Accepted: q.accepted.Load(),
		Dropped:  q.dropped.Load(),
		Written:  q.written.Load(),
		Failed:   q.failed.Load(),
	}
}

func (q *AuditQueue) run() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]model.AuditEvent, 0, q.cfg.BatchSize)
	for {
		select {
		case e := <-q.events:
			batch = append(batch, e)
			if len(batch) >= q.cfg.BatchSize {
				batch = q.flush(batch)
			}
		case <-ticker.C:
			batch = q.flush(batch)
		case <-q.stop:
			for {
				select {
				case e := <-q.events:
					batch = append(batch, e)
					if len(batch) >= q.cfg.BatchSize {
						batch = q.flush(batch)
					}
				default:
					q.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes batch and returns it emptied for reuse.
func (q *AuditQueue) flush(batch []model.AuditEvent) []model.AuditEvent {
	if len(batch) == 0 {
		return batch
	}
	metrics.SetAuditQueueDepth(len(q.events))

	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.WriteTimeout)
	defer cancel()

	n := len(batch)
	if err := q.recorder.Record(ctx, batch...); err != nil {
		q.failed.Add(int64(n))
		metrics.RecordAuditEvents("failed", n)
		q.log.Warn().Err(err).Int("events", n).Msg("Failed to write audit events")
	} else {
		q.written.Add(int64(n))
		metrics.RecordAuditEvents("written", n)
	}
	return batch[:0]
}

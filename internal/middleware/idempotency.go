package middleware

import (
	"bytes"
	"crypto/sha256"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/metrics"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key for an unsafe request.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the replay cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultReplayTTL is how long a stored response can be replayed.
	DefaultReplayTTL = 5 * time.Minute
)

// replayedHeaders are the response headers kept with a stored response.
var replayedHeaders = []string{"Content-Type", "Content-Disposition", "Location"}

type replayEntry struct {
	fingerprint [sha256.Size]byte
	pending     bool
	status      int
	header      http.Header
	body        []byte
	stored      time.Time
}

// ReplayCache remembers the outcome of keyed POST, PUT and PATCH requests so
// a retried batch generation does not issue its serials twice. Keys are
// scoped to the operator, method and path. Only 2xx responses are stored; a
// failed request frees its key for a retry.
type ReplayCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]*replayEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewReplayCache creates a cache whose entries expire after ttl.
func NewReplayCache(ttl time.Duration) *ReplayCache {
	if ttl <= 0 {
		ttl = DefaultReplayTTL
	}
	return &ReplayCache{
		ttl:     ttl,
		entries: make(map[string]*replayEntry),
		now:     time.Now,
	}
}

// Len returns the number of live entries, pending ones included.
func (rc *ReplayCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.sweepLocked(rc.now(), true)
	return len(rc.entries)
}

type claim int

const (
	claimed claim = iota
	claimReplay
	claimReused
	claimInFlight
)

// claim reserves scope for a new request, or reports why it cannot run.
func (rc *ReplayCache) claim(scope string, fp [sha256.Size]byte) (claim, *replayEntry) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := rc.now()
	rc.sweepLocked(now, false)

	if e, ok := rc.entries[scope]; ok && now.Sub(e.stored) <= rc.ttl {
		switch {
		case e.fingerprint != fp:
			return claimReused, nil
		case e.pending:
			return claimInFlight, nil
		default:
			return claimReplay, e
		}
	}
	rc.entries[scope] = &replayEntry{fingerprint: fp, pending: true, stored: now}
	return claimed, nil
}

func (rc *ReplayCache) complete(scope string, status int, header http.Header, body []byte) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	e, ok := rc.entries[scope]
	if !ok || !e.pending {
		return
	}
	if status < 200 || status >= 300 {
		delete(rc.entries, scope)
		return
	}
	e.pending = false
	e.status = status
	e.header = header
	e.body = body
	e.stored = rc.now()
}

func (rc *ReplayCache) release(scope string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if e, ok := rc.entries[scope]; ok && e.pending {
		delete(rc.entries, scope)
	}
}

// sweepLocked drops expired entries, at most once per ttl unless forced.
// Pending entries are kept until their request completes.
func (rc *ReplayCache) sweepLocked(now time.Time, force bool) {
	if !force && now.Sub(rc.lastSweep) < rc.ttl {
		return
	}
	rc.lastSweep = now
	for scope, e := range rc.entries {
		if !e.pending && now.Sub(e.stored) > rc.ttl {
			delete(rc.entries, scope)
		}
	}
}

// Idempotency replays stored responses for requests carrying an
// Idempotency-Key. A key reused with a different body is rejected with 422;
// a key whose first request is still running is rejected with 409.
func Idempotency(cache *ReplayCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if cache == nil || key == "" || !isUnsafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewError(dto.ErrCodeInvalidRequest, messages.Get(messages.ErrKeyInvalidRequestBody)).
					WithRequestID(GetRequestID(c)))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		scope := GetOperator(c) + "\x00" + c.Request.Method + " " + c.Request.URL.Path + "\x00" + key
		outcome, entry := cache.claim(scope, sha256.Sum256(body))
		switch outcome {
		case claimReplay:
			metrics.RecordIdempotentRequest("replayed")
			for name, values := range entry.header {
				for _, v := range values {
					c.Writer.Header().Add(name, v)
				}
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(entry.status, entry.header.Get("Content-Type"), entry.body)
			c.Abort()
			return
		case claimReused:
			metrics.RecordIdempotentRequest("reused")
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
				dto.NewError(dto.ErrCodeConflict, messages.Get(messages.ErrKeyIdempotencyReused)).
					WithRequestID(GetRequestID(c)))
			return
		case claimInFlight:
			metrics.RecordIdempotentRequest("in_flight")
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewError(dto.ErrCodeConflict, messages.Get(messages.ErrKeyIdempotencyInFlight)).
					WithRequestID(GetRequestID(c)))
			return
		}

		// A panicking handler must not leave the key pending.
		defer cache.release(scope)

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		kept := make(http.Header)
		for _, name := range replayedHeaders {
			if v := rec.Header().Values(name); len(v) > 0 {
				kept[name] = append([]string(nil), v...)
			}
		}
		cache.complete(scope, rec.Status(), kept, rec.body.Bytes())
		if rec.Status() >= 200 && rec.Status() < 300 {
			metrics.RecordIdempotentRequest("stored")
		}
	}
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// recordingWriter tees the response body.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

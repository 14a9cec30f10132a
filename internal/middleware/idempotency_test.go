package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replayFixture struct {
	cache  *ReplayCache
	router *gin.Engine
	calls  atomic.Int32
	status int
	clock  *fakeClock
}

func newReplayFixture(t *testing.T) *replayFixture {
	t.Helper()
	f := &replayFixture{
		cache:  NewReplayCache(time.Minute),
		status: http.StatusCreated,
		clock:  &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
	}
	f.cache.now = f.clock.now

	f.router = gin.New()
	f.router.Use(func(c *gin.Context) {
		if op := c.GetHeader("X-Test-Operator"); op != "" {
			c.Set(OperatorContextKey, op)
		}
		c.Next()
	})
	f.router.Use(Idempotency(f.cache))
	handle := func(c *gin.Context) {
		n := f.calls.Add(1)
		c.Header("Content-Disposition", "inline")
		c.JSON(f.status, gin.H{"batch": n})
	}
	f.router.POST("/api/generate-batch", handle)
	f.router.POST("/api/print-label", handle)
	f.router.GET("/api/history", handle)
	return f
}

func (f *replayFixture) send(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

const batchBody = `{"system_name":"Line 1","start_serial":"0100","quantity":3}`

func TestIdempotency(t *testing.T) {
	tests := []struct {
		name      string
		run       func(f *replayFixture) *httptest.ResponseRecorder
		wantCode  int
		wantCalls int32
		replayed  bool
	}{
		{
			name: "same key and body replays the stored response",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
				return f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
			},
			wantCode:  http.StatusCreated,
			wantCalls: 1,
			replayed:  true,
		},
		{
			name: "same key with a different body is rejected",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
				return f.send(http.MethodPost, "/api/generate-batch", `{"quantity":4}`, IdempotencyKeyHeader, "k1")
			},
			wantCode:  http.StatusUnprocessableEntity,
			wantCalls: 1,
		},
		{
			name: "keys are scoped to the path",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
				return f.send(http.MethodPost, "/api/print-label", batchBody, IdempotencyKeyHeader, "k1")
			},
			wantCode:  http.StatusCreated,
			wantCalls: 2,
		},
		{
			name: "keys are scoped to the operator",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1", "X-Test-Operator", "alice")
				return f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1", "X-Test-Operator", "bob")
			},
			wantCode:  http.StatusCreated,
			wantCalls: 2,
		},
		{
			name: "requests without a key always run",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodPost, "/api/generate-batch", batchBody)
				return f.send(http.MethodPost, "/api/generate-batch", batchBody)
			},
			wantCode:  http.StatusCreated,
			wantCalls: 2,
		},
		{
			name: "safe methods ignore the key",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodGet, "/api/history", "", IdempotencyKeyHeader, "k1")
				return f.send(http.MethodGet, "/api/history", "", IdempotencyKeyHeader, "k1")
			},
			wantCode:  http.StatusCreated,
			wantCalls: 2,
		},
		{
			name: "failed responses free the key",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.status = http.StatusConflict
				f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
				f.status = http.StatusCreated
				return f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
			},
			wantCode:  http.StatusCreated,
			wantCalls: 2,
		},
		{
			name: "expired entries run again",
			run: func(f *replayFixture) *httptest.ResponseRecorder {
				f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
				f.clock.advance(2 * time.Minute)
				return f.send(http.MethodPost, "/api/generate-batch", batchBody, IdempotencyKeyHeader, "k1")
			},
			wantCode:  http.StatusCreated,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReplayFixture(t)

			w := tt.run(f)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCalls, f.calls.Load())
			if tt.replayed {
				assert.Equal(t, "true", w.Header().Get(IdempotencyReplayedHeader))
				assert.Equal(t, "inline", w.Header().Get("Content-Disposition"))
				assert.JSONEq(t, `{"batch":1}`, w.Body.String())
			} else {
				assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
			}
		})
	}
}

func TestIdempotency_InFlight(t *testing.T) {
	cache := NewReplayCache(time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})

	router := gin.New()
	router.Use(Idempotency(cache))
	router.POST("/api/generate-batch", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusCreated)
	})

	first := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-batch", strings.NewReader(batchBody))
		req.Header.Set(IdempotencyKeyHeader, "k1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		first <- w.Code
	}()
	<-entered

	req := httptest.NewRequest(http.MethodPost, "/api/generate-batch", strings.NewReader(batchBody))
	req.Header.Set(IdempotencyKeyHeader, "k1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "still being processed")

	close(release)
	assert.Equal(t, http.StatusCreated, <-first)
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	cache := NewReplayCache(time.Minute)
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(Idempotency(cache))
	router.POST("/api/print-label", func(c *gin.Context) { panic("spooler") })

	req := httptest.NewRequest(http.MethodPost, "/api/print-label", strings.NewReader(batchBody))
	req.Header.Set(IdempotencyKeyHeader, "k1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Zero(t, cache.Len())
}

func TestIdempotency_NilCache(t *testing.T) {
	router := gin.New()
	router.Use(Idempotency(nil))
	router.POST("/api/generate-batch", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/generate-batch", strings.NewReader(batchBody))
	req.Header.Set(IdempotencyKeyHeader, "k1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReplayCache_Sweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	cache := NewReplayCache(time.Minute)
	cache.now = clock.now

	outcome, _ := cache.claim("done", [32]byte{1})
	require.Equal(t, claimed, outcome)
	cache.complete("done", http.StatusCreated, nil, []byte("{}"))
	outcome, _ = cache.claim("pending", [32]byte{2})
	require.Equal(t, claimed, outcome)
	require.Equal(t, 2, cache.Len())

	clock.advance(2 * time.Minute)
	assert.Equal(t, 1, cache.Len(), "pending entries outlive the ttl")

	cache.release("pending")
	assert.Zero(t, cache.Len())
}

func TestNewReplayCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultReplayTTL, NewReplayCache(0).ttl)
}

package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
)

const limiterShards = 16

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type bucketShard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// RateLimiter hands each caller a token bucket refilled at limit tokens per
// window, with a burst of limit. Idle buckets are swept from the request
// path, so the limiter owns no goroutine.
type RateLimiter struct {
	limit  int
	window time.Duration
	every  rate.Limit
	shards [limiterShards]bucketShard
	now    func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewRateLimiter allows limit requests per window for each caller.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		limit:  limit,
		window: window,
		every:  rate.Every(window / time.Duration(limit)),
		now:    time.Now,
	}
	for i := range rl.shards {
		rl.shards[i].buckets = make(map[string]*bucket)
	}
	return rl
}

func (rl *RateLimiter) shard(caller string) *bucketShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(caller))
	return &rl.shards[h.Sum32()%limiterShards]
}

// take spends one token for caller. When the bucket is empty it reports how
// long until the next token.
func (rl *RateLimiter) take(caller string) (remaining int, retryAfter time.Duration) {
	now := rl.now()
	rl.maybeSweep(now)

	s := rl.shard(caller)
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[caller]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.every, rl.limit)}
		s.buckets[caller] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return 0, delay
	}
	return int(math.Max(0, b.limiter.TokensAt(now))), 0
}

// maybeSweep drops buckets idle for two windows, at most once per window.
func (rl *RateLimiter) maybeSweep(now time.Time) {
	rl.sweepMu.Lock()
	if now.Sub(rl.lastSweep) < rl.window {
		rl.sweepMu.Unlock()
		return
	}
	rl.lastSweep = now
	rl.sweepMu.Unlock()

	idle := 2 * rl.window
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		for caller, b := range s.buckets {
			if now.Sub(b.lastSeen) > idle {
				delete(s.buckets, caller)
			}
		}
		s.mu.Unlock()
	}
}

// Callers returns the number of tracked callers.
func (rl *RateLimiter) Callers() int {
	n := 0
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		n += len(s.buckets)
		s.mu.Unlock()
	}
	return n
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return rl.middleware(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// OperatorRateLimit limits requests per verified operator. Anonymous
// callers share a bucket per client IP.
func (rl *RateLimiter) OperatorRateLimit() gin.HandlerFunc {
	return rl.middleware(func(c *gin.Context) string {
		if op := GetOperator(c); op != model.AnonymousOperator {
			return "operator:" + op
		}
		return "ip:" + c.ClientIP()
	})
}

func (rl *RateLimiter) middleware(callerOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, retryAfter := rl.take(callerOf(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, messages.Get(messages.ErrKeyRateLimitExceeded)).
					WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

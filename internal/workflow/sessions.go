package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/label-service/internal/logger"
	"github.com/guttosm/label-service/internal/metrics"
)

// ErrSessionNotFound is returned for unknown or evicted sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is a Controller hosted by the server for one operator.
type Session struct {
	*Controller
	ID        string
	Operator  string
	CreatedAt time.Time
}

// Registry holds the server-hosted sessions and evicts idle ones.
type Registry struct {
	backend Backend
	idleTTL time.Duration
	now     func() time.Time
	opts    []Option

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *Session
	lastUsed time.Time
}

// NewRegistry creates a Registry whose sessions talk to backend. opts are
// applied to every Controller it creates.
func NewRegistry(backend Backend, idleTTL time.Duration, opts ...Option) *Registry {
	return &Registry{
		backend:  backend,
		idleTTL:  idleTTL,
		now:      time.Now,
		opts:     opts,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create starts a session and initializes its controller. Initialization
// failures are reported through the session status, not as an error.
func (r *Registry) Create(ctx context.Context, operator string, opts ...Option) *Session {
	id := uuid.NewString()
	sessionLog := logger.Component("workflow").With().Str("session_id", id).Logger()

	all := make([]Option, 0, len(r.opts)+len(opts)+1)
	all = append(all, WithLogger(sessionLog))
	all = append(all, r.opts...)
	all = append(all, opts...)

	s := &Session{
		Controller: New(r.backend, all...),
		ID:         id,
		Operator:   operator,
		CreatedAt:  r.now(),
	}
	if err := s.Initialize(ctx); err != nil {
		sessionLog.Warn().Err(err).Msg("Session initialized with errors")
	}

	r.mu.Lock()
	r.sessions[id] = &sessionEntry{session: s, lastUsed: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveSessions(n)
	sessionLog.Info().Str("operator", operator).Msg("Workflow session created")
	return s
}

// Get returns the session and marks it used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastUsed = r.now()
	return e.session, nil
}

// Delete closes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	metrics.SetActiveSessions(n)
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle removes sessions unused for longer than the idle TTL. Sessions
// with a call outstanding are kept.
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) && !e.session.Busy() {
			delete(r.sessions, id)
			evicted++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if evicted > 0 {
		metrics.SetActiveSessions(n)
		log.Info().Int("evicted", evicted).Int("active", n).Msg("Evicted idle workflow sessions")
	}
	return evicted
}

// Run evicts idle sessions periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

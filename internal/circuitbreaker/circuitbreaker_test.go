//go:build !integration

package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errDisk     = errors.New("disk I/O error")
	errConflict = errors.New("serial already issued")
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func newTestBreaker(failures, successes int, isFailure func(error) bool) (*CircuitBreaker, *testClock) {
	clock := &testClock{t: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	cb := New(Config{
		Name:             "test",
		FailureThreshold: failures,
		SuccessThreshold: successes,
		Timeout:          time.Minute,
		IsFailure:        isFailure,
	})
	cb.now = clock.now
	return cb, clock
}

func returning(err error) func() error { return func() error { return err } }

// step is one call against the breaker: wait advances the clock first.
type step struct {
	wait      time.Duration
	err       error
	wantErr   error
	wantState State
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		successes int
		isFailure func(error) bool
		steps     []step
	}{
		{
			name:     "stays closed below the threshold",
			failures: 3, successes: 1,
			steps: []step{
				{err: errDisk, wantErr: errDisk, wantState: StateClosed},
				{err: errDisk, wantErr: errDisk, wantState: StateClosed},
				{wantState: StateClosed},
				{err: errDisk, wantErr: errDisk, wantState: StateClosed},
			},
		},
		{
			name:     "opens at the threshold and refuses calls",
			failures: 2, successes: 1,
			steps: []step{
				{err: errDisk, wantErr: errDisk, wantState: StateClosed},
				{err: errDisk, wantErr: errDisk, wantState: StateOpen},
				{wantErr: ErrCircuitOpen, wantState: StateOpen},
				{wait: 59 * time.Second, wantErr: ErrCircuitOpen, wantState: StateOpen},
			},
		},
		{
			name:     "closes after enough probe successes",
			failures: 1, successes: 2,
			steps: []step{
				{err: errDisk, wantErr: errDisk, wantState: StateOpen},
				{wait: time.Minute, wantState: StateHalfOpen},
				{wantState: StateClosed},
			},
		},
		{
			name:     "a failed probe reopens for another cool-down",
			failures: 3, successes: 1,
			steps: []step{
				{err: errDisk, wantErr: errDisk},
				{err: errDisk, wantErr: errDisk},
				{err: errDisk, wantErr: errDisk, wantState: StateOpen},
				{wait: time.Minute, err: errDisk, wantErr: errDisk, wantState: StateOpen},
				{wait: 30 * time.Second, wantErr: ErrCircuitOpen, wantState: StateOpen},
				{wait: 30 * time.Second, wantState: StateClosed},
			},
		},
		{
			name:     "ignored errors are returned but not counted",
			failures: 1, successes: 1,
			isFailure: func(err error) bool { return !errors.Is(err, errConflict) },
			steps: []step{
				{err: errConflict, wantErr: errConflict, wantState: StateClosed},
				{err: errConflict, wantErr: errConflict, wantState: StateClosed},
				{err: errDisk, wantErr: errDisk, wantState: StateOpen},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, clock := newTestBreaker(tt.failures, tt.successes, tt.isFailure)

			for i, s := range tt.steps {
				clock.t = clock.t.Add(s.wait)
				called := false
				err := cb.Execute(context.Background(), func() error {
					called = true
					return s.err
				})

				if s.wantErr != nil {
					assert.ErrorIs(t, err, s.wantErr, "step %d", i)
				} else {
					assert.NoError(t, err, "step %d", i)
				}
				assert.Equal(t, !errors.Is(s.wantErr, ErrCircuitOpen), called, "step %d called", i)
				assert.Equal(t, s.wantState, cb.State(), "step %d state", i)
			}
		})
	}
}

func TestCircuitBreaker_SingleProbe(t *testing.T) {
	cb, clock := newTestBreaker(1, 1, nil)
	ctx := context.Background()
	_ = cb.Execute(ctx, returning(errDisk))
	clock.t = clock.t.Add(time.Minute)

	entered := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = cb.Execute(ctx, func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	assert.ErrorIs(t, cb.Execute(ctx, returning(nil)), ErrCircuitOpen, "second caller waits for the probe")
	assert.Equal(t, StateHalfOpen, cb.State())

	close(release)
	wg.Wait()
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb, _ := newTestBreaker(1, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Execute(ctx, func() error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State(), "cancellation is not a failure")
}

func TestCircuitBreaker_Snapshot(t *testing.T) {
	cb, clock := newTestBreaker(2, 1, nil)
	ctx := context.Background()

	_ = cb.Execute(ctx, returning(errDisk))
	snap := cb.Snapshot()
	assert.Equal(t, Snapshot{State: "closed", ConsecutiveFailures: 1}, snap)
	assert.True(t, snap.Healthy())

	_ = cb.Execute(ctx, returning(errDisk))
	snap = cb.Snapshot()
	assert.Equal(t, "open", snap.State)
	assert.Equal(t, 2, snap.ConsecutiveFailures)
	assert.Equal(t, clock.t.Add(time.Minute), snap.RetryAt)
	assert.False(t, snap.Healthy())
	assert.True(t, cb.IsOpen())
}

func TestNew_ClampsThresholds(t *testing.T) {
	cb := New(Config{Name: "clamped"})
	require.Equal(t, "clamped", cb.Name())

	_ = cb.Execute(context.Background(), returning(errDisk))
	assert.True(t, cb.IsOpen(), "a zero threshold opens on the first failure")
}

func TestState_String(t *testing.T) {
	for state, want := range map[State]string{
		StateClosed:   "closed",
		StateOpen:     "open",
		StateHalfOpen: "half-open",
		State(42):     "unknown",
		State(-1):     "unknown",
	} {
		assert.Equal(t, want, state.String())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.FailureThreshold)
	assert.Equal(t, 2, cfg.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Nil(t, cfg.IsFailure)
}

// internal/runner/runner.go
package runner

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/meetscribe/internal/store"
	"github.com/user/meetscribe/internal/types"
)

// defaultStay bounds a scheduled run whose meeting has no stay duration
// configured.
const defaultStay = time.Hour

// RunFunc executes one capture session for a meeting. It blocks until the
// session ends or ctx is cancelled.
type RunFunc func(ctx context.Context, meeting *store.Meeting) error

// Runner executes scheduled meeting joins with a global concurrency cap.
// Each fired meeting runs in its own goroutine behind a weighted semaphore;
// when the cap is reached, new triggers are dropped rather than queued so a
// backlog of missed schedules never joins meetings late.
type Runner struct {
	run       RunFunc
	semaphore *semaphore.Weighted
	active    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Runner that allows up to maxConcurrent sessions at once.
func New(maxConcurrent int64, run RunFunc) *Runner {
	return &Runner{
		run:       run,
		semaphore: semaphore.NewWeighted(maxConcurrent),
	}
}

// Start initialises the runner's context. Must be called before Trigger.
func (r *Runner) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)
}

// Stop cancels all in-flight sessions and waits for them to finish.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Trigger starts a session for the meeting if a concurrency slot is free.
// Returns false when the run was dropped because the cap is reached.
func (r *Runner) Trigger(meeting *store.Meeting) bool {
	if !r.semaphore.TryAcquire(1) {
		slog.Warn("concurrency cap reached, skipping scheduled join",
			"name", meeting.Name, "active", r.active.Load())
		return false
	}

	runID := types.NewRunID()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.semaphore.Release(1)

		r.active.Add(1)
		defer r.active.Add(-1)

		stay := defaultStay
		if meeting.Stay != "" {
			d, err := time.ParseDuration(meeting.Stay)
			if err != nil {
				slog.Error("invalid stay duration, using default",
					"name", meeting.Name, "stay", meeting.Stay, "error", err)
			} else {
				stay = d
			}
		}

		ctx, cancel := context.WithTimeout(r.ctx, stay)
		defer cancel()

		slog.Info("starting scheduled session", "run_id", runID, "name", meeting.Name, "stay", stay)
		if err := r.run(ctx, meeting); err != nil {
			slog.Error("scheduled session failed", "run_id", runID, "name", meeting.Name, "error", err)
		}
	}()
	return true
}

// Active reports the number of sessions currently running.
func (r *Runner) Active() int64 {
	return r.active.Load()
}

// WaitIdle blocks until no sessions are running, or the timeout expires.
// Returns true if idle, false if timed out.
func (r *Runner) WaitIdle(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if r.active.Load() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}

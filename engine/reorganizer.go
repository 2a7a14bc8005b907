package engine

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Reorganizer runs reorganizations as background tasks, at most one at a
// time. A request arriving while one is in flight is rejected with
// ErrReorganizationRunning; requests are never queued, so there is no
// backlog to drain.
//
// Run protocol:
//  1. under the lock: set the active flag, shallow-copy every table into
//     the shadow (gated callers block only for this copy),
//  2. outside the lock: let the policy reorder the shadow,
//  3. under the lock: swap the shadow in, clear the flag, broadcast.
//
// The flag is cleared and waiters are woken on every exit path, including
// a panic inside the policy, so a faulty sort can never strand gated
// callers.
type Reorganizer struct {
	store   *Store
	logger  *slog.Logger
	metrics Recorder

	running  atomic.Bool
	wg       sync.WaitGroup
	onFinish func(policy string, err error)
}

// ReorganizerOption configures a Reorganizer.
type ReorganizerOption func(*Reorganizer)

// WithReorganizerLogger sets the structured logger. Defaults to a
// discarding logger.
func WithReorganizerLogger(l *slog.Logger) ReorganizerOption {
	return func(r *Reorganizer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithReorganizerRecorder sets the latency recorder. Defaults to
// NoopRecorder.
func WithReorganizerRecorder(rec Recorder) ReorganizerOption {
	return func(r *Reorganizer) {
		if rec != nil {
			r.metrics = rec
		}
	}
}

// WithOnFinish registers a callback invoked after each run completes, with
// the policy name and the run's error (nil on success).
func WithOnFinish(fn func(policy string, err error)) ReorganizerOption {
	return func(r *Reorganizer) {
		r.onFinish = fn
	}
}

// NewReorganizer creates a Reorganizer for store.
func NewReorganizer(store *Store, optFns ...ReorganizerOption) *Reorganizer {
	r := &Reorganizer{
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NoopRecorder{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(r)
		}
	}
	return r
}

// Running reports whether a reorganization is in flight.
func (r *Reorganizer) Running() bool {
	return r.running.Load()
}

// Wait blocks until no reorganization is in flight.
func (r *Reorganizer) Wait() {
	r.wg.Wait()
}

// Start launches a background reorganization using policy (nil means
// FullSort). It returns immediately; ErrReorganizationRunning means the
// request was rejected because a run is already active.
func (r *Reorganizer) Start(policy Policy) error {
	if policy == nil {
		policy = FullSort{}
	}
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("reorganization already in progress", "policy", policy.Name())
		return ErrReorganizationRunning
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)

		r.logger.Info("reorganization started", "policy", policy.Name())
		start := time.Now()
		err := r.run(policy)
		elapsed := time.Since(start)
		r.metrics.RecordReorganization(elapsed)

		if err != nil {
			r.logger.Error("reorganization failed", "policy", policy.Name(), "elapsed", elapsed, "error", err)
		} else {
			r.logger.Info("reorganization completed", "policy", policy.Name(), "elapsed", elapsed)
		}
		if r.onFinish != nil {
			r.onFinish(policy.Name(), err)
		}
	}()
	return nil
}

// run executes one reorganization. On any failure the shadow is dropped
// and the store is left untouched.
func (r *Reorganizer) run(policy Policy) (err error) {
	sh := r.store.beginReorganization()
	committed := false
	defer func() {
		if !committed {
			r.store.abortReorganization()
		}
	}()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("policy %s panicked: %v", policy.Name(), rec)
		}
	}()

	policy.Reorder(sh)

	r.store.commitReorganization(sh)
	committed = true
	return nil
}

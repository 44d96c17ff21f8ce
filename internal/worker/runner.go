// Package worker runs deferred side effects off the request path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"user-service/internal/metrics"
)

// DefaultPoolSize is the number of tasks allowed to run at the same time.
const DefaultPoolSize = 200

// ErrRunnerClosed is returned by Submit after Shutdown has started.
var ErrRunnerClosed = errors.New("task runner is shut down")

// Task is a unit of deferred work.
type Task func(ctx context.Context) error

// Runner executes submitted tasks on their own goroutines, at most poolSize at
// a time. Task failures and panics are logged and counted, never propagated.
type Runner struct {
	logger *slog.Logger
	sem    *semaphore.Weighted

	baseCtx context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRunner creates a Runner with poolSize worker slots.
func NewRunner(poolSize int, logger *slog.Logger) *Runner {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		logger:  logger,
		sem:     semaphore.NewWeighted(int64(poolSize)),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Submit schedules fn and returns its task id without waiting for a worker slot.
func (r *Runner) Submit(name string, fn Task) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		metrics.TasksFinished.WithLabelValues(name, metrics.OutcomeDropped).Inc()
		r.logger.Error("Deferred task dropped", "task", name, "error", ErrRunnerClosed)
		return "", ErrRunnerClosed
	}

	id := uuid.NewString()
	metrics.TasksSubmitted.WithLabelValues(name).Inc()
	r.wg.Add(1)
	go r.run(id, name, fn)
	return id, nil
}

func (r *Runner) run(id, name string, fn Task) {
	defer r.wg.Done()
	logger := r.logger.With("task", name, "task_id", id)

	if err := r.sem.Acquire(r.baseCtx, 1); err != nil {
		metrics.TasksFinished.WithLabelValues(name, metrics.OutcomeDropped).Inc()
		logger.Error("Deferred task dropped before start", "error", err)
		return
	}
	defer r.sem.Release(1)

	metrics.TasksInFlight.Inc()
	defer metrics.TasksInFlight.Dec()

	start := time.Now()
	err := r.call(r.baseCtx, fn)
	switch {
	case err == nil:
		metrics.TasksFinished.WithLabelValues(name, metrics.OutcomeSuccess).Inc()
		logger.Info("Deferred task completed", "duration", time.Since(start))
	case errors.As(err, new(*panicError)):
		metrics.TasksFinished.WithLabelValues(name, metrics.OutcomePanic).Inc()
		logger.Error("Deferred task panicked", "error", err)
	default:
		metrics.TasksFinished.WithLabelValues(name, metrics.OutcomeError).Inc()
		logger.Error("Deferred task failed", "error", err, "duration", time.Since(start))
	}
}

type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (r *Runner) call(ctx context.Context, fn Task) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v}
		}
	}()
	return fn(ctx)
}

// Shutdown stops accepting tasks and waits for running ones to finish. If ctx
// expires first, the remaining tasks are cancelled and ctx's error is returned.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	if err := r.Drain(ctx); err != nil {
		r.cancel()
		return fmt.Errorf("waiting for deferred tasks: %w", err)
	}
	r.cancel()
	return nil
}

// Drain waits for every submitted task to return or for ctx to expire.
func (r *Runner) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

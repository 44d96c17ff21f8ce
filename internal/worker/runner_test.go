package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets task goroutines log while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestRunner(t *testing.T, poolSize int) (*Runner, *syncBuffer) {
	t.Helper()
	logs := &syncBuffer{}
	r := NewRunner(poolSize, slog.New(slog.NewJSONHandler(logs, nil)))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = r.Shutdown(ctx)
	})
	return r, logs
}

func drain(t *testing.T, r *Runner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Drain(ctx))
}

func TestSubmitDoesNotBlockCaller(t *testing.T) {
	r, logs := newTestRunner(t, 1)
	release := make(chan struct{})

	start := time.Now()
	id, err := r.Submit("slow", func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(release)
	drain(t, r)
	assert.Contains(t, logs.String(), "Deferred task completed")
	assert.Contains(t, logs.String(), id)
}

func TestFailuresAreLogged(t *testing.T) {
	r, logs := newTestRunner(t, 2)

	_, err := r.Submit("failing", func(ctx context.Context) error {
		return errors.New("smtp unavailable")
	})
	require.NoError(t, err)
	_, err = r.Submit("panicking", func(ctx context.Context) error {
		panic("boom")
	})
	require.NoError(t, err)

	drain(t, r)
	out := logs.String()
	assert.Contains(t, out, "Deferred task failed")
	assert.Contains(t, out, "smtp unavailable")
	assert.Contains(t, out, "Deferred task panicked")
	assert.Contains(t, out, "panic: boom")
}

func TestPoolSizeBoundsConcurrency(t *testing.T) {
	const poolSize = 3
	r, _ := newTestRunner(t, poolSize)

	var running, peak atomic.Int32
	for i := 0; i < 20; i++ {
		_, err := r.Submit("bounded", func(ctx context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil
		})
		require.NoError(t, err)
	}

	drain(t, r)
	assert.LessOrEqual(t, peak.Load(), int32(poolSize))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestShutdown(t *testing.T) {
	t.Run("WaitsForRunningTasks", func(t *testing.T) {
		r, _ := newTestRunner(t, 1)
		var finished atomic.Bool
		_, err := r.Submit("short", func(ctx context.Context) error {
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, r.Shutdown(context.Background()))
		assert.True(t, finished.Load())

		_, err = r.Submit("late", func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrRunnerClosed)
	})

	t.Run("CancelsTasksWhenDeadlineExpires", func(t *testing.T) {
		r, logs := newTestRunner(t, 1)
		started := make(chan struct{})
		_, err := r.Submit("stuck", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
		require.NoError(t, err)
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, r.Shutdown(ctx), context.DeadlineExceeded)

		drain(t, r)
		assert.Contains(t, logs.String(), "context canceled")
	})
}

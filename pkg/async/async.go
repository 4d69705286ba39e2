// Package async provides small helpers for running work off the request
// path: awaitable futures and a fire-and-forget dispatcher for best-effort
// side effects such as notification delivery.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await blocks until the computation completes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion or the timeout, whichever is first.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports completion without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn in a goroutine and returns a Future for its result.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		res, err := fn(ctx, param)
		f.once.Do(func() {
			f.result = res
			f.err = err
		})
	}()

	return f
}

// FireTimeout bounds how long a fire-and-forget task may run.
const FireTimeout = 10 * time.Second

// Fire runs fn in a goroutine detached from the caller's context. Errors and
// panics are logged under the given task name and never reach the caller:
// the primary operation has already committed by the time fn runs.
func Fire(log *slog.Logger, task string, fn func(context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("async task panicked",
					slog.String("task", task),
					slog.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), FireTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Error("async task failed",
				slog.String("task", task),
				slog.Any("error", err),
			)
		}
	}()
}

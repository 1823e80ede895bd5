package async

import (
	"context"
	"time"
)

// Future represents the result of a computation running on its own goroutine.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation completes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion up to the given duration. If the
// timeout elapses first it returns ErrTimeout; the computation keeps running
// and a later Await still observes its result.
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

// Run starts fn on a new goroutine and returns a Future for its result.
// A context canceled before the goroutine starts short-circuits with ctx.Err.
func Run[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll waits for every future and returns all results in order, together
// with the first error encountered (results of later futures are still
// collected).
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

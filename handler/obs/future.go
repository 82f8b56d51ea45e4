package obs

import (
	"context"
	"sync"
)

// Future is the handle of one dispatched request. It settles exactly once,
// with either the parsed request or an error.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
	code  int
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle records the outcome; later calls are ignored and return false.
func (f *Future[T]) settle(value T, err error, code int) bool {
	settled := false
	f.once.Do(func() {
		f.value, f.err, f.code = value, err, code
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking, or ErrPending.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrPending
	}
}

// Code is the requestStatus code of the response, 0 before settling.
func (f *Future[T]) Code() int {
	select {
	case <-f.done:
		return f.code
	default:
		return 0
	}
}

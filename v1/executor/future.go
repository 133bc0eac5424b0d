package executor

import (
	"context"

	"github.com/polydb-io/polydb/v1/pool"
)

// Future is the pending outcome of a submitted operation.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc

	// set before done is closed, read only after.
	value T
	err   error
}

// Submit starts op on its own goroutine and returns immediately. The
// operation inherits ctx; cancelling ctx or calling Cancel interrupts
// it the same way Execute's context does.
func Submit[T any](ctx context.Context, p *pool.Pool, op Op[T]) *Future[T] {
	runCtx, cancel := context.WithCancel(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel()
		f.value, f.err = Execute(runCtx, p, op)
	}()
	return f
}

// Failed returns an already-settled Future carrying err. It lets an
// asynchronous API report input-validation failures through the same
// channel as execution failures.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), cancel: func() {}, err: err}
	close(f.done)
	return f
}

// Wait blocks until the operation finishes or ctx expires. An expired
// ctx abandons the wait, not the operation; the operation keeps running
// and a later Wait can still collect it.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel interrupts the running operation. The outcome (typically
// context.Canceled) is still delivered through Wait.
func (f *Future[T]) Cancel() {
	f.cancel()
}

// Done returns a channel closed when the outcome is available, for
// callers selecting over several futures.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

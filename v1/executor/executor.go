package executor

import (
	"context"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/pool"
)

// Op is one unit of backend work run against a borrowed handle. The
// handle is only valid for the duration of the call.
type Op[T any] func(ctx context.Context, h pool.Handle) (T, error)

// Execute borrows a handle, runs op and returns the handle according to
// how the run ended. Waiting for a handle is cancellable through ctx.
func Execute[T any](ctx context.Context, p *pool.Pool, op Op[T]) (T, error) {
	var zero T
	h, err := p.Acquire(ctx)
	if err != nil {
		return zero, err
	}
	out, err := op(ctx, h)
	settle(p, h, ctx, err)
	if err != nil {
		return zero, err
	}
	return out, nil
}

// settle returns the handle to the pool in the state the run left it:
// discarded when the backend connection failed, dirty when the context
// was cancelled mid-operation (the statement may still be in flight on
// the wire), clean otherwise.
func settle(p *pool.Pool, h pool.Handle, ctx context.Context, err error) {
	switch {
	case err != nil && backend.IsConnectionError(err):
		p.Discard(h)
	case ctx.Err() != nil:
		p.ReleaseDirty(h)
	default:
		p.Release(h)
	}
}

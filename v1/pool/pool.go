package pool

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Handle is one live backend session. It is owned by the pool and lent
// to exactly one operation at a time; callers must never retain one
// across operation boundaries.
type Handle interface {
	// Ping verifies the session is still usable.
	Ping(ctx context.Context) error
	// Close tears the session down.
	Close() error
}

// Factory dials new handles for one (backend, database) pair.
type Factory interface {
	Connect(ctx context.Context) (Handle, error)
}

// Pool is a bounded, FIFO connection pool. Safe for concurrent use.
type Pool struct {
	factory Factory
	cfg     Config
	sem     *semaphore.Weighted

	mu     sync.Mutex
	idle   []Handle
	closed bool
}

// New dials cfg.Size handles eagerly and returns the ready pool. If any
// initial dial fails, everything already dialed is closed and the error
// is returned; a pool never starts partially connected.
func New(ctx context.Context, factory Factory, cfg Config) (*Pool, error) {
	cfg = cfg.withDefaults()
	p := &Pool{
		factory: factory,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(cfg.Size)),
		idle:    make([]Handle, 0, cfg.Size),
	}
	for i := 0; i < cfg.Size; i++ {
		h, err := factory.Connect(ctx)
		if err != nil {
			for _, dialed := range p.idle {
				_ = dialed.Close()
			}
			return nil, fmt.Errorf("pool: initial dial %d/%d: %w", i+1, cfg.Size, err)
		}
		p.idle = append(p.idle, h)
	}
	cfg.Logger.Info("connection pool ready", zap.Int("size", cfg.Size))
	return p, nil
}

// Acquire borrows a handle, queueing FIFO behind other callers when all
// handles are lent out. It fails with ErrAcquireTimeout after the
// configured timeout, with ErrClosed after shutdown, or with ctx's error
// if the caller cancels while queued (a pure queue removal with no side
// effect on the pool).
func (p *Pool) Acquire(ctx context.Context) (Handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.AcquireTimeout)
	defer cancel()

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w after %s", ErrAcquireTimeout, p.cfg.AcquireTimeout)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, ErrClosed
	}
	var h Handle
	if n := len(p.idle); n > 0 {
		h = p.idle[n-1]
		p.idle = p.idle[:n-1]
	}
	p.mu.Unlock()

	if h != nil {
		return h, nil
	}

	// A previous holder discarded its handle; dial the replacement. One
	// retry for the replacement dial only, never for the caller's
	// logical operation.
	h, err := p.factory.Connect(waitCtx)
	if err != nil {
		p.cfg.Logger.Warn("replacement dial failed, retrying once", zap.Error(err))
		h, err = p.factory.Connect(waitCtx)
	}
	if err != nil {
		p.sem.Release(1)
		return nil, fmt.Errorf("pool: dial replacement: %w", err)
	}
	return h, nil
}

// Release returns a healthy handle to the pool.
func (p *Pool) Release(h Handle) {
	p.give(h, false)
}

// ReleaseDirty returns a handle whose last operation was aborted
// mid-flight. The handle is pinged before reuse and discarded when the
// ping fails, so a torn session can never serve the next caller.
func (p *Pool) ReleaseDirty(h Handle) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.ValidateTimeout)
	err := h.Ping(ctx)
	cancel()
	if err != nil {
		p.cfg.Logger.Warn("dirty handle failed validation, discarding", zap.Error(err))
		p.give(h, true)
		return
	}
	p.give(h, false)
}

// Discard drops a poisoned handle instead of returning it. The pool slot
// is freed; the next Acquire dials a replacement.
func (p *Pool) Discard(h Handle) {
	p.give(h, true)
}

func (p *Pool) give(h Handle, discard bool) {
	p.mu.Lock()
	closed := p.closed
	if !closed && !discard {
		p.idle = append(p.idle, h)
	}
	p.mu.Unlock()

	if closed || discard {
		_ = h.Close()
	}
	p.sem.Release(1)
}

// Shutdown drains in-flight operations up to the grace timeout, then
// force-closes whatever remains. Idempotent. After Shutdown every
// Acquire fails with ErrClosed; handles still lent out are closed as
// they come back.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	graceCtx, cancel := context.WithTimeout(ctx, p.cfg.ShutdownGrace)
	defer cancel()

	var drainErr error
	if err := p.sem.Acquire(graceCtx, int64(p.cfg.Size)); err != nil {
		drainErr = fmt.Errorf("pool: %d operation(s) still in flight after grace period", p.inFlight())
		p.cfg.Logger.Warn("shutdown grace period expired, force-closing", zap.Error(err))
	} else {
		p.sem.Release(int64(p.cfg.Size))
	}

	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()
	for _, h := range idle {
		_ = h.Close()
	}

	p.cfg.Logger.Info("connection pool shut down")
	return drainErr
}

// Size returns the configured handle bound.
func (p *Pool) Size() int { return p.cfg.Size }

func (p *Pool) inFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Idle handles occupy no semaphore slot once given back, so the
	// in-flight count is everything the semaphore could not hand us.
	return p.cfg.Size - len(p.idle)
}

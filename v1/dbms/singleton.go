package dbms

import (
	"context"
	"sync"
)

var (
	defaultMu   sync.Mutex
	defaultDBMS *DBMS
)

// Initialize builds the process-wide instance. Calling it again drains
// and closes the previous instance before the replacement pool is
// dialed, so the two configurations never hold connections at the same
// time. If the replacement fails to come up the process is left
// uninitialized; Default reports ErrNotInitialized.
func Initialize(ctx context.Context, cfg Config) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if prev := defaultDBMS; prev != nil {
		defaultDBMS = nil
		if err := prev.Close(ctx); err != nil {
			return err
		}
	}
	d, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defaultDBMS = d
	return nil
}

// Default returns the process-wide instance, or ErrNotInitialized.
func Default() (*DBMS, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultDBMS == nil {
		return nil, ErrNotInitialized
	}
	return defaultDBMS, nil
}

// Shutdown closes the process-wide instance. Idempotent: a second call
// is a no-op.
func Shutdown(ctx context.Context) error {
	defaultMu.Lock()
	d := defaultDBMS
	defaultDBMS = nil
	defaultMu.Unlock()
	if d == nil {
		return nil
	}
	return d.Close(ctx)
}

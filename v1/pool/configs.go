package pool

import (
	"time"

	"github.com/polydb-io/polydb/v1/logger"
)

// Config controls pool sizing and timeout behavior.
type Config struct {
	// Size is the maximum number of live handles, and the number dialed
	// eagerly at construction.
	// Default: 5
	Size int

	// AcquireTimeout bounds how long a caller queues for a handle before
	// failing with ErrAcquireTimeout.
	// Default: 5 seconds
	AcquireTimeout time.Duration

	// ValidateTimeout bounds the ping issued on a possibly-dirty handle
	// before it may be reused.
	// Default: 2 seconds
	ValidateTimeout time.Duration

	// ShutdownGrace bounds how long Shutdown waits for in-flight
	// operations before force-closing.
	// Default: 10 seconds
	ShutdownGrace time.Duration

	// Logger receives lifecycle events (dial, discard, shutdown).
	// Default: logger.Nop()
	Logger *logger.Logger
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = 5
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = 5 * time.Second
	}
	if c.ValidateTimeout <= 0 {
		c.ValidateTimeout = 2 * time.Second
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c
}

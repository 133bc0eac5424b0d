package pool

import "errors"

var (
	// ErrClosed is returned for any operation attempted after Shutdown.
	// Fatal to the caller; never retried.
	ErrClosed = errors.New("pool: closed")

	// ErrAcquireTimeout is returned when every handle stayed busy for the
	// whole acquire timeout. It is a connectivity-class error.
	ErrAcquireTimeout = errors.New("pool: acquire timeout")
)

// IsClosed reports whether err means the pool was already shut down.
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }

// IsAcquireTimeout reports whether err is an exhaustion timeout.
func IsAcquireTimeout(err error) bool { return errors.Is(err, ErrAcquireTimeout) }

package dbms

import "errors"

var (
	// ErrUnknownBackend is returned by New for a Backend value outside
	// the supported set.
	ErrUnknownBackend = errors.New("dbms: unknown backend")

	// ErrNotInitialized is returned by Default before Initialize has
	// succeeded, and after Shutdown.
	ErrNotInitialized = errors.New("dbms: not initialized")
)

// IsUnknownBackend reports whether err is ErrUnknownBackend.
func IsUnknownBackend(err error) bool {
	return errors.Is(err, ErrUnknownBackend)
}

// IsNotInitialized reports whether err is ErrNotInitialized.
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

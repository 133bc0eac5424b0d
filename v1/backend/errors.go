package backend

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
)

var (
	// ErrNotFound is returned by FindOne when no record matches.
	ErrNotFound = errors.New("backend: record not found")

	// ErrUnsupportedOperation is returned when a requested aggregate or
	// operator has no translation for the active backend.
	ErrUnsupportedOperation = errors.New("backend: unsupported operation")
)

// ExecutionError wraps a backend rejection of a translated statement or
// document. The driver error is preserved verbatim, along with the
// operation and backend that produced it.
type ExecutionError struct {
	Backend string
	Op      string
	Err     error

	// Connectivity marks transport-level failures: the handle that
	// carried the operation is poisoned and must not be reused.
	Connectivity bool
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// WrapExec builds an *ExecutionError, classifying connectivity from the
// underlying error. A nil err passes through as nil.
func WrapExec(backendName, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExecutionError{
		Backend:      backendName,
		Op:           op,
		Err:          err,
		Connectivity: isTransportError(err),
	}
}

// WrapConnectivity is WrapExec with the connectivity flag forced on, for
// adapters that recognize network failures their driver does not expose
// through the generic types (e.g. the MongoDB topology errors).
func WrapConnectivity(backendName, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExecutionError{Backend: backendName, Op: op, Err: err, Connectivity: true}
}

// IsConnectionError reports whether err is connectivity-class: the pool
// discards the involved handle instead of reusing it.
func IsConnectionError(err error) bool {
	var exec *ExecutionError
	if errors.As(err, &exec) {
		return exec.Connectivity
	}
	return isTransportError(err)
}

func isTransportError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

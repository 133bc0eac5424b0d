// Package pool implements the bounded connection pool shared by every
// backend adapter.
//
// A Pool owns a fixed set of Connection Handles dialed through a
// backend-specific Factory. Handles are lent to exactly one in-flight
// operation at a time and must be given back through exactly one of
// Release, ReleaseDirty or Discard:
//
//   - Release returns a healthy handle for reuse.
//   - ReleaseDirty is for handles whose last operation was aborted
//     mid-flight (cancellation): the handle is validated with a ping
//     before reuse and discarded if the ping fails.
//   - Discard drops a poisoned handle; the next acquisition dials a
//     replacement, so one connectivity failure never shrinks the pool.
//
// Acquisition beyond the bound queues callers in FIFO order (the
// semaphore wakes waiters in arrival order) and fails with
// ErrAcquireTimeout once the configured timeout elapses. After
// Shutdown, which drains in-flight operations up to a grace timeout and
// then force-closes, every operation fails with ErrClosed.
//
// The pool never retries a caller's logical operation; the only internal
// retry is the single re-dial when a discarded handle needs a
// replacement.
package pool

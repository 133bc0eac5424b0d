// Package executor runs operations against borrowed pool handles, in
// both a blocking and a fire-and-await form.
//
// Execute is the blocking form: borrow, run, return, honoring context
// cancellation while waiting for a handle. Submit is the asynchronous
// form: it returns a Future immediately and runs the operation on its
// own goroutine; Wait blocks for the outcome and Cancel abandons it.
//
// Handle hygiene after a run is uniform: a clean result releases the
// handle as-is, a cancellation mid-operation releases it dirty so the
// pool re-validates it before the next loan, and a connectivity failure
// discards it outright.
package executor

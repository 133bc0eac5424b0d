// Package backend defines the contract every storage adapter implements
// and the backend-agnostic result unit they all return.
//
// An Adapter translates a validated filter AST (and update document,
// where relevant) into its backend's native execution form: a
// parameterized SQL statement for the relational engines, a BSON
// document for MongoDB. It runs that over a borrowed pool.Handle. Adapters never
// acquire or release handles themselves; the executor owns the handle
// lifecycle so no adapter can leak one.
//
// # Result Mapping
//
// Every adapter returns Record values with identical field-name keys and
// identical value coercions: integers as int64, floats as float64,
// datetimes as UTC time.Time truncated to seconds, lists and dicts as
// []any / map[string]any. Model code written against one backend
// behaves identically against another for the shared operator subset.
//
// # Errors
//
// Backend rejections surface as *ExecutionError wrapping the driver's
// error verbatim; connectivity-class failures are flagged so the
// executor can discard the poisoned handle. Reads that match nothing
// return ErrNotFound (FindOne) or an empty slice (Find). An aggregate
// the backend cannot translate fails with ErrUnsupportedOperation
// rather than returning an approximate value.
package backend

package backend

import (
	"context"

	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/pool"
	"github.com/polydb-io/polydb/v1/schema"
)

// Adapter is the capability set implemented once per backend variant.
//
// Every method takes a borrowed pool.Handle; the adapter uses it for the
// duration of the call and never retains it. Translation is pure and
// synchronous; the only I/O happens against the handle.
//
// Implementations:
//   - sqldb.Adapter (shared by sqlite, mysql, postgres via dialects)
//   - mongo.Adapter
type Adapter interface {
	// Backend returns the variant name ("sqlite", "mysql", "postgresql",
	// "mongodb") used in error context.
	Backend() string

	// EnsureSchema creates the table/collection for sch if it does not
	// exist. Idempotent: re-running against an existing table is a
	// no-op, never an error, and never loses data.
	EnsureSchema(ctx context.Context, h pool.Handle, sch *schema.Schema) error

	// Find returns every record matching f in insertion order.
	Find(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) ([]Record, error)

	// FindOne returns the first matching record, or ErrNotFound.
	FindOne(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) (Record, error)

	// Insert stores one record and returns its identifier, generating
	// one when the record carries none.
	Insert(ctx context.Context, h pool.Handle, sch *schema.Schema, rec Record) (string, error)

	// InsertMany stores records best-effort and reports one outcome per
	// record; a failure in one record never aborts the rest.
	InsertMany(ctx context.Context, h pool.Handle, sch *schema.Schema, recs []Record) ([]InsertOutcome, error)

	// Update assigns u to every record matching f and returns the number
	// of records matched, whether or not the assignment changed them.
	Update(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter, u *filter.Update) (int64, error)

	// Delete removes every record matching f and returns the number
	// removed.
	Delete(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) (int64, error)

	// Aggregate computes a scalar over the records matching f. The field
	// is ignored for AggCount.
	Aggregate(ctx context.Context, h pool.Handle, sch *schema.Schema, op AggregateOp, field string, f *filter.Filter) (float64, error)
}

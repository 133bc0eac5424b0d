package dbms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/executor"
	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/pool"
	"github.com/polydb-io/polydb/v1/schema"
)

// Record is re-exported so callers work entirely through this package.
type Record = backend.Record

// InsertOutcome reports one record's fate in a batch insert.
type InsertOutcome = backend.InsertOutcome

// submitOp runs op asynchronously on a borrowed handle.
func submitOp[T any](ctx context.Context, d *DBMS, name string, op executor.Op[T]) *executor.Future[T] {
	return executor.Submit(ctx, d.pool, bounded(d, name, op))
}

// bounded wraps op with the per-operation timeout and failure logging.
func bounded[T any](d *DBMS, name string, op executor.Op[T]) executor.Op[T] {
	return func(ctx context.Context, h pool.Handle) (T, error) {
		ctx, cancel := d.opCtx(ctx)
		defer cancel()
		out, err := op(ctx, h)
		if err != nil {
			d.log.Warn("operation failed", zap.String("op", name), zap.Error(err))
		}
		return out, err
	}
}

// EnsureSchema creates the table or collection for sch if missing.
// Idempotent and lossless on existing data.
func (d *DBMS) EnsureSchema(ctx context.Context, sch *schema.Schema) error {
	_, err := executor.Execute(ctx, d.pool, bounded(d, "ensure_schema", func(ctx context.Context, h pool.Handle) (struct{}, error) {
		return struct{}{}, d.adapter.EnsureSchema(ctx, h, sch)
	}))
	return err
}

// Find returns every record matching the operator document, in
// insertion order. A nil or empty query matches everything.
func (d *DBMS) Find(ctx context.Context, sch *schema.Schema, query map[string]any) ([]Record, error) {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, d.pool, bounded(d, "find", func(ctx context.Context, h pool.Handle) ([]Record, error) {
		return d.adapter.Find(ctx, h, sch, f)
	}))
}

// FindAsync is Find's non-blocking twin.
func (d *DBMS) FindAsync(ctx context.Context, sch *schema.Schema, query map[string]any) *executor.Future[[]Record] {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return executor.Failed[[]Record](err)
	}
	return submitOp(ctx, d, "find", func(ctx context.Context, h pool.Handle) ([]Record, error) {
		return d.adapter.Find(ctx, h, sch, f)
	})
}

// FindOne returns the first matching record, or backend.ErrNotFound.
func (d *DBMS) FindOne(ctx context.Context, sch *schema.Schema, query map[string]any) (Record, error) {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, d.pool, bounded(d, "find_one", func(ctx context.Context, h pool.Handle) (Record, error) {
		return d.adapter.FindOne(ctx, h, sch, f)
	}))
}

// FindOneAsync is FindOne's non-blocking twin.
func (d *DBMS) FindOneAsync(ctx context.Context, sch *schema.Schema, query map[string]any) *executor.Future[Record] {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return executor.Failed[Record](err)
	}
	return submitOp(ctx, d, "find_one", func(ctx context.Context, h pool.Handle) (Record, error) {
		return d.adapter.FindOne(ctx, h, sch, f)
	})
}

// Insert stores one record and returns its identifier, generating one
// when the record carries none.
func (d *DBMS) Insert(ctx context.Context, sch *schema.Schema, rec Record) (string, error) {
	return executor.Execute(ctx, d.pool, bounded(d, "insert", func(ctx context.Context, h pool.Handle) (string, error) {
		return d.adapter.Insert(ctx, h, sch, rec)
	}))
}

// InsertAsync is Insert's non-blocking twin.
func (d *DBMS) InsertAsync(ctx context.Context, sch *schema.Schema, rec Record) *executor.Future[string] {
	return submitOp(ctx, d, "insert", func(ctx context.Context, h pool.Handle) (string, error) {
		return d.adapter.Insert(ctx, h, sch, rec)
	})
}

// InsertMany stores records best-effort and returns one outcome per
// record; one record's failure never aborts the rest.
func (d *DBMS) InsertMany(ctx context.Context, sch *schema.Schema, recs []Record) ([]InsertOutcome, error) {
	return executor.Execute(ctx, d.pool, bounded(d, "insert_many", func(ctx context.Context, h pool.Handle) ([]InsertOutcome, error) {
		return d.adapter.InsertMany(ctx, h, sch, recs)
	}))
}

// InsertManyAsync is InsertMany's non-blocking twin.
func (d *DBMS) InsertManyAsync(ctx context.Context, sch *schema.Schema, recs []Record) *executor.Future[[]InsertOutcome] {
	return submitOp(ctx, d, "insert_many", func(ctx context.Context, h pool.Handle) ([]InsertOutcome, error) {
		return d.adapter.InsertMany(ctx, h, sch, recs)
	})
}

// Update assigns set to every record matching the query and returns the
// number of records matched, identical across backends even when the
// assignment leaves a record unchanged. The identifier field is
// immutable.
func (d *DBMS) Update(ctx context.Context, sch *schema.Schema, query, set map[string]any) (int64, error) {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return 0, err
	}
	u, err := filter.ParseUpdate(set, sch)
	if err != nil {
		return 0, err
	}
	return executor.Execute(ctx, d.pool, bounded(d, "update", func(ctx context.Context, h pool.Handle) (int64, error) {
		return d.adapter.Update(ctx, h, sch, f, u)
	}))
}

// UpdateAsync is Update's non-blocking twin.
func (d *DBMS) UpdateAsync(ctx context.Context, sch *schema.Schema, query, set map[string]any) *executor.Future[int64] {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return executor.Failed[int64](err)
	}
	u, err := filter.ParseUpdate(set, sch)
	if err != nil {
		return executor.Failed[int64](err)
	}
	return submitOp(ctx, d, "update", func(ctx context.Context, h pool.Handle) (int64, error) {
		return d.adapter.Update(ctx, h, sch, f, u)
	})
}

// Delete removes every record matching the query and returns the number
// removed. An empty query deletes everything; there is no implicit
// safety net.
func (d *DBMS) Delete(ctx context.Context, sch *schema.Schema, query map[string]any) (int64, error) {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return 0, err
	}
	return executor.Execute(ctx, d.pool, bounded(d, "delete", func(ctx context.Context, h pool.Handle) (int64, error) {
		return d.adapter.Delete(ctx, h, sch, f)
	}))
}

// DeleteAsync is Delete's non-blocking twin.
func (d *DBMS) DeleteAsync(ctx context.Context, sch *schema.Schema, query map[string]any) *executor.Future[int64] {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return executor.Failed[int64](err)
	}
	return submitOp(ctx, d, "delete", func(ctx context.Context, h pool.Handle) (int64, error) {
		return d.adapter.Delete(ctx, h, sch, f)
	})
}

// Count returns the number of records matching the query.
func (d *DBMS) Count(ctx context.Context, sch *schema.Schema, query map[string]any) (int64, error) {
	n, err := d.Aggregate(ctx, sch, backend.AggCount, "", query)
	return int64(n), err
}

// CountAsync is Count's non-blocking twin.
func (d *DBMS) CountAsync(ctx context.Context, sch *schema.Schema, query map[string]any) *executor.Future[int64] {
	f, err := filter.Parse(query, sch)
	if err != nil {
		return executor.Failed[int64](err)
	}
	return submitOp(ctx, d, "count", func(ctx context.Context, h pool.Handle) (int64, error) {
		n, err := d.adapter.Aggregate(ctx, h, sch, backend.AggCount, "", f)
		return int64(n), err
	})
}

// Aggregate computes a scalar over the matching records: sum, count,
// avg, min or max. The field is ignored for count and must be numeric
// otherwise. Aggregating an empty match yields 0.
func (d *DBMS) Aggregate(ctx context.Context, sch *schema.Schema, op backend.AggregateOp, field string, query map[string]any) (float64, error) {
	if !op.Valid() {
		return 0, fmt.Errorf("%w: aggregate %q", backend.ErrUnsupportedOperation, op)
	}
	f, err := filter.Parse(query, sch)
	if err != nil {
		return 0, err
	}
	return executor.Execute(ctx, d.pool, bounded(d, "aggregate", func(ctx context.Context, h pool.Handle) (float64, error) {
		return d.adapter.Aggregate(ctx, h, sch, op, field, f)
	}))
}

// AggregateAsync is Aggregate's non-blocking twin.
func (d *DBMS) AggregateAsync(ctx context.Context, sch *schema.Schema, op backend.AggregateOp, field string, query map[string]any) *executor.Future[float64] {
	if !op.Valid() {
		return executor.Failed[float64](fmt.Errorf("%w: aggregate %q", backend.ErrUnsupportedOperation, op))
	}
	f, err := filter.Parse(query, sch)
	if err != nil {
		return executor.Failed[float64](err)
	}
	return submitOp(ctx, d, "aggregate", func(ctx context.Context, h pool.Handle) (float64, error) {
		return d.adapter.Aggregate(ctx, h, sch, op, field, f)
	})
}

// FetchRelated returns the records of rel whose foreignKey field holds
// rec's identifier. It is the explicit replacement for implicit lazy
// relation loading: the caller names the relation and pays for exactly
// one query.
func (d *DBMS) FetchRelated(ctx context.Context, rel *schema.Schema, foreignKey string, rec Record) ([]Record, error) {
	id, _ := rec[schema.IDField].(string)
	if id == "" {
		return nil, backend.ErrNotFound
	}
	return d.Find(ctx, rel, map[string]any{foreignKey: id})
}

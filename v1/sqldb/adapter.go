package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/pool"
	"github.com/polydb-io/polydb/v1/schema"
	"github.com/polydb-io/polydb/v1/sqlgen"
)

// Adapter translates operations through a sqlgen.Dialect and executes
// them on borrowed handles. It is stateless and safe for concurrent use.
type Adapter struct {
	dialect sqlgen.Dialect
}

var _ backend.Adapter = (*Adapter)(nil)

// NewAdapter builds the relational adapter for one dialect.
func NewAdapter(d sqlgen.Dialect) *Adapter {
	return &Adapter{dialect: d}
}

// Backend returns the dialect's engine name.
func (a *Adapter) Backend() string { return a.dialect.Name() }

func (a *Adapter) conn(h pool.Handle) (*sql.Conn, error) {
	sh, ok := h.(*Handle)
	if !ok {
		return nil, fmt.Errorf("sqldb: handle is %T, want *sqldb.Handle", h)
	}
	return sh.Conn(), nil
}

// EnsureSchema creates the table if it does not exist.
func (a *Adapter) EnsureSchema(ctx context.Context, h pool.Handle, sch *schema.Schema) error {
	conn, err := a.conn(h)
	if err != nil {
		return err
	}
	st, err := sqlgen.CreateTable(a.dialect, sch)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, st.SQL)
	return backend.WrapExec(a.Backend(), "ensure_schema", err)
}

// Find returns all matching records in insertion order.
func (a *Adapter) Find(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) ([]backend.Record, error) {
	conn, err := a.conn(h)
	if err != nil {
		return nil, err
	}
	st, err := sqlgen.Select(a.dialect, sch, f)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, backend.WrapExec(a.Backend(), "find", err)
	}
	defer rows.Close()

	stored := sch.Stored()
	var out []backend.Record
	for rows.Next() {
		rec, err := scanRecord(rows, stored)
		if err != nil {
			return nil, backend.WrapExec(a.Backend(), "find", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.WrapExec(a.Backend(), "find", err)
	}
	return out, nil
}

// FindOne returns the first matching record or backend.ErrNotFound.
func (a *Adapter) FindOne(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) (backend.Record, error) {
	conn, err := a.conn(h)
	if err != nil {
		return nil, err
	}
	st, err := sqlgen.SelectOne(a.dialect, sch, f)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, backend.WrapExec(a.Backend(), "find_one", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, backend.WrapExec(a.Backend(), "find_one", err)
		}
		return nil, backend.ErrNotFound
	}
	rec, err := scanRecord(rows, sch.Stored())
	if err != nil {
		return nil, backend.WrapExec(a.Backend(), "find_one", err)
	}
	return rec, nil
}

// Insert validates, fills defaults, generates a missing identifier and
// stores one record, returning the identifier.
func (a *Adapter) Insert(ctx context.Context, h pool.Handle, sch *schema.Schema, rec backend.Record) (string, error) {
	conn, err := a.conn(h)
	if err != nil {
		return "", err
	}
	normalized, id, err := backend.Normalize(sch, rec, uuid.NewString)
	if err != nil {
		return "", err
	}
	st, err := sqlgen.Insert(a.dialect, sch, normalized)
	if err != nil {
		return "", err
	}
	if _, err := conn.ExecContext(ctx, st.SQL, st.Args...); err != nil {
		return "", backend.WrapExec(a.Backend(), "insert", err)
	}
	return id, nil
}

// InsertMany stores records best-effort. A validation or constraint
// failure in one record is recorded in its outcome and the loop goes on;
// only a poisoned connection stops it, with the remaining records marked
// failed so the caller still gets one outcome per input.
func (a *Adapter) InsertMany(ctx context.Context, h pool.Handle, sch *schema.Schema, recs []backend.Record) ([]backend.InsertOutcome, error) {
	outcomes := make([]backend.InsertOutcome, len(recs))
	for i, rec := range recs {
		id, err := a.Insert(ctx, h, sch, rec)
		outcomes[i] = backend.InsertOutcome{Index: i, ID: id, Err: err}
		if err != nil && backend.IsConnectionError(err) {
			for j := i + 1; j < len(recs); j++ {
				outcomes[j] = backend.InsertOutcome{Index: j, Err: err}
			}
			return outcomes, err
		}
	}
	return outcomes, nil
}

// Update applies u to every matching record and returns the count.
func (a *Adapter) Update(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter, u *filter.Update) (int64, error) {
	conn, err := a.conn(h)
	if err != nil {
		return 0, err
	}
	st, err := sqlgen.Update(a.dialect, sch, f, u)
	if err != nil {
		return 0, err
	}
	res, err := conn.ExecContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return 0, backend.WrapExec(a.Backend(), "update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, backend.WrapExec(a.Backend(), "update", err)
	}
	return n, nil
}

// Delete removes every matching record and returns the count.
func (a *Adapter) Delete(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) (int64, error) {
	conn, err := a.conn(h)
	if err != nil {
		return 0, err
	}
	st, err := sqlgen.Delete(a.dialect, sch, f)
	if err != nil {
		return 0, err
	}
	res, err := conn.ExecContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return 0, backend.WrapExec(a.Backend(), "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, backend.WrapExec(a.Backend(), "delete", err)
	}
	return n, nil
}

// Aggregate computes a scalar over the matching records. Aggregating an
// empty match yields 0.
func (a *Adapter) Aggregate(ctx context.Context, h pool.Handle, sch *schema.Schema, op backend.AggregateOp, field string, f *filter.Filter) (float64, error) {
	conn, err := a.conn(h)
	if err != nil {
		return 0, err
	}
	st, err := sqlgen.Aggregate(a.dialect, sch, op, field, f)
	if err != nil {
		return 0, err
	}
	var raw any
	if err := conn.QueryRowContext(ctx, st.SQL, st.Args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, backend.WrapExec(a.Backend(), "aggregate", err)
	}
	return coerceScalar(raw)
}

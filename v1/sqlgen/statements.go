package sqlgen

import (
	"fmt"
	"strings"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/schema"
)

// Statement is one ready-to-execute parameterized statement.
type Statement struct {
	SQL  string
	Args []any
}

// Select builds the full-record query for a filter. Results come back in
// insertion order via the hidden sequence column.
func Select(d Dialect, sch *schema.Schema, f *filter.Filter) (Statement, error) {
	b := newBuilder(d, sch)
	where, err := b.whereClause(f)
	if err != nil {
		return Statement{}, err
	}
	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		columnList(d, sch), d.QuoteIdent(sch.Table()), where, d.QuoteIdent(SeqColumn))
	return Statement{SQL: sql, Args: b.args}, nil
}

// SelectOne is Select limited to the first matching record.
func SelectOne(d Dialect, sch *schema.Schema, f *filter.Filter) (Statement, error) {
	st, err := Select(d, sch, f)
	if err != nil {
		return Statement{}, err
	}
	st.SQL += " LIMIT 1"
	return st, nil
}

// Insert builds the single-record insert. Values must already be
// schema-validated; order follows the stored-field declaration order.
func Insert(d Dialect, sch *schema.Schema, rec backend.Record) (Statement, error) {
	b := newBuilder(d, sch)
	stored := sch.Stored()
	cols := make([]string, 0, len(stored))
	phs := make([]string, 0, len(stored))
	for _, f := range stored {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			continue
		}
		ph, err := b.bind(f.Kind, v)
		if err != nil {
			return Statement{}, err
		}
		cols = append(cols, d.QuoteIdent(f.Name))
		phs = append(phs, ph)
	}
	if len(cols) == 0 {
		return Statement{}, fmt.Errorf("sqlgen: insert into %q has no values", sch.Table())
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(sch.Table()), strings.Join(cols, ", "), strings.Join(phs, ", "))
	return Statement{SQL: sql, Args: b.args}, nil
}

// Update builds the multi-row update. SET parameters are bound before
// WHERE parameters so numbered placeholders stay in statement order.
func Update(d Dialect, sch *schema.Schema, f *filter.Filter, u *filter.Update) (Statement, error) {
	b := newBuilder(d, sch)
	assigns := u.Assignments()
	sets := make([]string, 0, len(assigns))
	for _, a := range assigns {
		kind := b.fieldKind(a.Field)
		if a.Value == nil {
			sets = append(sets, fmt.Sprintf("%s = NULL", d.QuoteIdent(a.Field)))
			continue
		}
		ph, err := b.bind(kind, a.Value)
		if err != nil {
			return Statement{}, err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", d.QuoteIdent(a.Field), ph))
	}
	where, err := b.whereClause(f)
	if err != nil {
		return Statement{}, err
	}
	sql := fmt.Sprintf("UPDATE %s SET %s%s",
		d.QuoteIdent(sch.Table()), strings.Join(sets, ", "), where)
	return Statement{SQL: sql, Args: b.args}, nil
}

// Delete builds the multi-row delete.
func Delete(d Dialect, sch *schema.Schema, f *filter.Filter) (Statement, error) {
	b := newBuilder(d, sch)
	where, err := b.whereClause(f)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		SQL:  fmt.Sprintf("DELETE FROM %s%s", d.QuoteIdent(sch.Table()), where),
		Args: b.args,
	}, nil
}

// Aggregate builds the scalar aggregation query. count ignores the field
// and counts rows; the numeric aggregates validate that the target field
// exists and is numeric.
func Aggregate(d Dialect, sch *schema.Schema, op backend.AggregateOp, field string, f *filter.Filter) (Statement, error) {
	var expr string
	switch op {
	case backend.AggCount:
		expr = "COUNT(*)"
	case backend.AggSum, backend.AggAvg, backend.AggMin, backend.AggMax:
		spec, ok := sch.Field(field)
		if !ok {
			return Statement{}, fmt.Errorf("%w: aggregate field %q is not declared in schema %q",
				filter.ErrUnknownField, field, sch.Table())
		}
		if !spec.Kind.Numeric() {
			return Statement{}, fmt.Errorf("%w: %s over non-numeric field %q",
				backend.ErrUnsupportedOperation, op, field)
		}
		expr = fmt.Sprintf("%s(%s)", strings.ToUpper(string(op)), d.QuoteIdent(field))
	default:
		return Statement{}, fmt.Errorf("%w: aggregate %q", backend.ErrUnsupportedOperation, op)
	}

	b := newBuilder(d, sch)
	where, err := b.whereClause(f)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		SQL:  fmt.Sprintf("SELECT %s FROM %s%s", expr, d.QuoteIdent(sch.Table()), where),
		Args: b.args,
	}, nil
}

// CreateTable builds the idempotent DDL for a schema. The hidden sequence
// column comes first, then the stored fields in declaration order. The
// identifier column is NOT NULL UNIQUE; required fields are NOT NULL.
func CreateTable(d Dialect, sch *schema.Schema) (Statement, error) {
	if _, reserved := sch.Field(SeqColumn); reserved {
		return Statement{}, fmt.Errorf("sqlgen: schema %q declares reserved column %q", sch.Table(), SeqColumn)
	}
	defs := []string{d.SeqColumnDDL()}
	for _, f := range sch.Stored() {
		def := fmt.Sprintf("%s %s", d.QuoteIdent(f.Name), d.ColumnType(f))
		switch {
		case f.Name == schema.IDField:
			def += " NOT NULL UNIQUE"
		case f.Required:
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		d.QuoteIdent(sch.Table()), strings.Join(defs, ", "))
	return Statement{SQL: sql}, nil
}

func columnList(d Dialect, sch *schema.Schema) string {
	stored := sch.Stored()
	cols := make([]string, len(stored))
	for i, f := range stored {
		cols[i] = d.QuoteIdent(f.Name)
	}
	return strings.Join(cols, ", ")
}

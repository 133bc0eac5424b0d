package sqlgen

import (
	"encoding/json"
	"fmt"

	"github.com/polydb-io/polydb/v1/schema"
)

// SeqColumn is the hidden, monotonically increasing column every
// relational table carries. It exists solely to make "insertion order"
// well-defined across engines; it is never selected into Records and is
// reserved: schemas cannot declare a field with this name.
const SeqColumn = "_seq"

// Dialect captures everything that differs between the relational
// engines. Implementations live in the per-backend packages (sqlite,
// mysql, postgres).
type Dialect interface {
	// Name is the engine name used in error context ("sqlite", ...).
	Name() string

	// Placeholder returns the parameter marker for the n-th bound value
	// (1-based): "?" for SQLite/MySQL, "$n" for PostgreSQL.
	Placeholder(n int) string

	// QuoteIdent quotes a table or column identifier.
	QuoteIdent(name string) string

	// ColumnType maps a field to the engine's column type.
	ColumnType(f schema.Field) string

	// SeqColumnDDL returns the full definition of the hidden insertion
	// sequence column, including its auto-increment primary key clause.
	SeqColumnDDL() string

	// BindValue converts a schema-validated value into the form the
	// engine's driver expects for binding.
	BindValue(kind schema.Kind, v any) (any, error)
}

// BindJSON is the shared encoding for list and dict values: a JSON text
// parameter. Dialects delegate to it from BindValue.
func BindJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("sqlgen: encode json value: %w", err)
	}
	return string(raw), nil
}

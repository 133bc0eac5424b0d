package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/polydb-io/polydb/v1/schema"
	"github.com/polydb-io/polydb/v1/sqlgen"
)

// Dialect is the SQLite flavor of SQL generation.
type Dialect struct{}

var _ sqlgen.Dialect = Dialect{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Dialect) ColumnType(f schema.Field) string {
	switch f.Kind {
	case schema.KindInt, schema.KindBool:
		return "INTEGER"
	case schema.KindFloat:
		return "REAL"
	default:
		// Strings, ids, emails, datetimes and JSON-encoded collections
		// all live in TEXT affinity.
		return "TEXT"
	}
}

func (Dialect) SeqColumnDDL() string {
	return `"` + sqlgen.SeqColumn + `" INTEGER PRIMARY KEY AUTOINCREMENT`
}

func (Dialect) BindValue(kind schema.Kind, v any) (any, error) {
	switch kind {
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("sqlite: bind bool: got %T", v)
		}
		if b {
			return int64(1), nil
		}
		return int64(0), nil

	case schema.KindDateTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("sqlite: bind datetime: got %T", v)
		}
		return schema.CanonicalTime(t).Format(schema.TimeLayout), nil

	case schema.KindList, schema.KindDict:
		return sqlgen.BindJSON(v)

	default:
		return v, nil
	}
}

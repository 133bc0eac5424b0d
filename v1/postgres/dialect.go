package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polydb-io/polydb/v1/schema"
	"github.com/polydb-io/polydb/v1/sqlgen"
)

// Dialect is the PostgreSQL flavor of SQL generation.
type Dialect struct{}

var _ sqlgen.Dialect = Dialect{}

func (Dialect) Name() string { return "postgresql" }

func (Dialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Dialect) ColumnType(f schema.Field) string {
	switch f.Kind {
	case schema.KindID:
		return "VARCHAR(64)"
	case schema.KindInt:
		return "BIGINT"
	case schema.KindFloat:
		return "DOUBLE PRECISION"
	case schema.KindBool:
		return "BOOLEAN"
	case schema.KindDateTime:
		return "TIMESTAMPTZ"
	case schema.KindList, schema.KindDict:
		return "JSONB"
	default:
		return "TEXT"
	}
}

func (Dialect) SeqColumnDDL() string {
	return `"` + sqlgen.SeqColumn + `" BIGSERIAL PRIMARY KEY`
}

func (Dialect) BindValue(kind schema.Kind, v any) (any, error) {
	switch kind {
	case schema.KindDateTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("postgres: bind datetime: got %T", v)
		}
		return schema.CanonicalTime(t), nil

	case schema.KindList, schema.KindDict:
		return sqlgen.BindJSON(v)

	default:
		return v, nil
	}
}

package mysql

import (
	"fmt"
	"strings"
	"time"

	"github.com/polydb-io/polydb/v1/schema"
	"github.com/polydb-io/polydb/v1/sqlgen"
)

// Dialect is the MySQL flavor of SQL generation.
type Dialect struct{}

var _ sqlgen.Dialect = Dialect{}

func (Dialect) Name() string { return "mysql" }

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (Dialect) ColumnType(f schema.Field) string {
	switch f.Kind {
	case schema.KindID:
		return "VARCHAR(64)"
	case schema.KindString, schema.KindEmail:
		return "VARCHAR(255)"
	case schema.KindInt:
		return "BIGINT"
	case schema.KindFloat:
		return "DOUBLE"
	case schema.KindBool:
		return "TINYINT(1)"
	case schema.KindDateTime:
		return "DATETIME"
	case schema.KindList, schema.KindDict:
		return "JSON"
	default:
		return "TEXT"
	}
}

func (Dialect) SeqColumnDDL() string {
	return "`" + sqlgen.SeqColumn + "` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
}

func (Dialect) BindValue(kind schema.Kind, v any) (any, error) {
	switch kind {
	case schema.KindDateTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("mysql: bind datetime: got %T", v)
		}
		return schema.CanonicalTime(t), nil

	case schema.KindList, schema.KindDict:
		return sqlgen.BindJSON(v)

	default:
		return v, nil
	}
}

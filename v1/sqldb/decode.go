package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/schema"
)

// scanRecord reads the current row into a Record, decoding each column
// back to its field's canonical Go form. NULL columns are omitted.
func scanRecord(rows *sql.Rows, stored []schema.Field) (backend.Record, error) {
	raw := make([]any, len(stored))
	dests := make([]any, len(stored))
	for i := range raw {
		dests[i] = &raw[i]
	}
	if err := rows.Scan(dests...); err != nil {
		return nil, err
	}

	rec := make(backend.Record, len(stored))
	for i, f := range stored {
		if raw[i] == nil {
			continue
		}
		v, err := decodeColumn(f, raw[i])
		if err != nil {
			return nil, err
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// decodeColumn maps one driver value back to the field's canonical form.
// Drivers disagree on representations (MySQL hands text columns back as
// []byte, SQLite stores booleans as integers and datetimes as text), so
// every conversion here is by kind, not by driver type.
func decodeColumn(f schema.Field, raw any) (any, error) {
	switch f.Kind {
	case schema.KindString, schema.KindEmail, schema.KindID:
		return asString(raw)

	case schema.KindInt:
		switch v := raw.(type) {
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		case []byte:
			return strconv.ParseInt(string(v), 10, 64)
		}

	case schema.KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case []byte:
			return strconv.ParseFloat(string(v), 64)
		}

	case schema.KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case []byte:
			return string(v) != "0" && string(v) != "", nil
		}

	case schema.KindDateTime:
		switch v := raw.(type) {
		case time.Time:
			return schema.CanonicalTime(v), nil
		case string:
			return parseStoredTime(f.Name, v)
		case []byte:
			return parseStoredTime(f.Name, string(v))
		}

	case schema.KindList, schema.KindDict:
		s, err := asString(raw)
		if err != nil {
			return nil, err
		}
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("decode column %q: %w", f.Name, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("decode column %q: unexpected driver value %T for kind %s", f.Name, raw, f.Kind)
}

func asString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("expected text, got %T", raw)
	}
}

func parseStoredTime(field, s string) (time.Time, error) {
	if t, err := time.Parse(schema.TimeLayout, s); err == nil {
		return schema.CanonicalTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return schema.CanonicalTime(t), nil
	}
	return time.Time{}, fmt.Errorf("decode column %q: cannot parse %q as datetime", field, s)
}

// coerceScalar normalizes an aggregate result to float64. A NULL result
// (e.g. SUM over an empty match) coerces to 0.
func coerceScalar(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("aggregate result has unexpected type %T", raw)
	}
}

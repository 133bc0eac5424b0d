package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/schema"
)

// encodeDocument shapes a normalized record for the wire: fields in
// schema order, "id" renamed to "_id", datetimes as BSON datetimes.
func encodeDocument(sch *schema.Schema, rec backend.Record) bson.D {
	doc := make(bson.D, 0, len(rec))
	for _, f := range sch.Stored() {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			continue
		}
		doc = append(doc, bson.E{Key: wireField(f.Name), Value: encodeValue(v)})
	}
	return doc
}

// decodeDocument converts a fetched document back to a Record in the
// engine's canonical value forms. Fields not declared in the schema are
// dropped; NULLs are omitted.
func decodeDocument(sch *schema.Schema, doc bson.M) (backend.Record, error) {
	rec := make(backend.Record, len(doc))
	for _, f := range sch.Stored() {
		raw, ok := doc[wireField(f.Name)]
		if !ok || raw == nil {
			continue
		}
		v, err := decodeValue(f, raw)
		if err != nil {
			return nil, err
		}
		rec[f.Name] = v
	}
	return rec, nil
}

func decodeValue(f schema.Field, raw any) (any, error) {
	switch f.Kind {
	case schema.KindString, schema.KindEmail:
		if s, ok := raw.(string); ok {
			return s, nil
		}

	case schema.KindID:
		switch v := raw.(type) {
		case string:
			return v, nil
		case primitive.ObjectID:
			// Documents written outside the engine may carry native
			// ObjectID identifiers.
			return v.Hex(), nil
		}

	case schema.KindInt:
		switch v := raw.(type) {
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		}

	case schema.KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}

	case schema.KindBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}

	case schema.KindDateTime:
		switch v := raw.(type) {
		case primitive.DateTime:
			return schema.CanonicalTime(v.Time()), nil
		case time.Time:
			return schema.CanonicalTime(v), nil
		}

	case schema.KindList:
		if arr, ok := raw.(primitive.A); ok {
			return decodePlain([]any(arr)), nil
		}

	case schema.KindDict:
		switch v := raw.(type) {
		case bson.M:
			return decodePlainMap(v), nil
		case bson.D:
			return decodePlainMap(v.Map()), nil
		}
	}
	return nil, fmt.Errorf("mongo: decode field %q: unexpected BSON value %T for kind %s", f.Name, raw, f.Kind)
}

// decodePlain normalizes nested BSON containers to plain Go values so
// Records look the same regardless of backend.
func decodePlain(vals []any) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = decodePlainValue(v)
	}
	return out
}

func decodePlainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = decodePlainValue(v)
	}
	return out
}

func decodePlainValue(v any) any {
	switch x := v.(type) {
	case primitive.A:
		return decodePlain([]any(x))
	case bson.M:
		return decodePlainMap(x)
	case bson.D:
		return decodePlainMap(x.Map())
	case int32:
		return int64(x)
	case primitive.DateTime:
		return schema.CanonicalTime(x.Time())
	default:
		return v
	}
}

package schema

import (
	"fmt"
	"regexp"
	"time"
)

// Kind is the semantic type of a field, independent of any backend's
// column or BSON type.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindDateTime
	KindEmail
	KindID
	KindList
	KindDict
	// KindComputed marks a field derived by the model layer. Computed
	// fields are never persisted and never accepted in writes.
	KindComputed
)

// String returns the lowercase name of the kind, matching the vocabulary
// used by the model-declaration layer.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	case KindEmail:
		return "email"
	case KindID:
		return "id"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindComputed:
		return "computed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Numeric reports whether values of this kind can be aggregated with
// sum/avg/min/max.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Field describes one declared model attribute.
//
// Min and Max bound numeric values, or the length for string-like kinds.
// A nil bound means unbounded.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Min      *float64
	Max      *float64
	Default  any
}

// Schema is the ordered, immutable field list for one model, bound to a
// table (relational) or collection (document) name.
type Schema struct {
	table  string
	fields []Field
	index  map[string]int
}

// IDField is the reserved identifier field name. Every schema has one;
// New prepends it when the declaration omits it.
const IDField = "id"

// New builds a Schema for the given table/collection name.
//
// Field order is preserved: it determines column order in generated DDL
// and the deterministic ordering of SET clauses in updates. If no field
// named "id" is declared, an implicit leading KindID field is added.
func New(table string, fields ...Field) (*Schema, error) {
	if table == "" {
		return nil, fmt.Errorf("schema: table name must not be empty")
	}
	hasID := false
	for _, f := range fields {
		if f.Name == IDField {
			hasID = true
			break
		}
	}
	all := make([]Field, 0, len(fields)+1)
	if !hasID {
		all = append(all, Field{Name: IDField, Kind: KindID})
	}
	all = append(all, fields...)

	index := make(map[string]int, len(all))
	for i, f := range all {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d of %q has an empty name", i, table)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q in %q", f.Name, table)
		}
		index[f.Name] = i
	}
	return &Schema{table: table, fields: all, index: index}, nil
}

// MustNew is New but panics on error. Intended for static model
// declarations where a bad schema is a programming error.
func MustNew(table string, fields ...Field) *Schema {
	s, err := New(table, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Table returns the table/collection name the schema is bound to.
func (s *Schema) Table() string { return s.table }

// Fields returns the fields in declaration order. The returned slice
// must not be mutated.
func (s *Schema) Fields() []Field { return s.fields }

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Stored returns the fields that are actually persisted, i.e. everything
// except KindComputed, in declaration order.
func (s *Schema) Stored() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Kind != KindComputed {
			out = append(out, f)
		}
	}
	return out
}

// CanonicalTime is the single datetime representation the engine hands
// back regardless of backend: UTC, truncated to whole seconds.
func CanonicalTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// TimeLayout is the textual form used where a backend stores datetimes
// as text (SQLite).
const TimeLayout = "2006-01-02 15:04:05"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks value against the field's kind and constraints and
// returns the coerced canonical form (int64 for ints, float64 for
// floats, canonical time.Time for datetimes).
//
// A nil value yields the default when the field is optional and an
// error when it is required.
func (f Field) Validate(value any) (any, error) {
	if value == nil {
		if f.Required {
			return nil, fmt.Errorf("field %q is required", f.Name)
		}
		return f.Default, nil
	}

	switch f.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, f.mismatch(value)
		}
		if err := f.checkBounds(float64(len(s))); err != nil {
			return nil, err
		}
		return s, nil

	case KindEmail:
		s, ok := value.(string)
		if !ok {
			return nil, f.mismatch(value)
		}
		if !emailPattern.MatchString(s) {
			return nil, fmt.Errorf("field %q: %q is not a valid email address", f.Name, s)
		}
		return s, nil

	case KindID:
		s, ok := value.(string)
		if !ok {
			return nil, f.mismatch(value)
		}
		return s, nil

	case KindInt:
		n, ok := toInt64(value)
		if !ok {
			return nil, f.mismatch(value)
		}
		if err := f.checkBounds(float64(n)); err != nil {
			return nil, err
		}
		return n, nil

	case KindFloat:
		x, ok := toFloat64(value)
		if !ok {
			return nil, f.mismatch(value)
		}
		if err := f.checkBounds(x); err != nil {
			return nil, err
		}
		return x, nil

	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, f.mismatch(value)
		}
		return b, nil

	case KindDateTime:
		switch v := value.(type) {
		case time.Time:
			return CanonicalTime(v), nil
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return CanonicalTime(t), nil
			}
			if t, err := time.Parse(TimeLayout, v); err == nil {
				return CanonicalTime(t), nil
			}
			return nil, fmt.Errorf("field %q: cannot parse %q as datetime", f.Name, v)
		default:
			return nil, f.mismatch(value)
		}

	case KindList:
		switch value.(type) {
		case []any, []string, []int64, []float64:
			return value, nil
		default:
			return nil, f.mismatch(value)
		}

	case KindDict:
		if _, ok := value.(map[string]any); !ok {
			return nil, f.mismatch(value)
		}
		return value, nil

	case KindComputed:
		return nil, fmt.Errorf("field %q is computed and cannot be written", f.Name)

	default:
		return nil, fmt.Errorf("field %q has unknown kind %v", f.Name, f.Kind)
	}
}

func (f Field) mismatch(value any) error {
	return fmt.Errorf("field %q expects %s, got %T", f.Name, f.Kind, value)
}

func (f Field) checkBounds(x float64) error {
	if f.Min != nil && x < *f.Min {
		return fmt.Errorf("field %q: value %v below minimum %v", f.Name, x, *f.Min)
	}
	if f.Max != nil && x > *f.Max {
		return fmt.Errorf("field %q: value %v above maximum %v", f.Name, x, *f.Max)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	case float32:
		if float64(n) == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Bound is a convenience for declaring Min/Max constraints inline.
func Bound(v float64) *float64 { return &v }

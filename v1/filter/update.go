package filter

import (
	"fmt"
	"strings"

	"github.com/polydb-io/polydb/v1/schema"
)

// Assignment is one validated field-to-value update.
type Assignment struct {
	Field string
	Value any
}

// Update is a validated flat assignment set. Assignments are ordered by
// schema declaration order so generated SET clauses are deterministic.
type Update struct {
	assigns []Assignment
}

// ParseUpdate validates a flat update document against the schema.
//
// Operator-based updates ($inc, $push, ...) are out of scope and
// rejected; so are assignments to undeclared fields, to computed fields,
// and to the identifier field, which is immutable once generated.
func ParseUpdate(doc map[string]any, sch *schema.Schema) (*Update, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: update document must not be empty", ErrMalformed)
	}

	byField := make(map[string]any, len(doc))
	for key, value := range doc {
		if strings.HasPrefix(key, "$") {
			return nil, fmt.Errorf("%w: %q (operator updates are not supported)", ErrUnknownOperator, key)
		}
		if key == schema.IDField {
			return nil, fmt.Errorf("%w: %q is immutable", ErrMalformed, schema.IDField)
		}
		spec, ok := sch.Field(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not declared in schema %q", ErrUnknownField, key, sch.Table())
		}
		v, err := spec.Validate(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		byField[key] = v
	}

	// Schema declaration order, not document order.
	assigns := make([]Assignment, 0, len(byField))
	for _, f := range sch.Fields() {
		if v, ok := byField[f.Name]; ok {
			assigns = append(assigns, Assignment{Field: f.Name, Value: v})
		}
	}
	return &Update{assigns: assigns}, nil
}

// Assignments returns the validated assignments in schema order.
func (u *Update) Assignments() []Assignment { return u.assigns }

// Len returns the number of assignments.
func (u *Update) Len() int { return len(u.assigns) }

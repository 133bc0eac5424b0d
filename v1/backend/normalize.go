package backend

import (
	"fmt"

	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/schema"
)

// Normalize validates rec against the schema, applies defaults and
// returns a storable copy plus its identifier. When the caller supplied
// no identifier, newID generates one; each backend brings its own
// format. The input record is never mutated.
func Normalize(sch *schema.Schema, rec Record, newID func() string) (Record, string, error) {
	for name := range rec {
		spec, ok := sch.Field(name)
		if !ok {
			return nil, "", fmt.Errorf("%w: %q is not declared in schema %q",
				filter.ErrUnknownField, name, sch.Table())
		}
		if spec.Kind == schema.KindComputed {
			return nil, "", fmt.Errorf("%w: %q is computed and cannot be written",
				filter.ErrMalformed, name)
		}
	}
	out := make(Record, len(rec)+1)
	for _, spec := range sch.Stored() {
		v, err := spec.Validate(rec[spec.Name])
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", filter.ErrTypeMismatch, err)
		}
		if v != nil {
			out[spec.Name] = v
		}
	}
	id, _ := out[schema.IDField].(string)
	if id == "" {
		id = newID()
		out[schema.IDField] = id
	}
	return out, id, nil
}

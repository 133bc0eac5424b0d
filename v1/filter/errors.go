package filter

import "errors"

// Validation failures raised while building a Filter or Update from a raw
// document. All of them are reported before any backend contact.
var (
	// ErrUnknownField is returned when a predicate or assignment
	// references a field the schema does not declare.
	ErrUnknownField = errors.New("filter: unknown field")

	// ErrUnknownOperator is returned for a $-prefixed key outside the
	// supported operator vocabulary.
	ErrUnknownOperator = errors.New("filter: unknown operator")

	// ErrTypeMismatch is returned when a value cannot be coerced to the
	// declared kind of the field it is compared against or assigned to.
	ErrTypeMismatch = errors.New("filter: value type mismatch")

	// ErrMalformed is returned for structurally invalid documents, e.g.
	// $and bound to a non-list or $in bound to a non-list.
	ErrMalformed = errors.New("filter: malformed document")
)

// IsValidation reports whether err is any of the query-validation
// failures above. Callers use it to distinguish caller mistakes from
// backend or connectivity faults.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrUnknownOperator) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrMalformed)
}

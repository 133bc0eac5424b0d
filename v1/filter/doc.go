// Package filter builds the normalized, backend-independent query AST
// from MongoDB-style operator documents.
//
// A filter document maps field names to values (implicit equality) or to
// operator sub-documents, and may combine predicates with logical
// operators:
//
//	{"age": {"$gte": 25, "$lt": 40}}
//	{"$or": [{"country": "US"}, {"country": "CA"}]}
//
// The supported operator vocabulary is closed:
//
//	$eq (implicit), $ne, $gt, $gte, $lt, $lte   comparison
//	$in, $nin                                   set membership
//	$and, $or, $not                             logical combination
//
// Parse validates every leaf against the model schema: unknown fields,
// unknown operators, and type-mismatched values are rejected before any
// backend is contacted, never silently dropped. The resulting tree is a
// closed tagged-variant type set (Compare, Membership, Logical) that
// each backend adapter translates exhaustively; an operator with no
// translation cannot be constructed in the first place.
//
// Go maps do not preserve insertion order, so Parse orders sibling
// predicates lexicographically by field name (and operator sub-documents
// lexicographically by operator). Translation output is therefore
// deterministic for a given document, which golden-output tests rely on.
// AND/OR are commutative, so this never changes query semantics.
//
// Update documents are flat field-to-value assignments validated the
// same way; operator-based updates are out of scope and rejected.
package filter

package filter

// CompareOp identifies one of the scalar comparison operators.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
)

// Token returns the document-level spelling of the operator.
func (op CompareOp) Token() string {
	switch op {
	case OpEq:
		return "$eq"
	case OpNe:
		return "$ne"
	case OpGt:
		return "$gt"
	case OpGte:
		return "$gte"
	case OpLt:
		return "$lt"
	case OpLte:
		return "$lte"
	default:
		return "$?"
	}
}

// LogicOp identifies a logical combinator.
type LogicOp int

const (
	LogicAnd LogicOp = iota
	LogicOr
	LogicNot
)

// Node is one vertex of the filter AST. The variant set is closed:
// Compare, Membership and Logical are the only implementations, so
// backend translators can switch exhaustively.
type Node interface {
	isNode()
}

// Compare is a single field/operator/value predicate. Value has already
// been validated and coerced against the owning schema.
type Compare struct {
	Field string
	Op    CompareOp
	Value any
}

func (Compare) isNode() {}

// Membership is a $in / $nin predicate. An empty Values list is legal:
// $in over nothing matches no record, $nin over nothing matches all.
type Membership struct {
	Field   string
	Values  []any
	Negated bool // true for $nin
}

func (Membership) isNode() {}

// Logical combines child predicates. An empty $and is always-true and an
// empty $or is always-false; $not always carries exactly one child (a
// multi-predicate $not body is folded into an inner AND first).
type Logical struct {
	Op       LogicOp
	Children []Node
}

func (Logical) isNode() {}

// Filter is a validated predicate tree. A nil root matches every record.
type Filter struct {
	root Node
}

// Root returns the root node, or nil for a match-all filter.
func (f *Filter) Root() Node {
	if f == nil {
		return nil
	}
	return f.root
}

// MatchAll reports whether the filter places no constraint on records.
func (f *Filter) MatchAll() bool { return f == nil || f.root == nil }

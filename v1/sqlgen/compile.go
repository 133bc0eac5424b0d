package sqlgen

import (
	"fmt"
	"strings"

	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/schema"
)

// builder accumulates SQL text and bound parameters for one statement.
// Parameter ordinals flow through the whole statement (SET before WHERE)
// so PostgreSQL-style numbered placeholders come out right.
type builder struct {
	d    Dialect
	sch  *schema.Schema
	args []any
}

func newBuilder(d Dialect, sch *schema.Schema) *builder {
	return &builder{d: d, sch: sch}
}

// bind appends a value and returns its placeholder.
func (b *builder) bind(kind schema.Kind, v any) (string, error) {
	bound, err := b.d.BindValue(kind, v)
	if err != nil {
		return "", err
	}
	b.args = append(b.args, bound)
	return b.d.Placeholder(len(b.args)), nil
}

func (b *builder) fieldKind(name string) schema.Kind {
	f, ok := b.sch.Field(name)
	if !ok {
		// Parse already validated field names; this is unreachable for
		// ASTs built through filter.Parse.
		return schema.KindString
	}
	return f.Kind
}

// where compiles a filter node tree to a predicate fragment.
func (b *builder) where(n filter.Node) (string, error) {
	switch node := n.(type) {
	case filter.Compare:
		ph, err := b.bind(b.fieldKind(node.Field), node.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", b.d.QuoteIdent(node.Field), sqlCompareOp(node.Op), ph), nil

	case filter.Membership:
		if len(node.Values) == 0 {
			// IN () is a syntax error; compile the semantics instead.
			if node.Negated {
				return "1 = 1", nil
			}
			return "1 = 0", nil
		}
		kind := b.fieldKind(node.Field)
		placeholders := make([]string, len(node.Values))
		for i, v := range node.Values {
			ph, err := b.bind(kind, v)
			if err != nil {
				return "", err
			}
			placeholders[i] = ph
		}
		op := "IN"
		if node.Negated {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", b.d.QuoteIdent(node.Field), op, strings.Join(placeholders, ", ")), nil

	case filter.Logical:
		return b.logical(node)

	default:
		return "", fmt.Errorf("sqlgen: unknown filter node %T", n)
	}
}

func (b *builder) logical(node filter.Logical) (string, error) {
	switch node.Op {
	case filter.LogicNot:
		inner, err := b.where(node.Children[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", inner), nil

	case filter.LogicAnd, filter.LogicOr:
		if len(node.Children) == 0 {
			if node.Op == filter.LogicAnd {
				return "1 = 1", nil
			}
			return "1 = 0", nil
		}
		parts := make([]string, len(node.Children))
		for i, child := range node.Children {
			part, err := b.where(child)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		joiner := " AND "
		if node.Op == filter.LogicOr {
			joiner = " OR "
		}
		return "(" + strings.Join(parts, joiner) + ")", nil

	default:
		return "", fmt.Errorf("sqlgen: unknown logical op %d", node.Op)
	}
}

// whereClause compiles a full filter to " WHERE ..." or "" for match-all.
func (b *builder) whereClause(f *filter.Filter) (string, error) {
	if f.MatchAll() {
		return "", nil
	}
	pred, err := b.where(f.Root())
	if err != nil {
		return "", err
	}
	return " WHERE " + pred, nil
}

func sqlCompareOp(op filter.CompareOp) string {
	switch op {
	case filter.OpEq:
		return "="
	case filter.OpNe:
		return "<>"
	case filter.OpGt:
		return ">"
	case filter.OpGte:
		return ">="
	case filter.OpLt:
		return "<"
	case filter.OpLte:
		return "<="
	default:
		return "="
	}
}

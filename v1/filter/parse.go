package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polydb-io/polydb/v1/schema"
)

// Parse validates a raw operator document against the schema and returns
// the normalized AST. A nil or empty document matches every record.
//
// Sibling keys are processed in lexicographic order (see package doc);
// multiple predicates in one document, or in one field's operator
// sub-document, combine with AND.
func Parse(doc map[string]any, sch *schema.Schema) (*Filter, error) {
	node, err := parseDocument(doc, sch)
	if err != nil {
		return nil, err
	}
	return &Filter{root: node}, nil
}

func parseDocument(doc map[string]any, sch *schema.Schema) (Node, error) {
	if len(doc) == 0 {
		return nil, nil
	}

	children := make([]Node, 0, len(doc))
	for _, key := range sortedKeys(doc) {
		value := doc[key]
		switch {
		case key == "$and" || key == "$or":
			node, err := parseLogicalList(key, value, sch)
			if err != nil {
				return nil, err
			}
			children = append(children, node)

		case key == "$not":
			sub, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: $not expects a document, got %T", ErrMalformed, value)
			}
			inner, err := parseDocument(sub, sch)
			if err != nil {
				return nil, err
			}
			if inner == nil {
				// NOT over nothing negates always-true.
				inner = Logical{Op: LogicAnd}
			}
			children = append(children, Logical{Op: LogicNot, Children: []Node{inner}})

		case strings.HasPrefix(key, "$"):
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, key)

		default:
			nodes, err := parseFieldPredicate(key, value, sch)
			if err != nil {
				return nil, err
			}
			children = append(children, nodes...)
		}
	}

	return combineAnd(children), nil
}

func parseLogicalList(token string, value any, sch *schema.Schema) (Node, error) {
	list, ok := toDocumentList(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list of documents, got %T", ErrMalformed, token, value)
	}
	op := LogicAnd
	if token == "$or" {
		op = LogicOr
	}
	children := make([]Node, 0, len(list))
	for i, sub := range list {
		node, err := parseDocument(sub, sch)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", token, i, err)
		}
		if node != nil {
			children = append(children, node)
		}
	}
	return Logical{Op: op, Children: children}, nil
}

func parseFieldPredicate(field string, value any, sch *schema.Schema) ([]Node, error) {
	spec, ok := sch.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not declared in schema %q", ErrUnknownField, field, sch.Table())
	}

	ops, isDoc := value.(map[string]any)
	if !isDoc {
		v, err := validateOperand(spec, value)
		if err != nil {
			return nil, err
		}
		return []Node{Compare{Field: field, Op: OpEq, Value: v}}, nil
	}

	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: empty operator document for field %q", ErrMalformed, field)
	}

	nodes := make([]Node, 0, len(ops))
	for _, token := range sortedKeys(ops) {
		operand := ops[token]
		switch token {
		case "$in", "$nin":
			values, ok := toAnyList(operand)
			if !ok {
				return nil, fmt.Errorf("%w: %s on %q expects a list, got %T", ErrMalformed, token, field, operand)
			}
			validated := make([]any, len(values))
			for i, raw := range values {
				v, err := validateOperand(spec, raw)
				if err != nil {
					return nil, fmt.Errorf("%s[%d] on %q: %w", token, i, field, err)
				}
				validated[i] = v
			}
			nodes = append(nodes, Membership{Field: field, Values: validated, Negated: token == "$nin"})

		case "$eq", "$ne", "$gt", "$gte", "$lt", "$lte":
			v, err := validateOperand(spec, operand)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Compare{Field: field, Op: compareOpFor(token), Value: v})

		default:
			return nil, fmt.Errorf("%w: %q on field %q", ErrUnknownOperator, token, field)
		}
	}
	return nodes, nil
}

func validateOperand(spec schema.Field, raw any) (any, error) {
	v, err := spec.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return v, nil
}

func compareOpFor(token string) CompareOp {
	switch token {
	case "$ne":
		return OpNe
	case "$gt":
		return OpGt
	case "$gte":
		return OpGte
	case "$lt":
		return OpLt
	case "$lte":
		return OpLte
	default:
		return OpEq
	}
}

// combineAnd folds a child list into a single node: nil for none, the
// child itself for one, an AND group otherwise.
func combineAnd(children []Node) Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return Logical{Op: LogicAnd, Children: children}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toDocumentList(v any) ([]map[string]any, bool) {
	switch list := v.(type) {
	case []map[string]any:
		return list, true
	case []any:
		out := make([]map[string]any, len(list))
		for i, item := range list {
			doc, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out[i] = doc
		}
		return out, true
	default:
		return nil, false
	}
}

func toAnyList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(list))
		for i, n := range list {
			out[i] = n
		}
		return out, true
	case []int64:
		out := make([]any, len(list))
		for i, n := range list {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(list))
		for i, x := range list {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}

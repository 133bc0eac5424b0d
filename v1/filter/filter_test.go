package filter

import (
	"errors"
	"testing"

	"github.com/polydb-io/polydb/v1/schema"
)

func userSchema(t *testing.T) *schema.Schema {
	t.Helper()
	return schema.MustNew("users",
		schema.Field{Name: "name", Kind: schema.KindString},
		schema.Field{Name: "age", Kind: schema.KindInt},
		schema.Field{Name: "email", Kind: schema.KindEmail},
		schema.Field{Name: "active", Kind: schema.KindBool},
	)
}

func TestParseEmptyMatchesAll(t *testing.T) {
	sch := userSchema(t)
	for _, doc := range []map[string]any{nil, {}} {
		f, err := Parse(doc, sch)
		if err != nil {
			t.Fatalf("Parse(%v): %v", doc, err)
		}
		if !f.MatchAll() {
			t.Fatalf("Parse(%v) should match all", doc)
		}
	}
}

func TestParseImplicitEquality(t *testing.T) {
	f, err := Parse(map[string]any{"name": "ada"}, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cmp, ok := f.Root().(Compare)
	if !ok {
		t.Fatalf("expected Compare root, got %T", f.Root())
	}
	if cmp.Field != "name" || cmp.Op != OpEq || cmp.Value != "ada" {
		t.Fatalf("unexpected node %+v", cmp)
	}
}

func TestParseOperatorDocument(t *testing.T) {
	f, err := Parse(map[string]any{"age": map[string]any{"$gte": 25, "$lt": 40}}, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := f.Root().(Logical)
	if !ok || and.Op != LogicAnd {
		t.Fatalf("expected AND root, got %#v", f.Root())
	}
	if len(and.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(and.Children))
	}
	// Sibling operators come out in lexicographic order.
	first := and.Children[0].(Compare)
	second := and.Children[1].(Compare)
	if first.Op != OpGte || first.Value != int64(25) {
		t.Fatalf("unexpected first child %+v", first)
	}
	if second.Op != OpLt || second.Value != int64(40) {
		t.Fatalf("unexpected second child %+v", second)
	}
}

func TestParseMembership(t *testing.T) {
	f, err := Parse(map[string]any{"name": map[string]any{"$in": []any{"ada", "grace"}}}, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m, ok := f.Root().(Membership)
	if !ok {
		t.Fatalf("expected Membership, got %T", f.Root())
	}
	if m.Negated || len(m.Values) != 2 {
		t.Fatalf("unexpected node %+v", m)
	}
}

func TestParseEmptyMembershipKept(t *testing.T) {
	// An empty $in is a valid filter matching nothing; translation
	// decides how to express that, parsing must not reject it.
	f, err := Parse(map[string]any{"name": map[string]any{"$in": []any{}}}, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := f.Root().(Membership)
	if len(m.Values) != 0 {
		t.Fatalf("expected empty membership, got %+v", m)
	}
}

func TestParseLogicalOperators(t *testing.T) {
	doc := map[string]any{
		"$or": []any{
			map[string]any{"name": "ada"},
			map[string]any{"age": map[string]any{"$gt": 30}},
		},
	}
	f, err := Parse(doc, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	or, ok := f.Root().(Logical)
	if !ok || or.Op != LogicOr {
		t.Fatalf("expected OR root, got %#v", f.Root())
	}
	if len(or.Children) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(or.Children))
	}
}

func TestParseNot(t *testing.T) {
	f, err := Parse(map[string]any{"$not": map[string]any{"active": true}}, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	not, ok := f.Root().(Logical)
	if !ok || not.Op != LogicNot {
		t.Fatalf("expected NOT root, got %#v", f.Root())
	}
	if len(not.Children) != 1 {
		t.Fatalf("NOT must have exactly one child, got %d", len(not.Children))
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse(map[string]any{"nickname": "ada"}, userSchema(t))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if !IsValidation(err) {
		t.Fatalf("expected validation-class error, got %v", err)
	}
}

func TestParseUnknownOperator(t *testing.T) {
	_, err := Parse(map[string]any{"age": map[string]any{"$regex": ".*"}}, userSchema(t))
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestParseTypeMismatch(t *testing.T) {
	_, err := Parse(map[string]any{"age": "old"}, userSchema(t))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestParseMalformedLogical(t *testing.T) {
	_, err := Parse(map[string]any{"$or": "not a list"}, userSchema(t))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseSiblingFieldsCombineWithAnd(t *testing.T) {
	f, err := Parse(map[string]any{"name": "ada", "active": true}, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := f.Root().(Logical)
	if !ok || and.Op != LogicAnd {
		t.Fatalf("expected AND root, got %#v", f.Root())
	}
	// Lexicographic sibling order: active before name.
	if and.Children[0].(Compare).Field != "active" {
		t.Fatalf("expected deterministic sibling order, got %+v", and.Children)
	}
}

func TestParseUpdate(t *testing.T) {
	sch := userSchema(t)
	u, err := ParseUpdate(map[string]any{"age": 30, "name": "grace"}, sch)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	assigns := u.Assignments()
	if len(assigns) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assigns))
	}
	// Schema declaration order: name before age.
	if assigns[0].Field != "name" || assigns[1].Field != "age" {
		t.Fatalf("expected schema-order assignments, got %+v", assigns)
	}
	if assigns[1].Value != int64(30) {
		t.Fatalf("expected coerced int64, got %T", assigns[1].Value)
	}
}

func TestParseUpdateRejectsID(t *testing.T) {
	_, err := ParseUpdate(map[string]any{"id": "other"}, userSchema(t))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for id assignment, got %v", err)
	}
}

func TestParseUpdateRejectsOperators(t *testing.T) {
	_, err := ParseUpdate(map[string]any{"$inc": map[string]any{"age": 1}}, userSchema(t))
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestParseUpdateRejectsEmpty(t *testing.T) {
	_, err := ParseUpdate(map[string]any{}, userSchema(t))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for empty update, got %v", err)
	}
}

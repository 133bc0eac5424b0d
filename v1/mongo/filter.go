package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/schema"
)

// TranslateFilter compiles a filter AST to a native BSON document.
//
// Most of the operator vocabulary maps one-to-one. The exceptions: an
// empty $or is rejected by the server, so it compiles to a predicate no
// document can satisfy; $not is only valid as a field-level modifier, so
// a top-level negation compiles to $nor.
func TranslateFilter(f *filter.Filter) (bson.D, error) {
	if f.MatchAll() {
		return bson.D{}, nil
	}
	return translateNode(f.Root())
}

func translateNode(n filter.Node) (bson.D, error) {
	switch node := n.(type) {
	case filter.Compare:
		field := wireField(node.Field)
		op, err := bsonCompareOp(node.Op)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: field, Value: bson.D{{Key: op, Value: encodeValue(node.Value)}}}}, nil

	case filter.Membership:
		field := wireField(node.Field)
		op := "$in"
		if node.Negated {
			op = "$nin"
		}
		values := make(bson.A, len(node.Values))
		for i, v := range node.Values {
			values[i] = encodeValue(v)
		}
		return bson.D{{Key: field, Value: bson.D{{Key: op, Value: values}}}}, nil

	case filter.Logical:
		return translateLogical(node)

	default:
		return nil, fmt.Errorf("mongo: unknown filter node %T", n)
	}
}

func translateLogical(node filter.Logical) (bson.D, error) {
	switch node.Op {
	case filter.LogicNot:
		inner, err := translateNode(node.Children[0])
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$nor", Value: bson.A{inner}}}, nil

	case filter.LogicAnd, filter.LogicOr:
		if len(node.Children) == 0 {
			if node.Op == filter.LogicAnd {
				return bson.D{}, nil
			}
			// The server rejects an empty $or array; no _id is in the
			// empty set, which is the same semantics.
			return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{}}}}}, nil
		}
		children := make(bson.A, len(node.Children))
		for i, child := range node.Children {
			doc, err := translateNode(child)
			if err != nil {
				return nil, err
			}
			children[i] = doc
		}
		key := "$and"
		if node.Op == filter.LogicOr {
			key = "$or"
		}
		return bson.D{{Key: key, Value: children}}, nil

	default:
		return nil, fmt.Errorf("mongo: unknown logical op %d", node.Op)
	}
}

// TranslateUpdate compiles validated assignments to a $set document.
func TranslateUpdate(u *filter.Update) bson.D {
	set := make(bson.D, 0, u.Len())
	for _, a := range u.Assignments() {
		set = append(set, bson.E{Key: wireField(a.Field), Value: encodeValue(a.Value)})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func bsonCompareOp(op filter.CompareOp) (string, error) {
	switch op {
	case filter.OpEq:
		return "$eq", nil
	case filter.OpNe:
		return "$ne", nil
	case filter.OpGt:
		return "$gt", nil
	case filter.OpGte:
		return "$gte", nil
	case filter.OpLt:
		return "$lt", nil
	case filter.OpLte:
		return "$lte", nil
	default:
		return "", fmt.Errorf("mongo: unknown compare op %d", op)
	}
}

// wireField maps the engine's reserved identifier field to Mongo's.
func wireField(name string) string {
	if name == schema.IDField {
		return "_id"
	}
	return name
}

// encodeValue converts a schema-validated value to its BSON form.
// Datetimes become millisecond BSON datetimes; everything else the
// driver encodes natively.
func encodeValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return primitive.NewDateTimeFromTime(schema.CanonicalTime(t))
	}
	return v
}

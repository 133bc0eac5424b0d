package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/schema"
)

func userSchema(t *testing.T) *schema.Schema {
	t.Helper()
	return schema.MustNew("users",
		schema.Field{Name: "name", Kind: schema.KindString},
		schema.Field{Name: "age", Kind: schema.KindInt},
		schema.Field{Name: "created", Kind: schema.KindDateTime},
	)
}

func translate(t *testing.T, doc map[string]any) bson.D {
	t.Helper()
	f, err := filter.Parse(doc, userSchema(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := TranslateFilter(f)
	if err != nil {
		t.Fatalf("TranslateFilter: %v", err)
	}
	return out
}

func TestTranslateMatchAll(t *testing.T) {
	got := translate(t, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty document, got %v", got)
	}
}

func TestTranslateComparison(t *testing.T) {
	got := translate(t, map[string]any{"age": map[string]any{"$gte": 25}})
	want := bson.D{{Key: "age", Value: bson.D{{Key: "$gte", Value: int64(25)}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateIDFieldMapsToWireName(t *testing.T) {
	got := translate(t, map[string]any{"id": "abc"})
	want := bson.D{{Key: "_id", Value: bson.D{{Key: "$eq", Value: "abc"}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateMembership(t *testing.T) {
	got := translate(t, map[string]any{"name": map[string]any{"$nin": []any{"ada", "grace"}}})
	want := bson.D{{Key: "name", Value: bson.D{{Key: "$nin", Value: bson.A{"ada", "grace"}}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateEmptyOr(t *testing.T) {
	// The server rejects {$or: []}; the translation must keep the
	// nothing-matches semantics without tripping that.
	got := translate(t, map[string]any{"$or": []any{}})
	want := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{}}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateEmptyAnd(t *testing.T) {
	got := translate(t, map[string]any{"$and": []any{}})
	if len(got) != 0 {
		t.Fatalf("empty $and must match all, got %v", got)
	}
}

func TestTranslateNotBecomesNor(t *testing.T) {
	got := translate(t, map[string]any{"$not": map[string]any{"age": map[string]any{"$lt": 18}}})
	want := bson.D{{Key: "$nor", Value: bson.A{
		bson.D{{Key: "age", Value: bson.D{{Key: "$lt", Value: int64(18)}}}},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateOr(t *testing.T) {
	got := translate(t, map[string]any{"$or": []any{
		map[string]any{"name": "ada"},
		map[string]any{"age": map[string]any{"$gt": 30}},
	}})
	want := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: bson.D{{Key: "$eq", Value: "ada"}}}},
		bson.D{{Key: "age", Value: bson.D{{Key: "$gt", Value: int64(30)}}}},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateDatetimeValues(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	got := translate(t, map[string]any{"created": map[string]any{"$lt": ts}})
	want := bson.D{{Key: "created", Value: bson.D{{Key: "$lt", Value: primitive.NewDateTimeFromTime(ts)}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTranslateUpdate(t *testing.T) {
	sch := userSchema(t)
	u, err := filter.ParseUpdate(map[string]any{"age": 30, "name": "grace"}, sch)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	got := TranslateUpdate(u)
	want := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: "grace"},
		{Key: "age", Value: int64(30)},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDocumentRoundTripShaping(t *testing.T) {
	sch := userSchema(t)
	ts := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	doc := encodeDocument(sch, map[string]any{"id": "abc", "name": "ada", "age": int64(30), "created": ts})

	if doc[0].Key != "_id" {
		t.Fatalf("expected _id first, got %v", doc)
	}

	back, err := decodeDocument(sch, bson.M{
		"_id":     "abc",
		"name":    "ada",
		"age":     int32(30),
		"created": primitive.NewDateTimeFromTime(ts),
	})
	if err != nil {
		t.Fatalf("decodeDocument: %v", err)
	}
	if back["id"] != "abc" {
		t.Fatalf("expected wire _id mapped back to id, got %v", back)
	}
	if back["age"] != int64(30) {
		t.Fatalf("expected int64 age, got %T", back["age"])
	}
	if !back["created"].(time.Time).Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, back["created"])
	}
}

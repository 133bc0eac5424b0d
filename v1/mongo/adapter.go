package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/filter"
	"github.com/polydb-io/polydb/v1/pool"
	"github.com/polydb-io/polydb/v1/schema"
)

// Adapter executes operations against MongoDB on borrowed handles. It
// is stateless and safe for concurrent use.
type Adapter struct{}

var _ backend.Adapter = (*Adapter)(nil)

// NewAdapter builds the document-store adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Backend returns the variant name.
func (a *Adapter) Backend() string { return "mongodb" }

func (a *Adapter) collection(h pool.Handle, sch *schema.Schema) (*mongo.Collection, error) {
	mh, ok := h.(*Handle)
	if !ok {
		return nil, fmt.Errorf("mongo: handle is %T, want *mongo.Handle", h)
	}
	return mh.Database().Collection(sch.Table()), nil
}

// wrapErr classifies driver errors; the generic transport check does not
// see the driver's topology and server-selection failures.
func (a *Adapter) wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return backend.WrapConnectivity(a.Backend(), op, err)
	}
	return backend.WrapExec(a.Backend(), op, err)
}

// EnsureSchema creates the collection if it does not exist. Collections
// spring into existence on first write anyway; creating eagerly keeps
// the operation's contract uniform across backends.
func (a *Adapter) EnsureSchema(ctx context.Context, h pool.Handle, sch *schema.Schema) error {
	coll, err := a.collection(h, sch)
	if err != nil {
		return err
	}
	err = coll.Database().CreateCollection(ctx, sch.Table())
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
		return nil
	}
	return a.wrapErr("ensure_schema", err)
}

// Find returns all matching documents in natural (insertion) order.
func (a *Adapter) Find(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) ([]backend.Record, error) {
	coll, err := a.collection(h, sch)
	if err != nil {
		return nil, err
	}
	query, err := TranslateFilter(f)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, a.wrapErr("find", err)
	}
	defer cur.Close(ctx)

	var out []backend.Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, a.wrapErr("find", err)
		}
		rec, err := decodeDocument(sch, doc)
		if err != nil {
			return nil, a.wrapErr("find", err)
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, a.wrapErr("find", err)
	}
	return out, nil
}

// FindOne returns the first matching document or backend.ErrNotFound.
func (a *Adapter) FindOne(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) (backend.Record, error) {
	coll, err := a.collection(h, sch)
	if err != nil {
		return nil, err
	}
	query, err := TranslateFilter(f)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	err = coll.FindOne(ctx, query, options.FindOne().SetSort(bson.D{{Key: "$natural", Value: 1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, backend.ErrNotFound
	}
	if err != nil {
		return nil, a.wrapErr("find_one", err)
	}
	rec, err := decodeDocument(sch, doc)
	if err != nil {
		return nil, a.wrapErr("find_one", err)
	}
	return rec, nil
}

// Insert validates, fills defaults, generates a missing identifier and
// stores one document, returning the identifier. Generated identifiers
// are ObjectID hex strings; either way the stored _id is a string, so
// identifiers round-trip unchanged.
func (a *Adapter) Insert(ctx context.Context, h pool.Handle, sch *schema.Schema, rec backend.Record) (string, error) {
	coll, err := a.collection(h, sch)
	if err != nil {
		return "", err
	}
	normalized, id, err := backend.Normalize(sch, rec, newDocumentID)
	if err != nil {
		return "", err
	}
	if _, err := coll.InsertOne(ctx, encodeDocument(sch, normalized)); err != nil {
		return "", a.wrapErr("insert", err)
	}
	return id, nil
}

// InsertMany stores documents best-effort, one outcome per input. Only a
// dead connection stops the loop; the remaining documents are marked
// failed so the caller still gets a full outcome set.
func (a *Adapter) InsertMany(ctx context.Context, h pool.Handle, sch *schema.Schema, recs []backend.Record) ([]backend.InsertOutcome, error) {
	outcomes := make([]backend.InsertOutcome, len(recs))
	for i, rec := range recs {
		id, err := a.Insert(ctx, h, sch, rec)
		outcomes[i] = backend.InsertOutcome{Index: i, ID: id, Err: err}
		if err != nil && backend.IsConnectionError(err) {
			for j := i + 1; j < len(recs); j++ {
				outcomes[j] = backend.InsertOutcome{Index: j, Err: err}
			}
			return outcomes, err
		}
	}
	return outcomes, nil
}

// Update applies u as a $set to every matching document and returns the
// number matched. MatchedCount, not ModifiedCount: a no-op assignment
// still counts, matching the relational adapters' affected-row
// semantics.
func (a *Adapter) Update(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter, u *filter.Update) (int64, error) {
	coll, err := a.collection(h, sch)
	if err != nil {
		return 0, err
	}
	query, err := TranslateFilter(f)
	if err != nil {
		return 0, err
	}
	res, err := coll.UpdateMany(ctx, query, TranslateUpdate(u))
	if err != nil {
		return 0, a.wrapErr("update", err)
	}
	return res.MatchedCount, nil
}

// Delete removes every matching document.
func (a *Adapter) Delete(ctx context.Context, h pool.Handle, sch *schema.Schema, f *filter.Filter) (int64, error) {
	coll, err := a.collection(h, sch)
	if err != nil {
		return 0, err
	}
	query, err := TranslateFilter(f)
	if err != nil {
		return 0, err
	}
	res, err := coll.DeleteMany(ctx, query)
	if err != nil {
		return 0, a.wrapErr("delete", err)
	}
	return res.DeletedCount, nil
}

// Aggregate computes a scalar over the matching documents: count via
// CountDocuments, the numeric aggregates via a $match/$group pipeline.
// Aggregating an empty match yields 0.
func (a *Adapter) Aggregate(ctx context.Context, h pool.Handle, sch *schema.Schema, op backend.AggregateOp, field string, f *filter.Filter) (float64, error) {
	coll, err := a.collection(h, sch)
	if err != nil {
		return 0, err
	}
	query, err := TranslateFilter(f)
	if err != nil {
		return 0, err
	}

	if op == backend.AggCount {
		n, err := coll.CountDocuments(ctx, query)
		if err != nil {
			return 0, a.wrapErr("aggregate", err)
		}
		return float64(n), nil
	}

	spec, ok := sch.Field(field)
	if !ok {
		return 0, fmt.Errorf("%w: aggregate field %q is not declared in schema %q",
			filter.ErrUnknownField, field, sch.Table())
	}
	if !spec.Kind.Numeric() {
		return 0, fmt.Errorf("%w: %s over non-numeric field %q",
			backend.ErrUnsupportedOperation, op, field)
	}
	var accumulator string
	switch op {
	case backend.AggSum:
		accumulator = "$sum"
	case backend.AggAvg:
		accumulator = "$avg"
	case backend.AggMin:
		accumulator = "$min"
	case backend.AggMax:
		accumulator = "$max"
	default:
		return 0, fmt.Errorf("%w: aggregate %q", backend.ErrUnsupportedOperation, op)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: query}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "value", Value: bson.D{{Key: accumulator, Value: "$" + field}}},
		}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, a.wrapErr("aggregate", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return 0, a.wrapErr("aggregate", err)
		}
		return 0, nil
	}
	var doc bson.M
	if err := cur.Decode(&doc); err != nil {
		return 0, a.wrapErr("aggregate", err)
	}
	return coerceNumeric(doc["value"])
}

func newDocumentID() string {
	return primitive.NewObjectID().Hex()
}

func coerceNumeric(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case primitive.Decimal128:
		return 0, fmt.Errorf("mongo: decimal128 aggregate results are not supported")
	default:
		return 0, fmt.Errorf("mongo: aggregate result has unexpected type %T", v)
	}
}

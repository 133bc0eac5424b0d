package backend

// Record is the backend-agnostic unit of data: one row or document as a
// field-name-to-value mapping. Reads return Records; writes consume them.
// Writes never mutate a caller's Record; Normalize builds the storable
// copy.
type Record map[string]any

// AggregateOp names one scalar aggregation.
type AggregateOp string

const (
	AggSum   AggregateOp = "sum"
	AggCount AggregateOp = "count"
	AggAvg   AggregateOp = "avg"
	AggMin   AggregateOp = "min"
	AggMax   AggregateOp = "max"
)

// Valid reports whether op is part of the supported aggregate set.
func (op AggregateOp) Valid() bool {
	switch op {
	case AggSum, AggCount, AggAvg, AggMin, AggMax:
		return true
	default:
		return false
	}
}

// InsertOutcome reports the fate of one record in a batch insert. Batch
// writes are best-effort: each record succeeds or fails independently,
// and the caller learns exactly which did which.
type InsertOutcome struct {
	Index int
	ID    string
	Err   error
}

package model

// QueryOp names a single-signal query.
type QueryOp string

const (
	// OpHistory returns the whole timeline of a signal.
	OpHistory QueryOp = "history"
	// OpValue returns the value a signal holds at one timestamp.
	OpValue QueryOp = "value"
	// OpRange returns the distinct values a signal takes over a window.
	OpRange QueryOp = "range"
)

// QueryOps lists the supported operations.
var QueryOps = []QueryOp{OpHistory, OpValue, OpRange}

// QueryResult is the outcome of one query. Only the field matching Op is set;
// Err is non-nil when the query failed.
type QueryResult struct {
	Path    SignalPath
	Op      QueryOp
	History Timeline
	Value   string
	Values  []string
	Err     error
}

package domain

import (
	"fmt"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// QueryArgs carries the operands of a query. Which fields are read depends on
// the operation: At for OpValue, Start/End/Mode for OpRange.
type QueryArgs struct {
	At    int64
	Start int64
	End   int64
	Mode  RangeMode
}

// ParseQueryOp converts a user-supplied operation name.
func ParseQueryOp(name string) (m.QueryOp, error) {
	op := m.QueryOp(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range m.QueryOps {
		if op == known {
			return op, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOp, name)
}

// Query runs one operation against one signal.
func (e *Engine) Query(path m.SignalPath, op m.QueryOp, args QueryArgs) m.QueryResult {
	result := m.QueryResult{Path: path, Op: op}

	switch op {
	case m.OpHistory:
		result.History, result.Err = e.HistoryOf(path)
	case m.OpValue:
		result.Value, result.Err = e.ValueAt(path, args.At)
	case m.OpRange:
		result.Values, result.Err = e.ValuesInRange(path, args.Start, args.End, args.Mode)
	default:
		result.Err = fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}

	return result
}

// BatchQuery runs the same operation for every path. Each entry is computed
// independently, exactly as a single Query call would, so one failing path
// does not affect the others.
func (e *Engine) BatchQuery(paths []m.SignalPath, op m.QueryOp, args QueryArgs) map[m.SignalPath]m.QueryResult {
	results := make(map[m.SignalPath]m.QueryResult, len(paths))

	for _, path := range paths {
		results[path] = e.Query(path, op, args)
	}

	return results
}

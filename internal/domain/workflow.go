package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wavedig.dev/pkg/wavedig/internal/adapter"
	"wavedig.dev/pkg/wavedig/internal/controller"
	"wavedig.dev/pkg/wavedig/internal/domain/dialects"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

// DumpArgs names the dump a command reads and the dialect to parse it with.
type DumpArgs struct {
	Dump    m.Path
	Dialect string
}

// ListArgs contains the arguments for listing declared signals.
type ListArgs struct {
	DumpArgs
}

// HistoryArgs contains the arguments for printing a signal history.
type HistoryArgs struct {
	DumpArgs
	Signal m.SignalPath
}

// ValueArgs contains the arguments for a point query.
type ValueArgs struct {
	DumpArgs
	Signal m.SignalPath
	At     int64
}

// RangeArgs contains the arguments for a range query.
type RangeArgs struct {
	DumpArgs
	Signal  m.SignalPath
	Start   int64
	End     int64
	Lenient bool
}

// BatchArgs contains the arguments for running one operation over many signals.
type BatchArgs struct {
	DumpArgs
	Signals    []m.SignalPath
	SignalList m.Path
	Op         string
	At         int64
	Start      int64
	End        int64
	Lenient    bool
	Parallel   int
}

// Workflow defines the commands of the CLI.
type Workflow interface {
	List(ctx context.Context, args ListArgs) error
	History(ctx context.Context, args HistoryArgs) error
	Value(ctx context.Context, args ValueArgs) error
	Range(ctx context.Context, args RangeArgs) error
	Batch(ctx context.Context, args BatchArgs) error
}

type workflow struct {
	adapter.DumpFSAdapter
	controller.UI
	Loader
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.DumpFSAdapter,
	ui controller.UI,
	loader Loader,
) Workflow {
	return &workflow{
		DumpFSAdapter: fsAdapter,
		UI:            ui,
		Loader:        loader,
	}
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	engine, err := w.load(ctx, args.DumpArgs)
	if err != nil {
		return err
	}

	return w.DisplaySignals(ctx, args.Dump, engine.Signals(), engine.Stats())
}

func (w *workflow) History(ctx context.Context, args HistoryArgs) error {
	engine, err := w.load(ctx, args.DumpArgs)
	if err != nil {
		return err
	}

	result := w.query(ctx, engine, args.Signal, m.OpHistory, QueryArgs{})
	if result.Err != nil {
		return fmt.Errorf("history: %w", result.Err)
	}

	return w.DisplayHistory(ctx, args.Signal, result.History)
}

func (w *workflow) Value(ctx context.Context, args ValueArgs) error {
	engine, err := w.load(ctx, args.DumpArgs)
	if err != nil {
		return err
	}

	result := w.query(ctx, engine, args.Signal, m.OpValue, QueryArgs{At: args.At})
	if result.Err != nil {
		return fmt.Errorf("value: %w", result.Err)
	}

	return w.DisplayValue(ctx, args.Signal, args.At, result.Value)
}

func (w *workflow) Range(ctx context.Context, args RangeArgs) error {
	engine, err := w.load(ctx, args.DumpArgs)
	if err != nil {
		return err
	}

	queryArgs := QueryArgs{Start: args.Start, End: args.End, Mode: rangeMode(args.Lenient)}

	result := w.query(ctx, engine, args.Signal, m.OpRange, queryArgs)
	if result.Err != nil {
		return fmt.Errorf("range: %w", result.Err)
	}

	window := controller.RangeQuery{Start: args.Start, End: args.End, Lenient: args.Lenient}

	return w.DisplayRange(ctx, args.Signal, window, result.Values)
}

// Batch runs one operation for every requested signal. Signals are queried
// concurrently, bounded by args.Parallel, and reported in input order. A
// failing signal is reported in its row and does not stop the others.
func (w *workflow) Batch(ctx context.Context, args BatchArgs) error {
	op, err := ParseQueryOp(args.Op)
	if err != nil {
		return err
	}

	paths, err := w.batchSignals(args)
	if err != nil {
		return err
	}

	engine, err := w.load(ctx, args.DumpArgs)
	if err != nil {
		return err
	}

	batchID := uuid.NewString()
	queryArgs := QueryArgs{At: args.At, Start: args.Start, End: args.End, Mode: rangeMode(args.Lenient)}

	ctx, span := startQuerySpan(ctx, op, len(paths))
	defer span.End()

	start := time.Now()

	slog.Info("Starting batch query",
		"batch", batchID,
		"op", op,
		"signals", len(paths),
		"parallel", args.Parallel)

	results, err := runBatch(ctx, engine, paths, op, queryArgs, args.Parallel)

	report := controller.BatchReport{ID: batchID, Op: op, Results: results}
	recordQuery(ctx, span, op, time.Since(start), report.Failed(), err)

	if err != nil {
		slog.Error("Batch query aborted", "batch", batchID, "error", err)
		return fmt.Errorf("batch %s: %w", batchID, err)
	}

	slog.Info("Finished batch query",
		"batch", batchID,
		"failed", report.Failed(),
		"duration", time.Since(start))

	return w.DisplayBatch(ctx, report)
}

// runBatch fans the queries out on an errgroup. Each goroutine writes only its
// own slot of results, so no locking is needed. With a limit of one the
// sequential Engine.BatchQuery is used instead.
func runBatch(
	ctx context.Context,
	engine *Engine,
	paths []m.SignalPath,
	op m.QueryOp,
	args QueryArgs,
	parallel int,
) ([]m.QueryResult, error) {
	results := make([]m.QueryResult, len(paths))

	if parallel == 1 {
		byPath := engine.BatchQuery(paths, op, args)
		for i, path := range paths {
			results[i] = byPath[path]
		}

		return results, ctx.Err()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		group.SetLimit(parallel)
	}

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = engine.Query(path, op, args)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (w *workflow) batchSignals(args BatchArgs) ([]m.SignalPath, error) {
	paths := append([]m.SignalPath(nil), args.Signals...)

	if args.SignalList != "" {
		listed, err := w.ReadSignalList(args.SignalList)
		if err != nil {
			return nil, fmt.Errorf("read signal list: %w", err)
		}

		paths = append(paths, listed...)
	}

	if len(paths) == 0 {
		return nil, ErrNoSignals
	}

	return paths, nil
}

func (w *workflow) load(ctx context.Context, args DumpArgs) (*Engine, error) {
	dialect, err := dialects.Lookup(args.Dialect)
	if err != nil {
		return nil, err
	}

	return w.Load(ctx, args.Dump, dialect)
}

func (w *workflow) query(ctx context.Context, engine *Engine, path m.SignalPath, op m.QueryOp, args QueryArgs) m.QueryResult {
	ctx, span := startQuerySpan(ctx, op, 1)
	defer span.End()

	start := time.Now()
	result := engine.Query(path, op, args)

	failed := 0
	if result.Err != nil {
		failed = 1
	}

	recordQuery(ctx, span, op, time.Since(start), failed, nil)

	return result
}

func rangeMode(lenient bool) RangeMode {
	if lenient {
		return RangeLenient
	}

	return RangeStrict
}

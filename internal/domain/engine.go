package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// RangeMode selects how ValuesInRange treats bounds that are not event timestamps.
type RangeMode int

const (
	// RangeStrict requires start or end to be an event timestamp of the dump.
	RangeStrict RangeMode = iota
	// RangeLenient accepts any bounds.
	RangeLenient
)

// Engine answers signal-history queries over one parsed dump. Its scope tree
// and timelines are built once by Build and never modified afterwards, so every
// query method is safe to call from many goroutines without locking.
type Engine struct {
	dialect m.Dialect
	tree    *m.ScopeTree
	index   *ValueChangeIndex
	signals []m.Signal
	stats   m.DumpStats
}

// Build parses a complete dump from r. Either a fully built Engine or an error
// is returned; a failed build never exposes a partial tree or index.
func Build(ctx context.Context, r io.Reader, dialect m.Dialect) (*Engine, error) {
	ctx, span := startBuildSpan(ctx, dialect)
	defer span.End()

	start := time.Now()

	engine, err := build(ctx, r, dialect)
	recordBuild(ctx, span, dialect, time.Since(start), engine, err)

	if err != nil {
		slog.Error("Failed to build dump index", "dialect", dialect.Name, "error", err)
		return nil, err
	}

	slog.Debug("Built dump index",
		"dialect", dialect.Name,
		"signals", engine.stats.Signals,
		"codes", engine.stats.Index.Codes,
		"changes", engine.stats.Index.Changes,
		"duration", time.Since(start))

	return engine, nil
}

func build(ctx context.Context, r io.Reader, dialect m.Dialect) (*Engine, error) {
	sections, err := SplitSections(r)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := BuildScopeTree(sections.Definitions, dialect)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, indexStats, err := BuildValueChangeIndex(sections.ValueChanges, dialect)
	if err != nil {
		return nil, err
	}

	signals := Signals(tree)

	return &Engine{
		dialect: dialect,
		tree:    tree,
		index:   index,
		signals: signals,
		stats: m.DumpStats{
			Dialect:    dialect.Name,
			Scopes:     tree.Len() - 1,
			Signals:    len(signals),
			Undeclared: countUndeclared(signals, index),
			Index:      indexStats,
		},
	}, nil
}

// countUndeclared counts codes that change in the dump but have no $var.
func countUndeclared(signals []m.Signal, index *ValueChangeIndex) int {
	declared := make(map[string]struct{}, len(signals))
	for _, s := range signals {
		declared[s.Variable.Code] = struct{}{}
	}

	undeclared := 0

	for code := range index.timelines {
		if _, ok := declared[code]; !ok {
			undeclared++
		}
	}

	return undeclared
}

// Dialect returns the dialect the dump was parsed with.
func (e *Engine) Dialect() m.Dialect {
	return e.dialect
}

// Tree returns the scope tree. Callers must not modify it.
func (e *Engine) Tree() *m.ScopeTree {
	return e.tree
}

// Stats returns build statistics.
func (e *Engine) Stats() m.DumpStats {
	return e.stats
}

// Signals returns every declared signal with its full path.
func (e *Engine) Signals() []m.Signal {
	return slices.Clone(e.signals)
}

// Timestamps returns every distinct event timestamp in the dump.
func (e *Engine) Timestamps() []int64 {
	return slices.Clone(e.index.Timestamps())
}

// Variable resolves path to its declaration.
func (e *Engine) Variable(path m.SignalPath) (m.Variable, error) {
	return Resolve(e.tree, path)
}

func (e *Engine) timeline(path m.SignalPath) (m.Timeline, error) {
	v, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}

	tl, _ := e.index.Timeline(v.Code)

	return tl, nil
}

// HistoryOf returns the full timeline of the signal at path. The earliest
// sample is the initial value from the dump's first value section, even when
// no explicit #0 precedes it. A signal that never changes has an empty history.
func (e *Engine) HistoryOf(path m.SignalPath) (m.Timeline, error) {
	tl, err := e.timeline(path)
	if err != nil {
		return nil, err
	}

	return slices.Clone(tl), nil
}

// ValueAt returns the value the signal holds at t, i.e. its latest change at
// or before t.
func (e *Engine) ValueAt(path m.SignalPath, t int64) (string, error) {
	tl, err := e.timeline(path)
	if err != nil {
		return "", err
	}

	sample, ok := tl.At(t)
	if !ok {
		return "", &LookupError{Path: path, Segment: fmt.Sprintf("#%d", t), Err: ErrNoAssignmentYet}
	}

	return sample.Value, nil
}

// ValuesInRange returns the distinct values recorded in [start, end] in order
// of first appearance. When no change happens exactly at start, the value
// carried forward into start (if any) comes first.
func (e *Engine) ValuesInRange(path m.SignalPath, start, end int64, mode RangeMode) ([]string, error) {
	if start > end {
		return nil, fmt.Errorf("%w: start #%d is after end #%d", ErrInvalidRange, start, end)
	}

	tl, err := e.timeline(path)
	if err != nil {
		return nil, err
	}

	if mode == RangeStrict && !e.index.HasTimestamp(start) && !e.index.HasTimestamp(end) {
		return nil, fmt.Errorf("%w: neither #%d nor #%d is an event timestamp", ErrTimestampNotFound, start, end)
	}

	window := tl.Between(start, end)
	values := make([]string, 0, len(window)+1)
	seen := make(map[string]struct{}, len(window)+1)

	add := func(v string) {
		if _, dup := seen[v]; dup {
			return
		}

		seen[v] = struct{}{}
		values = append(values, v)
	}

	if len(window) == 0 || window[0].Time != start {
		if carried, ok := tl.At(start); ok {
			add(carried.Value)
		}
	}

	for _, s := range window {
		add(s.Value)
	}

	return values, nil
}

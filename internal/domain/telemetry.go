package domain

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

var (
	tracer = otel.Tracer("wavedig.domain")
	meter  = otel.Meter("wavedig.domain")
)

var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter
	changesTotal metric.Int64Counter
	queryLatency metric.Float64Histogram
	queryTotal   metric.Int64Counter
	cacheLookups metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once. Later calls return the first error.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"dump_build_duration_seconds",
			metric.WithDescription("Duration of dump parsing and indexing"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"dump_build_total",
			metric.WithDescription("Number of dump builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		changesTotal, err = meter.Int64Counter(
			"dump_value_changes_total",
			metric.WithDescription("Value changes indexed across all builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		queryLatency, err = meter.Float64Histogram(
			"signal_query_duration_seconds",
			metric.WithDescription("Duration of signal queries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		queryTotal, err = meter.Int64Counter(
			"signal_query_total",
			metric.WithDescription("Number of signal queries"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheLookups, err = meter.Int64Counter(
			"dump_cache_lookups_total",
			metric.WithDescription("Loader cache lookups by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})

	return metricsErr
}

func startBuildSpan(ctx context.Context, dialect m.Dialect) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Build",
		trace.WithAttributes(
			attribute.String("dump.dialect", dialect.Name),
		),
	)
}

func recordBuild(ctx context.Context, span trace.Span, dialect m.Dialect, duration time.Duration, engine *Engine, err error) {
	success := err == nil

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.Int("dump.signals", engine.stats.Signals),
			attribute.Int("dump.codes", engine.stats.Index.Codes),
			attribute.Int("dump.changes", engine.stats.Index.Changes),
			attribute.Int("dump.events", engine.stats.Index.Events),
		)
	}

	if initMetrics() != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("dialect", dialect.Name),
		attribute.Bool("success", success),
	)

	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)

	if success {
		changesTotal.Add(ctx, int64(engine.stats.Index.Changes), metric.WithAttributes(attribute.String("dialect", dialect.Name)))
	}
}

func startQuerySpan(ctx context.Context, op m.QueryOp, signals int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Workflow."+string(op),
		trace.WithAttributes(
			attribute.String("query.op", string(op)),
			attribute.Int("query.signals", signals),
		),
	)
}

func recordQuery(ctx context.Context, span trace.Span, op m.QueryOp, duration time.Duration, failed int, err error) {
	span.SetAttributes(attribute.Int("query.failed", failed))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if initMetrics() != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("op", string(op)),
		attribute.Bool("success", err == nil && failed == 0),
	)

	queryLatency.Record(ctx, duration.Seconds(), attrs)
	queryTotal.Add(ctx, 1, attrs)
}

func recordCacheLookup(ctx context.Context, hit bool) {
	if initMetrics() != nil {
		return
	}

	cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

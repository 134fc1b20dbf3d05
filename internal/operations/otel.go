package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"postcodelookup/internal/infrastructure"
)

// StageTracer provides OpenTelemetry instrumentation for pipeline stages
type StageTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStageTracer creates a stage tracer from the initialized providers
func NewStageTracer(providers *infrastructure.OTelProviders) (*StageTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &StageTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// TraceStageExecution creates a span for one stage
func (st *StageTracer) TraceStageExecution(ctx context.Context, stage string) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stage.name", stage),
			attribute.String("run.id", infrastructure.GetRunID(ctx)),
		),
	)
}

// RecordStageCompletion records stage metrics and closes out the span status
func (st *StageTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stage string, duration time.Duration, rows int, err error) {
	infrastructure.RecordStageMetrics(ctx, st.metrics, stage, duration, err)

	span.SetAttributes(
		attribute.Float64("stage.duration_seconds", duration.Seconds()),
		attribute.Int("stage.rows", rows),
	)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}

	infrastructure.RecordRows(ctx, st.metrics, stage, rows)
	infrastructure.AddSpanEvent(ctx, "stage.completed", map[string]interface{}{
		"stage": stage,
		"rows":  rows,
	})
	span.SetStatus(codes.Ok, "")
}

package operations

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"postcodelookup/internal/dataprocessing"
	"postcodelookup/internal/infrastructure"
)

// Runner executes pipeline stages in sequence. Every stage is timed, logged,
// traced and counted, and its state is kept for the end-of-run summary.
type Runner struct {
	logger *slog.Logger
	tracer *StageTracer

	mu    sync.RWMutex
	steps []*StepState
}

var _ dataprocessing.StageRunner = (*Runner)(nil)

// NewRunner creates a stage runner. A nil tracer disables spans and metrics.
func NewRunner(logger *slog.Logger, tracer *StageTracer) *Runner {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Runner{
		logger: infrastructure.WithComponent(logger, "operations"),
		tracer: tracer,
	}
}

// RunStage runs fn as the named stage
func (r *Runner) RunStage(ctx context.Context, name string, fn dataprocessing.StageFunc) error {
	state := NewStepState(name)
	r.mu.Lock()
	r.steps = append(r.steps, state)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		state.Fail(err)
		return err
	}

	r.logStageStart(ctx, name)
	state.Start()

	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.TraceStageExecution(ctx, name)
		defer span.End()
	}

	start := time.Now()
	rows, err := fn(ctx)
	duration := time.Since(start)

	if span != nil {
		r.tracer.RecordStageCompletion(ctx, span, name, duration, rows, err)
	}

	if err != nil {
		state.Fail(err)
		r.logStageError(ctx, name, duration, err)
		return err
	}

	state.Complete(rows)
	r.logStageComplete(ctx, name, duration, rows)
	return nil
}

// Steps returns the stage states in execution order
func (r *Runner) Steps() []*StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*StepState(nil), r.steps...)
}

// TotalDuration sums the durations of every stage run so far
func (r *Runner) TotalDuration() time.Duration {
	var total time.Duration
	for _, s := range r.Steps() {
		total += s.Duration()
	}
	return total
}

// LogSummary logs one line per stage with its status and duration
func (r *Runner) LogSummary(ctx context.Context) {
	for _, s := range r.Steps() {
		r.logger.InfoContext(ctx, "stage_summary",
			slog.String("stage", s.Name),
			slog.String("status", string(s.GetStatus())),
			slog.Duration("duration", s.Duration()))
	}
	r.logger.InfoContext(ctx, "pipeline_summary",
		slog.Int("stages", len(r.Steps())),
		slog.Duration("duration", r.TotalDuration()))
}

func (r *Runner) logStageStart(ctx context.Context, stage string) {
	r.logger.DebugContext(ctx, "stage_start",
		slog.String("stage", stage))
}

func (r *Runner) logStageComplete(ctx context.Context, stage string, duration time.Duration, rows int) {
	r.logger.InfoContext(ctx, "stage_complete",
		slog.String("stage", stage),
		slog.Int("rows", rows),
		slog.Duration("duration", duration))
}

func (r *Runner) logStageError(ctx context.Context, stage string, duration time.Duration, err error) {
	r.logger.ErrorContext(ctx, "stage_error",
		slog.String("stage", stage),
		slog.Duration("duration", duration),
		slog.String("error", err.Error()))
}

// Package operations runs the pipeline stages and records what happened.
//
// Runner implements dataprocessing.StageRunner. For each stage it keeps a
// StepState with status, start and end time and row count, logs the stage
// with its duration, and, when a StageTracer is attached, opens an
// OpenTelemetry span and records the pipeline_stage_* metrics:
//
//	tracer, err := operations.NewStageTracer(providers)
//	runner := operations.NewRunner(logger, tracer)
//	pipeline := dataprocessing.NewPipeline(opts, runner, logger)
//	...
//	runner.LogSummary(ctx)
package operations

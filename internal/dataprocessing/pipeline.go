package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"postcodelookup/pkg/contracts/domain"
)

// StageFunc is one step of the pipeline. It reports how many rows it produced.
type StageFunc func(ctx context.Context) (rows int, err error)

// StageRunner executes named stages. The operations package provides a
// runner that records timings, spans and metrics.
type StageRunner interface {
	RunStage(ctx context.Context, name string, fn StageFunc) error
}

type directRunner struct{}

func (directRunner) RunStage(ctx context.Context, _ string, fn StageFunc) error {
	_, err := fn(ctx)
	return err
}

// Stage names, in execution order.
const (
	StageLoad      = "load"
	StageResolve   = "resolve"
	StageAggregate = "aggregate"
	StagePivot     = "pivot"
	StageCombine   = "combine"
	StageHeader    = "header"
)

// InputFiles names the files of one run.
type InputFiles struct {
	Mapping   string
	Targets   string
	Variables []string
}

// Options configures a Pipeline.
type Options struct {
	SheetName             string
	MappingPostcodeColumn string
	MappingAreaColumn     string
	PostcodeColumn        string
	Variable              VariableOptions
	NoDataMarker          string
	Workers               int
}

// Inputs are the loaded, validated tables of one run.
type Inputs struct {
	Mapping   domain.AreaMapping
	Targets   domain.TargetPostalCodeList
	Variables []domain.VariableTable
}

// Result holds everything a successful run produced.
type Result struct {
	Targets  domain.TargetPostalCodeList
	Groups   domain.AreaGroups
	Wide     []domain.WideVariableTable
	Combined domain.CombinedTable
	Missing  domain.MissingData
}

// Pipeline composes the loader and the core stages. Each stage returns a
// new value; nothing is shared between runs.
type Pipeline struct {
	opts   Options
	runner StageRunner
	logger *slog.Logger
}

// NewPipeline creates a pipeline. A nil runner runs stages directly.
func NewPipeline(opts Options, runner StageRunner, logger *slog.Logger) *Pipeline {
	if runner == nil {
		runner = directRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{opts: opts, runner: runner, logger: logger.With("component", "pipeline")}
}

// Load reads and validates every input file.
func (p *Pipeline) Load(ctx context.Context, files InputFiles) (*Inputs, error) {
	var in Inputs
	err := p.runner.RunStage(ctx, StageLoad, func(ctx context.Context) (int, error) {
		load := LoadOptions{SheetName: p.opts.SheetName}

		raw, err := LoadTable(files.Mapping, load)
		if err != nil {
			return 0, err
		}
		mapping, err := NewAreaMapping(*raw, p.opts.MappingPostcodeColumn, p.opts.MappingAreaColumn)
		if err != nil {
			return 0, err
		}
		in.Mapping = *mapping

		raw, err = LoadTable(files.Targets, load)
		if err != nil {
			return 0, err
		}
		targets, err := NewTargetPostalCodeList(*raw, p.opts.PostcodeColumn)
		if err != nil {
			return 0, err
		}
		in.Targets = *targets

		rows := len(in.Mapping.Entries) + len(in.Targets.Rows)
		for _, file := range files.Variables {
			raw, err := LoadTable(file, load)
			if err != nil {
				return 0, err
			}
			v, err := NewVariableTable(*raw, p.opts.Variable)
			if err != nil {
				return 0, err
			}
			p.logger.DebugContext(ctx, "Loaded variable",
				slog.String("file", file),
				slog.String("variable", v.Name),
				slog.Int("observations", len(v.Rows)))
			in.Variables = append(in.Variables, *v)
			rows += len(v.Rows)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// Run executes resolve, aggregate, pivot, combine and header in order.
// Missing data is part of the result and never fails the run.
func (p *Pipeline) Run(ctx context.Context, in *Inputs) (*Result, error) {
	if in == nil {
		return nil, fmt.Errorf("pipeline inputs are nil")
	}
	res := &Result{}

	if err := p.runner.RunStage(ctx, StageResolve, func(ctx context.Context) (int, error) {
		targets, err := ResolveAreas(in.Targets, in.Mapping)
		if err != nil {
			return 0, err
		}
		res.Targets = targets
		return len(targets.Rows), nil
	}); err != nil {
		return nil, err
	}

	if err := p.runner.RunStage(ctx, StageAggregate, func(ctx context.Context) (int, error) {
		res.Groups = GroupPostcodes(res.Targets)
		return res.Groups.Len(), nil
	}); err != nil {
		return nil, err
	}

	var pivots []VariableResult
	if err := p.runner.RunStage(ctx, StagePivot, func(ctx context.Context) (int, error) {
		var err error
		pivots, err = PivotVariables(ctx, in.Variables, res.Groups, p.opts.NoDataMarker, p.opts.Workers)
		if err != nil {
			return 0, err
		}
		rows := 0
		for _, r := range pivots {
			res.Wide = append(res.Wide, r.Wide)
			rows += len(r.Wide.Rows)
		}
		return rows, nil
	}); err != nil {
		return nil, err
	}

	res.Missing = collectMissing(res.Targets, in.Variables, pivots)

	if err := p.runner.RunStage(ctx, StageCombine, func(ctx context.Context) (int, error) {
		res.Combined = CombineTables(res.Wide, p.opts.NoDataMarker)
		return len(res.Combined.Rows), nil
	}); err != nil {
		return nil, err
	}

	if err := p.runner.RunStage(ctx, StageHeader, func(ctx context.Context) (int, error) {
		table, err := WithHeader(res.Combined)
		if err != nil {
			return 0, err
		}
		res.Combined = table
		return len(table.Header), nil
	}); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Pipeline complete",
		slog.Int("postcodes", len(res.Targets.Rows)),
		slog.Int("area_groups", res.Groups.Len()),
		slog.Int("variables", len(res.Wide)),
		slog.Int("rows", len(res.Combined.Rows)),
		slog.Int("columns", res.Combined.ColumnCount()),
		slog.Int("unresolved", len(res.Missing.UnresolvedPostcodes)),
		slog.Int("suppressed", len(res.Missing.SuppressedPostcodes)))

	return res, nil
}

// collectMissing gathers both missing-data sets in natural order
func collectMissing(targets domain.TargetPostalCodeList, variables []domain.VariableTable, pivots []VariableResult) domain.MissingData {
	unresolved := make(domain.PostcodeSet)
	unresolved.Add(UnresolvedPostcodes(targets)...)

	suppressed := make(domain.PostcodeSet)
	byVariable := make(map[string]domain.PostcodeSet)
	for i, r := range pivots {
		if len(r.Suppressed) == 0 {
			continue
		}
		suppressed.Add(r.Suppressed...)
		name := variables[i].Name
		if byVariable[name] == nil {
			byVariable[name] = make(domain.PostcodeSet)
		}
		byVariable[name].Add(r.Suppressed...)
	}

	missing := domain.MissingData{
		UnresolvedPostcodes: unresolved.Sorted(),
		SuppressedPostcodes: suppressed.Sorted(),
	}
	if len(byVariable) > 0 {
		missing.SuppressedByVariable = make(map[string][]string, len(byVariable))
		for name, set := range byVariable {
			missing.SuppressedByVariable[name] = set.Sorted()
		}
	}
	return missing
}

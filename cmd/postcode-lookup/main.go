package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postcodelookup/internal/config"
	"postcodelookup/internal/dataprocessing"
	"postcodelookup/internal/exporter"
	"postcodelookup/internal/files"
	"postcodelookup/internal/infrastructure"
	"postcodelookup/internal/operations"
	"postcodelookup/internal/presentation"
	"postcodelookup/internal/validation"
	"postcodelookup/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes one lookup: load and validate inputs, run the core pipeline,
// and only then write every output.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("postcode-lookup", flag.ContinueOnError)
	configFile := fs.String("config", "", "path to the YAML config file (defaults to config.yaml or configs/config.yaml)")
	dataDir := fs.String("data", "", "input directory (overrides paths.data_dir)")
	outDir := fs.String("out", "", "output directory (overrides paths.output_dir)")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create required directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.ContextWithRunID(ctx)
	logger.InfoContext(ctx, "Starting postcode lookup",
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir),
		slog.String("output_dir", paths.OutputDir))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewStageTracer(providers)
	if err != nil {
		return err
	}
	runner := operations.NewRunner(logger, tracer)

	err = execute(ctx, cfg, paths, runner, logger)
	runner.LogSummary(ctx)

	if cfg.Telemetry.MetricsFile != "" {
		if mErr := providers.WriteMetricsFile(paths.GetOutputPath(cfg.Telemetry.MetricsFile)); mErr != nil {
			logger.WarnContext(ctx, "Failed to write metrics file", slog.String("error", mErr.Error()))
		}
	}

	if err != nil {
		infrastructure.WithError(infrastructure.LoggerWithContext(ctx), err).ErrorContext(ctx, "Postcode lookup failed")
		return err
	}

	logger.InfoContext(ctx, "Converted postcodes to output area codes.")
	return nil
}

// execute runs the pipeline and writes the outputs. Nothing is written
// unless the whole pipeline succeeded.
func execute(ctx context.Context, cfg *config.Config, paths *config.Paths, runner *operations.Runner, logger *slog.Logger) error {
	discovery := files.NewDiscovery(paths)
	variables, err := discovery.ResolveInputs(cfg.Inputs.VariableFiles, cfg.Inputs.VariableGlob)
	if err != nil {
		return err
	}

	inputs := dataprocessing.InputFiles{
		Mapping:   paths.GetInputPath(cfg.Inputs.MappingFile),
		Targets:   paths.GetInputPath(cfg.Inputs.PostcodeListFile),
		Variables: variables,
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputs(validation.InputSet{
		Mapping:   inputs.Mapping,
		Targets:   inputs.Targets,
		Variables: inputs.Variables,
	}); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return err
	}

	pipeline := dataprocessing.NewPipeline(pipelineOptions(cfg), runner, logger)
	loaded, err := pipeline.Load(ctx, inputs)
	if err != nil {
		return err
	}
	result, err := pipeline.Run(ctx, loaded)
	if err != nil {
		return err
	}

	return writeOutputs(ctx, cfg, paths, result, logger)
}

func pipelineOptions(cfg *config.Config) dataprocessing.Options {
	return dataprocessing.Options{
		SheetName:             cfg.Inputs.SheetName,
		MappingPostcodeColumn: cfg.Inputs.MappingPostcodeColumn,
		MappingAreaColumn:     cfg.Inputs.MappingAreaColumn,
		PostcodeColumn:        cfg.Inputs.PostcodeColumn,
		Variable: dataprocessing.VariableOptions{
			AreaColumn:        config.DefaultAreaColumn,
			AreaColumnAliases: cfg.Inputs.AreaColumnAliases,
			ValueColumn:       cfg.Inputs.ValueColumn,
			CodeSuffix:        cfg.Inputs.CodeSuffix,
		},
		NoDataMarker: cfg.Pipeline.NoDataMarker,
		Workers:      cfg.Pipeline.Workers,
	}
}

func writeOutputs(ctx context.Context, cfg *config.Config, paths *config.Paths, result *dataprocessing.Result, logger *slog.Logger) error {
	csvWriter := exporter.NewCSVWriter(paths, cfg.Output.BOMPrefix)

	if cfg.Output.MappingCSV != "" {
		path, err := csvWriter.WriteMapping(cfg.Output.MappingCSV, result.Targets)
		if err != nil {
			return fmt.Errorf("failed to write postcode mapping: %w", err)
		}
		logger.InfoContext(ctx, "Saved postcode mapping", slog.String("path", path))
	}

	if cfg.Output.TableCSV != "" {
		path, err := csvWriter.WriteTable(cfg.Output.TableCSV, result.Combined)
		if err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
		logger.InfoContext(ctx, "Saved table", slog.String("path", path))
	}

	if cfg.Output.MissingReport != "" {
		path, err := exporter.WriteMissingReport(paths, cfg.Output.MissingReport, result.Missing)
		if err != nil {
			return fmt.Errorf("failed to write missing data report: %w", err)
		}
		if path != "" {
			logger.WarnContext(ctx, "Some postcodes have no data",
				slog.Int("unresolved", len(result.Missing.UnresolvedPostcodes)),
				slog.Int("suppressed", len(result.Missing.SuppressedPostcodes)),
				slog.String("path", path))
		}
	}

	layout, err := presentation.BuildLayout(result.Combined)
	if err != nil {
		return err
	}

	if cfg.Output.TableXLSX != "" {
		path := paths.GetOutputPath(cfg.Output.TableXLSX)
		if err := exporter.WriteWorkbook(path, layout); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Saved workbook", slog.String("path", path))
	}

	if cfg.Render.HTMLFile != "" {
		htmlPath := paths.GetOutputPath(cfg.Render.HTMLFile)
		if err := exporter.WriteFileAtomic(htmlPath, func(w io.Writer) error {
			return presentation.RenderHTML(w, layout, cfg.Render.Title)
		}); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Saved HTML table", slog.String("path", htmlPath))

		if cfg.Render.Image && cfg.Render.ImageFile != "" {
			png, err := presentation.RenderPNG(ctx, htmlPath, presentation.ImageOptions{Timeout: cfg.Render.ImageTimeout}, logger)
			if err != nil {
				return err
			}
			imagePath := paths.GetOutputPath(cfg.Render.ImageFile)
			if err := exporter.WriteFileAtomic(imagePath, func(w io.Writer) error {
				_, err := w.Write(png)
				return err
			}); err != nil {
				return err
			}
			logger.InfoContext(ctx, "Saved table image", slog.String("path", imagePath))
		}
	}

	if cfg.Output.SQLitePath != "" {
		path := paths.GetOutputPath(cfg.Output.SQLitePath)
		if err := exporter.WriteSQLite(ctx, path, exporter.SQLiteData{
			Targets:  result.Targets,
			Combined: result.Combined,
			Missing:  result.Missing,
		}); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Saved SQLite database", slog.String("path", path))
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Inputs    InputsConfig    `yaml:"inputs" envconfig:"INPUTS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Render    RenderConfig    `yaml:"render" envconfig:"RENDER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration. Relative
// directories are resolved against BaseDir, which defaults to the working
// directory.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// InputsConfig names the input tables and the columns the pipeline reads.
type InputsConfig struct {
	MappingFile           string   `yaml:"mapping_file" envconfig:"MAPPING_FILE" validate:"required"`
	PostcodeListFile      string   `yaml:"postcode_list_file" envconfig:"POSTCODE_LIST_FILE" validate:"required"`
	VariableFiles         []string `yaml:"variable_files" envconfig:"VARIABLE_FILES"`
	VariableGlob          string   `yaml:"variable_glob" envconfig:"VARIABLE_GLOB" validate:"required_without=VariableFiles"`
	SheetName             string   `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	MappingPostcodeColumn string   `yaml:"mapping_postcode_column" envconfig:"MAPPING_POSTCODE_COLUMN" validate:"required"`
	MappingAreaColumn     string   `yaml:"mapping_area_column" envconfig:"MAPPING_AREA_COLUMN" validate:"required"`
	PostcodeColumn        string   `yaml:"postcode_column" envconfig:"POSTCODE_COLUMN" validate:"required"`
	AreaColumnAliases     []string `yaml:"area_column_aliases" envconfig:"AREA_COLUMN_ALIASES"`
	ValueColumn           string   `yaml:"value_column" envconfig:"VALUE_COLUMN" validate:"required"`
	CodeSuffix            string   `yaml:"code_suffix" envconfig:"CODE_SUFFIX" validate:"required"`
}

// PipelineConfig tunes the core pipeline.
type PipelineConfig struct {
	// Workers bounds how many variables are pivoted at once.
	Workers      int    `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	NoDataMarker string `yaml:"no_data_marker" envconfig:"NO_DATA_MARKER" validate:"required"`
}

// OutputConfig names the files written after a successful run. An empty
// name disables that output.
type OutputConfig struct {
	MappingCSV    string `yaml:"mapping_csv" envconfig:"MAPPING_CSV"`
	TableCSV      string `yaml:"table_csv" envconfig:"TABLE_CSV"`
	TableXLSX     string `yaml:"table_xlsx" envconfig:"TABLE_XLSX"`
	MissingReport string `yaml:"missing_report" envconfig:"MISSING_REPORT"`
	SQLitePath    string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	BOMPrefix     bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// RenderConfig controls the rendered table artifacts.
type RenderConfig struct {
	HTMLFile     string        `yaml:"html_file" envconfig:"HTML_FILE"`
	ImageFile    string        `yaml:"image_file" envconfig:"IMAGE_FILE"`
	Image        bool          `yaml:"image" envconfig:"IMAGE"`
	Title        string        `yaml:"title" envconfig:"TITLE"`
	ImageTimeout time.Duration `yaml:"image_timeout" envconfig:"IMAGE_TIMEOUT" validate:"min=0"`
}

// TelemetryConfig controls tracing and metrics.
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"omitempty,oneof=stdout none"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, then the YAML file at
// configFile (or the first one found in the usual locations when empty),
// then PCL_* environment variables, and validates the result.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave the file and default values untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths anchors relative directories at the base directory
func (c *Config) resolvePaths() error {
	if c.Paths.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		c.Paths.BaseDir = wd
	}

	abs, err := filepath.Abs(c.Paths.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}
	c.Paths.BaseDir = abs

	if c.Logging.FilePath != "" && !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(c.Paths.BaseDir, c.Logging.FilePath)
	}

	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Format != DefaultLogFormat {
		// JSON is the only supported log format
		c.Logging.Format = DefaultLogFormat
	}

	if c.Logging.FilePath == "" && c.Logging.Output != "console" {
		c.Logging.FilePath = filepath.Join(c.Paths.BaseDir, c.Paths.LogsDir, DefaultLogFile)
	}

	if c.Render.Image && c.Render.HTMLFile == "" {
		return fmt.Errorf("render.image requires render.html_file")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: "both",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Inputs: InputsConfig{
			MappingPostcodeColumn: DefaultMappingPostcodeColumn,
			MappingAreaColumn:     DefaultMappingAreaColumn,
			PostcodeColumn:        DefaultPostcodeColumn,
			AreaColumnAliases:     append([]string(nil), DefaultAreaColumnAliases...),
			ValueColumn:           DefaultValueColumn,
			CodeSuffix:            DefaultCodeSuffix,
		},
		Pipeline: PipelineConfig{
			Workers:      1,
			NoDataMarker: DefaultNoDataMarker,
		},
		Output: OutputConfig{
			MappingCSV:    DefaultMappingCSV,
			TableCSV:      DefaultTableCSV,
			TableXLSX:     DefaultTableXLSX,
			MissingReport: DefaultMissingReport,
		},
		Render: RenderConfig{
			HTMLFile:     DefaultTableHTML,
			ImageFile:    DefaultTableImage,
			Image:        true,
			ImageTimeout: 30 * time.Second,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceExporter: "none",
			EnableMetrics: true,
			SampleRatio:   1.0,
		},
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "env only",
			env: map[string]string{
				"PCL_INPUTS_MAPPING_FILE":       "mapping.csv",
				"PCL_INPUTS_POSTCODE_LIST_FILE": "postcodes.csv",
				"PCL_INPUTS_VARIABLE_FILES":     "age.csv,tenure.csv",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mapping.csv", cfg.Inputs.MappingFile)
				assert.Equal(t, []string{"age.csv", "tenure.csv"}, cfg.Inputs.VariableFiles)
				assert.Equal(t, DefaultMappingPostcodeColumn, cfg.Inputs.MappingPostcodeColumn)
				assert.Equal(t, DefaultMappingAreaColumn, cfg.Inputs.MappingAreaColumn)
				assert.Equal(t, DefaultAreaColumnAliases, cfg.Inputs.AreaColumnAliases)
				assert.Equal(t, 1, cfg.Pipeline.Workers)
				assert.Equal(t, DefaultNoDataMarker, cfg.Pipeline.NoDataMarker)
				assert.Equal(t, 30*time.Second, cfg.Render.ImageTimeout)
				assert.True(t, filepath.IsAbs(cfg.Paths.BaseDir))
			},
		},
		{
			name: "file values survive when env is unset",
			file: `
inputs:
  mapping_file: pcd_oa.csv
  postcode_list_file: list.csv
  variable_glob: "census/*.csv"
pipeline:
  workers: 4
  no_data_marker: "x"
render:
  image: false
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "pcd_oa.csv", cfg.Inputs.MappingFile)
				assert.Equal(t, "census/*.csv", cfg.Inputs.VariableGlob)
				assert.Equal(t, 4, cfg.Pipeline.Workers)
				assert.Equal(t, "x", cfg.Pipeline.NoDataMarker)
				assert.False(t, cfg.Render.Image)
				// untouched by the file
				assert.Equal(t, DefaultPostcodeColumn, cfg.Inputs.PostcodeColumn)
			},
		},
		{
			name: "env overrides file",
			file: `
inputs:
  mapping_file: pcd_oa.csv
  postcode_list_file: list.csv
  variable_files: [age.csv]
pipeline:
  workers: 4
`,
			env: map[string]string{
				"PCL_PIPELINE_WORKERS": "2",
				"PCL_LOGGING_LEVEL":    "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2, cfg.Pipeline.Workers)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{"age.csv"}, cfg.Inputs.VariableFiles)
			},
		},
		{
			name: "missing variable inputs",
			env: map[string]string{
				"PCL_INPUTS_MAPPING_FILE":       "mapping.csv",
				"PCL_INPUTS_POSTCODE_LIST_FILE": "postcodes.csv",
			},
			wantErr: true,
		},
		{
			name: "missing mapping file",
			env: map[string]string{
				"PCL_INPUTS_POSTCODE_LIST_FILE": "postcodes.csv",
				"PCL_INPUTS_VARIABLE_GLOB":      "*.csv",
			},
			wantErr: true,
		},
		{
			name: "worker count out of range",
			env: map[string]string{
				"PCL_INPUTS_MAPPING_FILE":       "mapping.csv",
				"PCL_INPUTS_POSTCODE_LIST_FILE": "postcodes.csv",
				"PCL_INPUTS_VARIABLE_GLOB":      "*.csv",
				"PCL_PIPELINE_WORKERS":          "0",
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"PCL_INPUTS_MAPPING_FILE":       "mapping.csv",
				"PCL_INPUTS_POSTCODE_LIST_FILE": "postcodes.csv",
				"PCL_INPUTS_VARIABLE_GLOB":      "*.csv",
				"PCL_LOGGING_LEVEL":             "verbose",
			},
			wantErr: true,
		},
		{
			name: "malformed env value",
			env: map[string]string{
				"PCL_INPUTS_MAPPING_FILE":       "mapping.csv",
				"PCL_INPUTS_POSTCODE_LIST_FILE": "postcodes.csv",
				"PCL_INPUTS_VARIABLE_GLOB":      "*.csv",
				"PCL_PIPELINE_WORKERS":          "many",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "inputs: [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoad_LogFileDefaultsUnderLogsDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("PCL_PATHS_BASE_DIR", base)
	t.Setenv("PCL_INPUTS_MAPPING_FILE", "mapping.csv")
	t.Setenv("PCL_INPUTS_POSTCODE_LIST_FILE", "postcodes.csv")
	t.Setenv("PCL_INPUTS_VARIABLE_GLOB", "*.csv")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, DefaultLogsDir, DefaultLogFile), cfg.Logging.FilePath)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultDataDir, cfg.Paths.DataDir)
	assert.Equal(t, DefaultOutputDir, cfg.Paths.OutputDir)
	assert.Equal(t, DefaultMappingCSV, cfg.Output.MappingCSV)
	assert.Equal(t, DefaultTableCSV, cfg.Output.TableCSV)
	assert.Equal(t, DefaultMissingReport, cfg.Output.MissingReport)
	assert.Empty(t, cfg.Output.SQLitePath)
	assert.True(t, cfg.Render.Image)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)

	// aliases must be a copy
	cfg.Inputs.AreaColumnAliases[0] = "changed"
	assert.Equal(t, "Output Areas", DefaultAreaColumnAliases[0])
}

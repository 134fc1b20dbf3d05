// Package config provides centralized configuration management for the
// postcode lookup run. It loads configuration from multiple sources,
// validates it, and resolves every file path the run touches.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. A YAML file (config.yaml or configs/config.yaml)
//	3. Environment variables with the PCL_ prefix
//
// # Environment Variables
//
// Nested sections are flattened with underscores:
//
//	PCL_INPUTS_MAPPING_FILE=PCD_OA21_LSOA21_MSOA21_LAD_AUG23_UK_LU.csv
//	PCL_INPUTS_POSTCODE_LIST_FILE=postcodes.csv
//	PCL_INPUTS_VARIABLE_FILES=age.csv,tenure.csv
//	PCL_PIPELINE_WORKERS=4
//	PCL_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths resolves the data, output and logs directories against a base
// directory (the working directory unless PCL_PATHS_BASE_DIR is set):
//
//	paths, _ := config.GetPaths(cfg.Paths)
//	mapping := paths.GetInputPath(cfg.Inputs.MappingFile)
//	table := paths.GetOutputPath(cfg.Output.TableCSV)
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time, so a
// missing mapping file name or an out-of-range worker count is reported
// before any data is read.
package config

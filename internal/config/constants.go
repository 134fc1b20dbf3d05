package config

import "postcodelookup/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "Postcode Lookup"
	AppVersion = contracts.Version

	// Environment variable prefix, e.g. PCL_LOGGING_LEVEL
	EnvPrefix = "PCL"

	// File Paths (relative to the base directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "output"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "postcode-lookup.log"

	// Input column defaults (ONS postcode directory and census bulk downloads)
	DefaultMappingPostcodeColumn = "pcd"
	DefaultMappingAreaColumn     = "oa21"
	DefaultPostcodeColumn        = "Postcode"
	DefaultValueColumn           = "Observation"
	DefaultCodeSuffix            = "Code"
	DefaultAreaColumn            = "Output Area"

	// Output file names
	DefaultMappingCSV    = "output_area_mapping.csv"
	DefaultTableCSV      = "table.csv"
	DefaultTableXLSX     = "table.xlsx"
	DefaultTableHTML     = "table.html"
	DefaultTableImage    = "df_wide_styled.png"
	DefaultMissingReport = "missing_data.txt"

	// Marker written where a postcode group has no value
	DefaultNoDataMarker = "-"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultAreaColumnAliases are header spellings of the area column that are
// renamed to DefaultAreaColumn before use.
var DefaultAreaColumnAliases = []string{"Output Areas", "Output Area"}

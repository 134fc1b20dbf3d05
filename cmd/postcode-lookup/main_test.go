package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"postcodelookup/internal/infrastructure"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// setupRun writes a config file and the reference inputs: four mapped
// postcodes, one unknown, and two variables in numbered files.
func setupRun(t *testing.T, extra string) (configPath, base string) {
	t.Helper()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	base = t.TempDir()
	writeFile(t, base, "data/mapping.csv",
		"pcd,oa21\nAB1 0AA,E01\nAB1 0AB,E02\nAB1 0AC,E03\nAB1 0AD,E03\n")
	writeFile(t, base, "data/postcodes.csv",
		"Postcode\nAB1 0AA\nAB10AB\nAB1 0AC\nAB1 0AD\nZZZ ZZZ\n")
	writeFile(t, base, "data/census_2.csv",
		"Output Areas Code,Output Areas,Tenure Code,Tenure,Observation\n"+
			"1,E01,1,Owned,10\n1,E01,2,Rented,5\n2,E02,1,Owned,7\n")
	writeFile(t, base, "data/census_10.csv",
		"Output Areas,Cars,Observation\nE01,None,3\nE02,None,4\n")

	configPath = writeFile(t, base, "config.yaml", `
logging:
  level: debug
  output: file
paths:
  base_dir: `+base+`
inputs:
  mapping_file: mapping.csv
  postcode_list_file: postcodes.csv
  variable_glob: census_*.csv
render:
  image: false
telemetry:
  enable_metrics: true
  metrics_file: metrics.prom
`+extra)
	return configPath, base
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun_EndToEnd(t *testing.T) {
	configPath, base := setupRun(t, `
output:
  sqlite_path: lookup.sqlite
`)
	require.NoError(t, run(context.Background(), []string{"-config", configPath}))

	out := filepath.Join(base, "output")

	mapping := readCSV(t, filepath.Join(out, "output_area_mapping.csv"))
	assert.Equal(t, [][]string{
		{"Postcode", "Output area code"},
		{"AB1 0AA", "E01"},
		{"AB10AB", "E02"},
		{"AB1 0AC", "E03"},
		{"AB1 0AD", "E03"},
		{"ZZZ ZZZ", ""},
	}, mapping)

	table := readCSV(t, filepath.Join(out, "table.csv"))
	assert.Equal(t, []string{"", "", "Tenure", "Tenure", "Cars"}, table[0])
	assert.Equal(t, []string{"Postcode", "Output Area", "Owned", "Rented", "None"}, table[1])
	assert.Equal(t, []string{"AB1 0AA", "E01", "10", "5", "3"}, table[2])
	assert.Equal(t, []string{"AB10AB", "E02", "7", "-", "4"}, table[3])

	report, err := os.ReadFile(filepath.Join(out, "missing_data.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "ZZZ ZZZ")
	assert.Contains(t, string(report), "AB1 0AC")

	html, err := os.ReadFile(filepath.Join(out, "table.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `id="wide-table"`)
	assert.NoFileExists(t, filepath.Join(out, "df_wide_styled.png"))

	f, err := excelize.OpenFile(filepath.Join(out, "table.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Table")
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	assert.FileExists(t, filepath.Join(out, "lookup.sqlite"))

	metrics, err := os.ReadFile(filepath.Join(out, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `stage="pivot"`)

	logs, err := os.ReadFile(filepath.Join(base, "logs", "postcode-lookup.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logs), "Converted postcodes to output area codes.")
	assert.Contains(t, string(logs), `"run_id"`)
}

func TestRun_OutputFlag(t *testing.T) {
	configPath, _ := setupRun(t, "")
	out := filepath.Join(t.TempDir(), "elsewhere")

	require.NoError(t, run(context.Background(), []string{"-config", configPath, "-out", out}))
	assert.FileExists(t, filepath.Join(out, "table.csv"))
}

func TestRun_FatalErrorWritesNothing(t *testing.T) {
	configPath, base := setupRun(t, "")
	// Same postcode mapped to two areas
	writeFile(t, base, "data/mapping.csv",
		"pcd,oa21\nAB1 0AA,E01\nAB10AA,E09\nAB1 0AB,E02\n")

	err := run(context.Background(), []string{"-config", configPath})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "AB10AA"), "error names the key: %v", err)

	for _, name := range []string{"output_area_mapping.csv", "table.csv", "table.xlsx", "table.html", "missing_data.txt"} {
		assert.NoFileExists(t, filepath.Join(base, "output", name))
	}
}

func TestRun_MissingInput(t *testing.T) {
	configPath, base := setupRun(t, "")
	require.NoError(t, os.Remove(filepath.Join(base, "data", "postcodes.csv")))

	err := run(context.Background(), []string{"-config", configPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postcodes.csv")
}

func TestRun_Help(t *testing.T) {
	assert.NoError(t, run(context.Background(), []string{"-h"}))
}

func TestRun_Version(t *testing.T) {
	assert.NoError(t, run(context.Background(), []string{"-version"}))
}

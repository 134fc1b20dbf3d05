package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"postcodelookup/internal/config"
	"postcodelookup/pkg/contracts/domain"
)

// MappingAreaColumn labels the resolved area in the saved postcode list.
const MappingAreaColumn = "Output area code"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths     *config.Paths
	bomPrefix bool
}

// NewCSVWriter creates a new CSV writer. Relative file names are placed in
// the output directory.
func NewCSVWriter(paths *config.Paths, bomPrefix bool) *CSVWriter {
	return &CSVWriter{paths: paths, bomPrefix: bomPrefix}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	// HeaderRows are written before the records, in order
	HeaderRows [][]string
	Records    [][]string
	BOMPrefix  bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	slog.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	err := WriteFileAtomic(fullPath, func(out io.Writer) error {
		if options.BOMPrefix {
			if _, err := out.Write(utf8BOM); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(out)
		for i, header := range options.HeaderRows {
			if err := writer.Write(header); err != nil {
				return fmt.Errorf("failed to write header row %d: %w", i, err)
			}
		}
		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return "", err
	}
	return fullPath, nil
}

// WriteMapping saves the resolved postcode list: the raw postcode and its
// area code, empty when unresolved. Working columns are not written.
func (w *CSVWriter) WriteMapping(filePath string, targets domain.TargetPostalCodeList) (string, error) {
	records := make([][]string, len(targets.Rows))
	for i, row := range targets.Rows {
		records[i] = []string{row.Postcode.Raw, row.Area()}
	}
	return w.WriteCSV(filePath, WriteOptions{
		HeaderRows: [][]string{{domain.PostcodeColumn, MappingAreaColumn}},
		Records:    records,
		BOMPrefix:  w.bomPrefix,
	})
}

// WriteTable saves the combined table with both header levels as the first
// two rows. Spacer columns are presentation only and are not written.
func (w *CSVWriter) WriteTable(filePath string, table domain.CombinedTable) (string, error) {
	if len(table.Header) != table.ColumnCount() {
		return "", fmt.Errorf("table header has %d labels for %d columns", len(table.Header), table.ColumnCount())
	}
	return w.WriteCSV(filePath, WriteOptions{
		HeaderRows: [][]string{table.Header.Level0(), table.Header.Level1()},
		Records:    table.Rows,
		BOMPrefix:  w.bomPrefix,
	})
}

// resolvePath places relative paths in the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if w.paths == nil {
		return filePath
	}
	return w.paths.GetOutputPath(filePath)
}

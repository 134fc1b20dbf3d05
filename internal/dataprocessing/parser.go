package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

// LoadOptions controls how a tabular file is read.
type LoadOptions struct {
	// SheetName selects the worksheet of an .xlsx file; the first sheet when empty.
	SheetName string
}

// LoadTable reads a .csv or .xlsx file into memory. The first row is the
// header; empty rows are skipped and short rows are padded to the header width.
func LoadTable(filePath string, opts LoadOptions) (*domain.RawTable, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".csv":
		records, err = readCSV(filePath)
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(filePath, opts.SheetName)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported file type %q", ext), nil).
			WithContext("file", filePath)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read "+filePath, err).WithContext("file", filePath)
	}

	table, err := buildRawTable(filePath, records)
	if err != nil {
		return nil, apperrors.NewParsingError(err.Error(), nil).WithContext("file", filePath)
	}

	slog.Debug("Loaded table",
		slog.String("file", filePath),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// readCSV reads every record of a CSV file, dropping a UTF-8 byte-order mark
func readCSV(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(f, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// readWorkbook reads every row of one worksheet
func readWorkbook(filePath, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

// buildRawTable turns raw records into a rectangular table
func buildRawTable(filePath string, records [][]string) (*domain.RawTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", filePath)
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(cell)
	}
	// Spreadsheets often carry trailing blank header cells
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%s has an empty header row", filePath)
	}
	for i, name := range header {
		if name == "" {
			return nil, fmt.Errorf("%s has an unnamed column at position %d", filePath, i+1)
		}
	}

	width := len(header)
	rows := make([][]string, 0, len(records)-1)
	for n, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		if len(record) > width {
			if !isBlankRecord(record[width:]) {
				return nil, fmt.Errorf("%s row %d has %d cells, header has %d", filePath, n+2, len(record), width)
			}
			record = record[:width]
		}
		row := make([]string, width)
		copy(row, record)
		rows = append(rows, row)
	}

	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return &domain.RawTable{
		Name:    name,
		Source:  filePath,
		Columns: header,
		Rows:    rows,
	}, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"postcodelookup/internal/presentation"
	"postcodelookup/pkg/contracts/domain"
)

// DefaultSheetName is the worksheet the table is written to.
const DefaultSheetName = "Table"

const (
	spacerColumnWidth = 2
	dataColumnWidth   = 14
	borderMedium      = 2
)

// WriteWorkbook writes the spaced layout as a styled workbook: merged
// variable labels on row 1, categories on row 2, data below.
func WriteWorkbook(filePath string, layout *presentation.Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := DefaultSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	// Row 1: one cell per span, merged across variables
	for _, span := range layout.Spans {
		start, _ := excelize.CoordinatesToCellName(span.Start+1, 1)
		end, _ := excelize.CoordinatesToCellName(span.Start+span.Width, 1)
		if err := f.SetCellValue(sheet, start, span.Label); err != nil {
			return err
		}
		if span.Width > 1 {
			if err := f.MergeCell(sheet, start, end); err != nil {
				return fmt.Errorf("failed to merge %s:%s: %w", start, end, err)
			}
		}
		style := styles.level0
		if span.Kind == domain.ColumnCategory {
			style = styles.level0Span
		}
		if err := f.SetCellStyle(sheet, start, end, style); err != nil {
			return err
		}
	}

	// Row 2: categories and identifier names
	for i, cell := range layout.Header {
		name, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, name, cell.Level1); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, name, name, styles.level1); err != nil {
			return err
		}
	}

	for r, row := range layout.Rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			if i < domain.IdentifierColumnCount {
				values[i] = v
			} else {
				values[i] = cellValue(v)
			}
		}
		start, _ := excelize.CoordinatesToCellName(1, r+3)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if n := layout.ColumnCount(); n > 0 && len(layout.Rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 3)
		last, _ := excelize.CoordinatesToCellName(n, len(layout.Rows)+2)
		if err := f.SetCellStyle(sheet, first, last, styles.data); err != nil {
			return err
		}
	}

	for i, cell := range layout.Header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(dataColumnWidth)
		if cell.Kind == domain.ColumnSpacer {
			width = spacerColumnWidth
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	return WriteFileAtomic(filePath, func(w io.Writer) error {
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}

type workbookStyles struct {
	level0     int
	level0Span int
	level1     int
	data       int
}

// newWorkbookStyles mirrors the HTML rules: top border over the first header
// row, bottom border under each variable and under the second header row
func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	border := func(sides ...string) []excelize.Border {
		out := make([]excelize.Border, len(sides))
		for i, side := range sides {
			out[i] = excelize.Border{Type: side, Color: "000000", Style: borderMedium}
		}
		return out
	}

	var s workbookStyles
	var err error
	if s.level0, err = f.NewStyle(&excelize.Style{
		Border: border("top"), Alignment: center, Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, fmt.Errorf("failed to create style: %w", err)
	}
	if s.level0Span, err = f.NewStyle(&excelize.Style{
		Border: border("top", "bottom"), Alignment: center, Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, fmt.Errorf("failed to create style: %w", err)
	}
	if s.level1, err = f.NewStyle(&excelize.Style{
		Border: border("bottom"), Alignment: center, Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, fmt.Errorf("failed to create style: %w", err)
	}
	if s.data, err = f.NewStyle(&excelize.Style{Alignment: center}); err != nil {
		return s, fmt.Errorf("failed to create style: %w", err)
	}
	return s, nil
}

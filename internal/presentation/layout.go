package presentation

import (
	"fmt"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

// BorderStyle is the rule used for every header border.
const BorderStyle = "2px solid black"

// StyleProp is one CSS declaration.
type StyleProp struct {
	Name  string
	Value string
}

// StyleRule pairs a selector with its declarations.
type StyleRule struct {
	Selector string
	Props    []StyleProp
}

// Span is one cell of the top header row: an identifier column, a variable
// covering its category columns, or a spacer. Start is the first spaced
// column it covers.
type Span struct {
	Label string
	Kind  domain.ColumnKind
	Start int
	Width int
}

// Layout is the combined table prepared for rendering: spacer columns
// inserted between variables, the top-row spans and the style rules.
type Layout struct {
	Header domain.ColumnHeader
	Rows   [][]string
	Spans  []Span
	Styles []StyleRule
}

// ColumnCount returns the number of spaced columns.
func (l *Layout) ColumnCount() int {
	return len(l.Header)
}

// BuildLayout inserts a spacer column wherever the owning variable changes
// and derives the style rules. The table must carry its header.
func BuildLayout(table domain.CombinedTable) (*Layout, error) {
	if len(table.Header) != table.ColumnCount() {
		return nil, &apperrors.HeaderMismatchError{HeaderLength: len(table.Header), ColumnCount: table.ColumnCount()}
	}

	header := append(domain.ColumnHeader(nil), table.Header...)
	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) != table.ColumnCount() {
			return nil, fmt.Errorf("row %d has %d cells, table has %d columns", i, len(row), table.ColumnCount())
		}
		rows[i] = append([]string(nil), row...)
	}

	points := SpacerPositions(table.Variables)
	for i := len(points) - 1; i >= 0; i-- {
		header = insertAt(header, points[i], domain.HeaderCell{Kind: domain.ColumnSpacer})
		for r := range rows {
			rows[r] = insertAt(rows[r], points[i], "")
		}
	}

	want := table.ColumnCount() + len(points)
	if len(header) != want {
		return nil, &apperrors.HeaderMismatchError{HeaderLength: len(header), ColumnCount: want}
	}

	layout := &Layout{Header: header, Rows: rows}
	layout.Spans = buildSpans(header, table.Variables)
	layout.Styles = buildStyles(layout)
	return layout, nil
}

// SpacerPositions returns, in ascending order, the unspaced column indices
// at which a variable starts after a previous non-empty variable.
func SpacerPositions(variables []domain.VariableColumns) []int {
	var points []int
	pos := domain.IdentifierColumnCount
	seen := false
	for _, v := range variables {
		if v.Count == 0 {
			continue
		}
		if seen {
			points = append(points, pos)
		}
		seen = true
		pos += v.Count
	}
	return points
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// buildSpans walks the spaced header, one span per identifier column, per
// variable and per spacer
func buildSpans(header domain.ColumnHeader, variables []domain.VariableColumns) []Span {
	var spans []Span
	col := 0
	for ; col < len(header) && header[col].Kind == domain.ColumnIdentifier; col++ {
		spans = append(spans, Span{Kind: domain.ColumnIdentifier, Start: col, Width: 1})
	}

	for _, v := range variables {
		if v.Count == 0 {
			continue
		}
		if col < len(header) && header[col].Kind == domain.ColumnSpacer {
			spans = append(spans, Span{Kind: domain.ColumnSpacer, Start: col, Width: 1})
			col++
		}
		spans = append(spans, Span{Label: v.Variable, Kind: domain.ColumnCategory, Start: col, Width: v.Count})
		col += v.Count
	}
	return spans
}

// buildStyles derives the header borders and column alignment
func buildStyles(l *Layout) []StyleRule {
	border := func(side string) []StyleProp {
		return []StyleProp{{Name: "border-" + side, Value: BorderStyle}}
	}
	center := []StyleProp{{Name: "text-align", Value: "center"}}

	rules := []StyleRule{
		{Selector: ".level0", Props: border("top")},
		{Selector: ".level1", Props: border("bottom")},
	}

	// nth-child counts spans, spacers included
	for i, span := range l.Spans {
		if span.Kind != domain.ColumnCategory {
			continue
		}
		rules = append(rules, StyleRule{
			Selector: fmt.Sprintf(".level0:nth-child(%d)", i+1),
			Props:    border("bottom"),
		})
	}

	for i := 0; i < l.ColumnCount(); i++ {
		rules = append(rules, StyleRule{
			Selector: fmt.Sprintf("th.col%d, td.col%d", i, i),
			Props:    center,
		})
	}
	return rules
}

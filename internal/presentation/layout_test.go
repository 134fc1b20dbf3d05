package presentation

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

func header(level0, level1 []string) domain.ColumnHeader {
	h := make(domain.ColumnHeader, len(level0))
	for i := range level0 {
		kind := domain.ColumnCategory
		if i < domain.IdentifierColumnCount {
			kind = domain.ColumnIdentifier
		}
		h[i] = domain.HeaderCell{Level0: level0[i], Level1: level1[i], Kind: kind}
	}
	return h
}

func sampleTable() domain.CombinedTable {
	columns := []string{"Postcode", "Output Area", "0-4", "5-9", "Owned", "Rented"}
	return domain.CombinedTable{
		Columns: columns,
		Rows: [][]string{
			{"AB1 0AA", "E01", "1", "2", "3", "4"},
			{"AB1 0AB", "E02", "5", "-", "7", "8"},
		},
		Variables: []domain.VariableColumns{{Variable: "Age", Count: 2}, {Variable: "Tenure", Count: 2}},
		Header:    header([]string{"", "", "Age", "Age", "Tenure", "Tenure"}, columns),
	}
}

func TestSpacerPositions(t *testing.T) {
	tests := []struct {
		name      string
		variables []domain.VariableColumns
		want      []int
	}{
		{name: "none", variables: nil, want: nil},
		{name: "single variable", variables: []domain.VariableColumns{{Variable: "A", Count: 3}}, want: nil},
		{name: "three variables", variables: []domain.VariableColumns{{Variable: "A", Count: 2}, {Variable: "B", Count: 1}, {Variable: "C", Count: 3}}, want: []int{4, 5}},
		{name: "empty variable skipped", variables: []domain.VariableColumns{{Variable: "A", Count: 2}, {Variable: "B", Count: 0}, {Variable: "C", Count: 1}}, want: []int{4}},
		{name: "same name twice", variables: []domain.VariableColumns{{Variable: "A", Count: 1}, {Variable: "A", Count: 1}}, want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpacerPositions(tt.variables))
		})
	}
}

func TestBuildLayout(t *testing.T) {
	table := sampleTable()

	layout, err := BuildLayout(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "", "Age", "Age", "", "Tenure", "Tenure"}, layout.Header.Level0())
	assert.Equal(t, []string{"Postcode", "Output Area", "0-4", "5-9", "", "Owned", "Rented"}, layout.Header.Level1())
	assert.Equal(t, domain.ColumnSpacer, layout.Header[4].Kind)
	assert.Equal(t, [][]string{
		{"AB1 0AA", "E01", "1", "2", "", "3", "4"},
		{"AB1 0AB", "E02", "5", "-", "", "7", "8"},
	}, layout.Rows)

	// header length matches column count after spacer insertion
	for _, row := range layout.Rows {
		assert.Len(t, row, layout.ColumnCount())
	}

	// the combined table is not mutated
	assert.Len(t, table.Rows[0], 6)
	assert.Len(t, table.Header, 6)

	assert.Equal(t, []Span{
		{Kind: domain.ColumnIdentifier, Start: 0, Width: 1},
		{Kind: domain.ColumnIdentifier, Start: 1, Width: 1},
		{Label: "Age", Kind: domain.ColumnCategory, Start: 2, Width: 2},
		{Kind: domain.ColumnSpacer, Start: 4, Width: 1},
		{Label: "Tenure", Kind: domain.ColumnCategory, Start: 5, Width: 2},
	}, layout.Spans)
}

func TestBuildLayout_Styles(t *testing.T) {
	layout, err := BuildLayout(sampleTable())
	require.NoError(t, err)

	selectors := make(map[string][]StyleProp)
	for _, r := range layout.Styles {
		selectors[r.Selector] = r.Props
	}

	border := []StyleProp{{Name: "border-bottom", Value: BorderStyle}}
	assert.Equal(t, []StyleProp{{Name: "border-top", Value: BorderStyle}}, selectors[".level0"])
	assert.Equal(t, border, selectors[".level1"])
	assert.Equal(t, border, selectors[".level0:nth-child(3)"])
	assert.Equal(t, border, selectors[".level0:nth-child(5)"])
	assert.NotContains(t, selectors, ".level0:nth-child(4)", "spacer spans get no border")

	for i := 0; i < layout.ColumnCount(); i++ {
		key := "th.col" + strconv.Itoa(i) + ", td.col" + strconv.Itoa(i)
		assert.Equal(t, []StyleProp{{Name: "text-align", Value: "center"}}, selectors[key])
	}
	assert.Len(t, layout.Styles, 2+2+layout.ColumnCount())
}

func TestBuildLayout_HeaderMismatch(t *testing.T) {
	table := sampleTable()
	table.Header = table.Header[:5]

	_, err := BuildLayout(table)
	assert.ErrorIs(t, err, apperrors.ErrHeaderMismatch)
}

func TestBuildLayout_RaggedRow(t *testing.T) {
	table := sampleTable()
	table.Rows[1] = table.Rows[1][:3]

	_, err := BuildLayout(table)
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	layout, err := BuildLayout(sampleTable())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, layout, "Census <by postcode>"))
	page := buf.String()

	assert.Contains(t, page, "<title>Census &lt;by postcode&gt;</title>")
	assert.Contains(t, page, `<th class="level0 col2" colspan="2">Age</th>`)
	assert.Contains(t, page, `<th class="level0 col4 spacer" colspan="1"></th>`)
	assert.Contains(t, page, `<th class="level1 col6">Rented</th>`)
	assert.Contains(t, page, `<td class="col0">AB1 0AA</td>`)
	assert.Contains(t, page, ".level0:nth-child(5) { border-bottom: 2px solid black; }")
	assert.Equal(t, 2, strings.Count(page, "<tr><td"))
}

func TestStyleSheet(t *testing.T) {
	css := StyleSheet([]StyleRule{
		{Selector: ".a", Props: []StyleProp{{Name: "color", Value: "red"}, {Name: "margin", Value: "0"}}},
	})
	assert.Equal(t, ".a { color: red; margin: 0; }\n", css)
}

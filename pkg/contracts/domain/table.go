package domain

// Identifier column labels of the combined table.
const (
	PostcodeColumn = "Postcode"
	AreaColumn     = "Output Area"
)

// IdentifierColumnCount is the number of leading identifier columns.
const IdentifierColumnCount = 2

// ColumnKind classifies a combined-table column.
type ColumnKind string

const (
	ColumnIdentifier ColumnKind = "identifier"
	ColumnCategory   ColumnKind = "category"
	ColumnSpacer     ColumnKind = "spacer"
)

// HeaderCell is one column of the two-level header.
type HeaderCell struct {
	Level0 string     `json:"level0"`
	Level1 string     `json:"level1"`
	Kind   ColumnKind `json:"kind"`
}

// ColumnHeader is the two-level header, parallel to the table's columns.
type ColumnHeader []HeaderCell

// Level0 returns the top header row.
func (h ColumnHeader) Level0() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.Level0
	}
	return out
}

// Level1 returns the bottom header row.
func (h ColumnHeader) Level1() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.Level1
	}
	return out
}

// VariableColumns records how many category columns a variable contributed.
type VariableColumns struct {
	Variable string `json:"variable"`
	Count    int    `json:"count"`
}

// CombinedTable is the horizontal union of every wide variable table.
// Columns holds the bottom-level label of every column; Rows are parallel to it.
type CombinedTable struct {
	Columns   []string          `json:"columns"`
	Rows      [][]string        `json:"rows"`
	Variables []VariableColumns `json:"variables"`
	Header    ColumnHeader      `json:"header,omitempty"`
}

// ColumnCount returns the number of columns, identifiers included.
func (t CombinedTable) ColumnCount() int {
	return len(t.Columns)
}

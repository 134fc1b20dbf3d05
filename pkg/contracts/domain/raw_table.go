package domain

import "fmt"

// RawTable is a fully materialized tabular file as read by the loader.
// Every row has exactly len(Columns) cells.
type RawTable struct {
	Name    string     `json:"name"`
	Source  string     `json:"source"`
	Columns []string   `json:"columns" validate:"min=1"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of a named column or -1.
func (t RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MustColumn returns the position of a named column or an error naming the source.
func (t RawTable) MustColumn(name string) (int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("column %q not found in %s (columns: %v)", name, t.Source, t.Columns)
	}
	return idx, nil
}

// Column returns every cell of the column at idx.
func (t RawTable) Column(idx int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

package dataprocessing

import (
	"strings"
	"unicode"

	"postcodelookup/pkg/contracts/domain"
)

// NormalizedSuffix is appended to a column name to form its normalized twin.
const NormalizedSuffix = "_normalized"

// NormalizeKey removes every whitespace rune, keeping case and all other
// characters. It is idempotent.
func NormalizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizeColumn returns a copy of t with one extra column holding the
// normalized form of column. The original column is left in place.
func NormalizeColumn(t domain.RawTable, column string) (domain.RawTable, string, error) {
	idx, err := t.MustColumn(column)
	if err != nil {
		return domain.RawTable{}, "", err
	}

	name := column + NormalizedSuffix
	columns := append(append(make([]string, 0, len(t.Columns)+1), t.Columns...), name)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, 0, len(row)+1)
		out = append(out, row...)
		rows[i] = append(out, NormalizeKey(row[idx]))
	}

	return domain.RawTable{
		Name:    t.Name,
		Source:  t.Source,
		Columns: columns,
		Rows:    rows,
	}, name, nil
}

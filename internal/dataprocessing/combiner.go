package dataprocessing

import (
	"sort"

	"github.com/maruel/natural"

	"postcodelookup/pkg/contracts/domain"
)

// CombineTables aligns the wide tables on their row key and concatenates
// them column-wise. The row set is the union over all tables; a table that
// lacks a row contributes noData cells. The key is emitted as the two
// leading identifier columns. Rows are ordered by postcode label, then area
// code, both naturally.
func CombineTables(wides []domain.WideVariableTable, noData string) domain.CombinedTable {
	keys := make(map[domain.RowKey]struct{})
	columnCount := domain.IdentifierColumnCount
	for _, w := range wides {
		for _, row := range w.Rows {
			keys[row.Key] = struct{}{}
		}
		columnCount += len(w.Categories)
	}

	ordered := make([]domain.RowKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Postcodes != b.Postcodes {
			return natural.Less(a.Postcodes, b.Postcodes)
		}
		return natural.Less(a.AreaCode, b.AreaCode)
	})

	table := domain.CombinedTable{
		Columns:   make([]string, 0, columnCount),
		Rows:      make([][]string, len(ordered)),
		Variables: make([]domain.VariableColumns, 0, len(wides)),
	}
	table.Columns = append(table.Columns, domain.PostcodeColumn, domain.AreaColumn)
	for i, k := range ordered {
		row := make([]string, 0, columnCount)
		table.Rows[i] = append(row, k.Postcodes, k.AreaCode)
	}

	for _, w := range wides {
		table.Columns = append(table.Columns, w.Categories...)
		table.Variables = append(table.Variables, domain.VariableColumns{
			Variable: w.Variable,
			Count:    len(w.Categories),
		})

		byKey := make(map[domain.RowKey][]string, len(w.Rows))
		for _, row := range w.Rows {
			byKey[row.Key] = row.Values
		}
		for i, k := range ordered {
			values, ok := byKey[k]
			if !ok {
				values = make([]string, len(w.Categories))
				for j := range values {
					values[j] = noData
				}
			}
			table.Rows[i] = append(table.Rows[i], values...)
		}
	}

	return table
}

package dataprocessing

import (
	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

// BuildHeader labels every column of the combined table. The identifier
// columns get an empty top label; each category column gets its variable's
// name on top and the category below, in variable input order.
func BuildHeader(table domain.CombinedTable) (domain.ColumnHeader, error) {
	header := make(domain.ColumnHeader, 0, table.ColumnCount())
	for i := 0; i < domain.IdentifierColumnCount && i < len(table.Columns); i++ {
		header = append(header, domain.HeaderCell{Level1: table.Columns[i], Kind: domain.ColumnIdentifier})
	}

	pos := domain.IdentifierColumnCount
	for _, v := range table.Variables {
		for j := 0; j < v.Count; j++ {
			cell := domain.HeaderCell{Level0: v.Variable, Kind: domain.ColumnCategory}
			if pos < len(table.Columns) {
				cell.Level1 = table.Columns[pos]
			}
			header = append(header, cell)
			pos++
		}
	}

	if len(header) != table.ColumnCount() {
		return nil, &apperrors.HeaderMismatchError{HeaderLength: len(header), ColumnCount: table.ColumnCount()}
	}
	return header, nil
}

// WithHeader returns a copy of table carrying its header.
func WithHeader(table domain.CombinedTable) (domain.CombinedTable, error) {
	header, err := BuildHeader(table)
	if err != nil {
		return domain.CombinedTable{}, err
	}
	table.Header = header
	return table, nil
}

package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"postcodelookup/internal/config"
	"postcodelookup/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.GetPaths(config.PathsConfig{
		BaseDir:   t.TempDir(),
		DataDir:   "data",
		OutputDir: "output",
		LogsDir:   "logs",
	})
	require.NoError(t, err)
	return paths
}

func strPtr(s string) *string { return &s }

func sampleTargets() domain.TargetPostalCodeList {
	return domain.TargetPostalCodeList{Rows: []domain.TargetPostalCode{
		{Postcode: domain.PostalCode{Raw: "AB1 2CD", Normalized: "AB12CD"}, AreaCode: strPtr("E001")},
		{Postcode: domain.PostalCode{Raw: "ab12ce", Normalized: "AB12CE"}, AreaCode: strPtr("E001")},
		{Postcode: domain.PostalCode{Raw: "ZZ9 9ZZ", Normalized: "ZZ99ZZ"}},
		{Postcode: domain.PostalCode{Raw: "EF3 4GH", Normalized: "EF34GH"}, AreaCode: strPtr("E002")},
	}}
}

// sampleTable is two variables over two areas, header attached.
func sampleTable() domain.CombinedTable {
	return domain.CombinedTable{
		Columns: []string{domain.PostcodeColumn, domain.AreaColumn, "Owned", "Rented", "Car", "No car"},
		Rows: [][]string{
			{"AB1 2CD, ab12ce", "E001", "10", "5", "12.5", "-"},
			{"EF3 4GH", "E002", "-", "-", "3", "4"},
		},
		Variables: []domain.VariableColumns{
			{Variable: "Tenure", Count: 2},
			{Variable: "Cars", Count: 2},
		},
		Header: domain.ColumnHeader{
			{Level1: domain.PostcodeColumn, Kind: domain.ColumnIdentifier},
			{Level1: domain.AreaColumn, Kind: domain.ColumnIdentifier},
			{Level0: "Tenure", Level1: "Owned", Kind: domain.ColumnCategory},
			{Level0: "Tenure", Level1: "Rented", Kind: domain.ColumnCategory},
			{Level0: "Cars", Level1: "Car", Kind: domain.ColumnCategory},
			{Level0: "Cars", Level1: "No car", Kind: domain.ColumnCategory},
		},
	}
}

func sampleMissing() domain.MissingData {
	return domain.MissingData{
		UnresolvedPostcodes: []string{"ZZ9 9ZZ"},
		SuppressedPostcodes: []string{"AB1 2CD", "EF3 4GH", "ab12ce"},
		SuppressedByVariable: map[string][]string{
			"Tenure": {"EF3 4GH"},
			"Cars":   {"AB1 2CD", "ab12ce"},
		},
	}
}

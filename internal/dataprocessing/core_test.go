package dataprocessing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

func postcode(raw string) domain.PostalCode {
	return domain.PostalCode{Raw: raw, Normalized: NormalizeKey(raw)}
}

func mappingOf(pairs ...string) domain.AreaMapping {
	m := domain.AreaMapping{Source: "mapping.csv"}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Entries = append(m.Entries, domain.AreaMappingEntry{Postcode: postcode(pairs[i]), AreaCode: pairs[i+1]})
	}
	return m
}

func targetsOf(raws ...string) domain.TargetPostalCodeList {
	l := domain.TargetPostalCodeList{Source: "targets.csv"}
	for _, r := range raws {
		l.Rows = append(l.Rows, domain.TargetPostalCode{Postcode: postcode(r)})
	}
	return l
}

func variableOf(name string, obs ...domain.Observation) domain.VariableTable {
	return domain.VariableTable{
		Name:           name,
		AreaColumn:     "Output Area",
		CategoryColumn: name,
		ValueColumn:    "Observation",
		Rows:           obs,
	}
}

func resolvedGroups(t *testing.T, mapping domain.AreaMapping, targets domain.TargetPostalCodeList) domain.AreaGroups {
	t.Helper()
	resolved, err := ResolveAreas(targets, mapping)
	require.NoError(t, err)
	return GroupPostcodes(resolved)
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AB1 0AA", "AB10AA"},
		{" ab1\t0aa\n", "ab10aa"},
		{"AB1\u00a00AA", "AB10AA"},
		{"", ""},
		{"AB1-0AA", "AB1-0AA"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeKey(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeKey(got), "normalization must be idempotent")
		})
	}
}

func TestNormalizeColumn(t *testing.T) {
	raw := rawTable([]string{"pcd"}, []string{"AB1 0AA"})

	out, name, err := NormalizeColumn(raw, "pcd")
	require.NoError(t, err)

	assert.Equal(t, "pcd"+NormalizedSuffix, name)
	assert.Equal(t, []string{"pcd", name}, out.Columns)
	assert.Equal(t, [][]string{{"AB1 0AA", "AB10AA"}}, out.Rows)
	assert.Equal(t, [][]string{{"AB1 0AA"}}, raw.Rows)

	_, _, err = NormalizeColumn(raw, "missing")
	assert.Error(t, err)
}

func TestResolveAreas(t *testing.T) {
	mapping := mappingOf("AB1 0AA", "E01", "AB10AB", "E02", "AB1 0AB", "E02")
	targets := targetsOf("AB1 0AA", "ab1 0aa", "AB1 0AB", "ZZZ ZZZ", "AB1 0AA")

	resolved, err := ResolveAreas(targets, mapping)
	require.NoError(t, err)

	// every target row is kept exactly once, in order
	require.Len(t, resolved.Rows, len(targets.Rows))
	for i, row := range resolved.Rows {
		assert.Equal(t, targets.Rows[i].Postcode, row.Postcode)
	}

	assert.Equal(t, "E01", resolved.Rows[0].Area())
	assert.False(t, resolved.Rows[1].Resolved(), "matching is case sensitive")
	assert.Equal(t, "E02", resolved.Rows[2].Area())
	assert.False(t, resolved.Rows[3].Resolved())
	assert.Equal(t, "E01", resolved.Rows[4].Area())

	// the input is untouched
	assert.False(t, targets.Rows[0].Resolved())

	assert.Equal(t, []string{"ab1 0aa", "ZZZ ZZZ"}, UnresolvedPostcodes(resolved))
}

func TestResolveAreas_ConflictingMapping(t *testing.T) {
	mapping := mappingOf("AB1 0AA", "E09", "AB10AA", "E01")

	_, err := ResolveAreas(targetsOf("AB1 0AA"), mapping)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDataIntegrity))

	var integrity *apperrors.DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "AB10AA", integrity.Postcode)
	assert.Equal(t, []string{"E01", "E09"}, integrity.AreaCodes)
}

func TestGroupPostcodes(t *testing.T) {
	mapping := mappingOf(
		"AB1 0AA", "E10",
		"AB1 0AB", "E2",
		"AB1 0AC", "E10",
		"AB1 0AD", "E2",
	)
	groups := resolvedGroups(t, mapping, targetsOf("AB1 0AC", "AB1 0AB", "AB1 0AA", "XX1 1XX", "AB1 0AC", "AB1 0AD"))

	require.Equal(t, 2, groups.Len())
	// natural order of area codes
	assert.Equal(t, "E2", groups.Groups[0].AreaCode)
	assert.Equal(t, "AB1 0AB, AB1 0AD", groups.Groups[0].Label())
	// first-seen order, no duplicates
	assert.Equal(t, "E10", groups.Groups[1].AreaCode)
	assert.Equal(t, "AB1 0AC, AB1 0AA", groups.Groups[1].Label())

	g, ok := groups.Lookup("E10")
	require.True(t, ok)
	assert.Equal(t, []string{"AB1 0AC", "AB1 0AA"}, strings.Split(g.Label(), domain.PostcodeSeparator))

	_, ok = groups.Lookup("E99")
	assert.False(t, ok)
}

func TestPivotVariable(t *testing.T) {
	groups := resolvedGroups(t,
		mappingOf("AB1 0AA", "E01", "AB1 0AB", "E02", "AB1 0AC", "E03"),
		targetsOf("AB1 0AA", "AB1 0AB", "AB1 0AC"))

	v := variableOf("Age",
		domain.Observation{AreaCode: "E01", Category: "10", Value: "3"},
		domain.Observation{AreaCode: "E01", Category: "2", Value: "5"},
		domain.Observation{AreaCode: "E02", Category: "2", Value: "8"},
		// not a target area: dropped by the inner join
		domain.Observation{AreaCode: "E77", Category: "99", Value: "1"},
	)

	wide, err := PivotVariable(v, groups, "-")
	require.NoError(t, err)

	assert.Equal(t, "Age", wide.Variable)
	assert.Equal(t, []string{"2", "10"}, wide.Categories)
	assert.LessOrEqual(t, len(wide.Rows), groups.Len())
	assert.Equal(t, []domain.WideRow{
		{Key: domain.RowKey{Postcodes: "AB1 0AA", AreaCode: "E01"}, Values: []string{"5", "3"}},
		{Key: domain.RowKey{Postcodes: "AB1 0AB", AreaCode: "E02"}, Values: []string{"8", "-"}},
	}, wide.Rows)

	assert.Equal(t, []string{"AB1 0AC"}, SuppressedPostcodes(v, groups))
}

func TestPivotVariable_Conflict(t *testing.T) {
	groups := resolvedGroups(t, mappingOf("AB1 0AA", "E01"), targetsOf("AB1 0AA"))

	v := variableOf("Tenure",
		domain.Observation{AreaCode: "E01", Category: "Owned", Value: "4"},
		domain.Observation{AreaCode: "E01", Category: "Owned", Value: "4"},
	)

	_, err := PivotVariable(v, groups, "-")
	require.Error(t, err)

	var conflict *apperrors.PivotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Tenure", conflict.Variable)
	assert.Equal(t, "E01", conflict.AreaCode)
	assert.Equal(t, "Owned", conflict.Category)

	// duplicates outside the target areas are not joined and not a conflict
	v.Rows[0].AreaCode, v.Rows[1].AreaCode = "E50", "E50"
	_, err = PivotVariable(v, groups, "-")
	assert.NoError(t, err)
}

func TestPivotVariables_OrderAndErrors(t *testing.T) {
	groups := resolvedGroups(t, mappingOf("AB1 0AA", "E01"), targetsOf("AB1 0AA"))

	var variables []domain.VariableTable
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		variables = append(variables, variableOf(name, domain.Observation{AreaCode: "E01", Category: name, Value: "1"}))
	}

	results, err := PivotVariables(context.Background(), variables, groups, "-", 4)
	require.NoError(t, err)
	require.Len(t, results, len(variables))
	for i, r := range results {
		assert.Equal(t, variables[i].Name, r.Wide.Variable)
	}

	variables[2].Rows = append(variables[2].Rows, variables[2].Rows[0])
	_, err = PivotVariables(context.Background(), variables, groups, "-", 3)
	var conflict *apperrors.PivotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "C", conflict.Variable)
}

func TestCombineTables(t *testing.T) {
	k1 := domain.RowKey{Postcodes: "AB1 0AA", AreaCode: "E01"}
	k2 := domain.RowKey{Postcodes: "AB1 0AB", AreaCode: "E02"}
	k10 := domain.RowKey{Postcodes: "AB10 1AA", AreaCode: "E03"}

	wides := []domain.WideVariableTable{
		{
			Variable:   "Age",
			Categories: []string{"0-4", "5-9"},
			Rows: []domain.WideRow{
				{Key: k10, Values: []string{"1", "2"}},
				{Key: k1, Values: []string{"3", "4"}},
			},
		},
		{
			Variable:   "Tenure",
			Categories: []string{"Owned"},
			Rows: []domain.WideRow{
				{Key: k2, Values: []string{"9"}},
			},
		},
	}

	table := CombineTables(wides, "-")

	assert.Equal(t, []string{"Postcode", "Output Area", "0-4", "5-9", "Owned"}, table.Columns)
	assert.Equal(t, []domain.VariableColumns{{Variable: "Age", Count: 2}, {Variable: "Tenure", Count: 1}}, table.Variables)
	assert.Equal(t, [][]string{
		{"AB1 0AA", "E01", "3", "4", "-"},
		{"AB1 0AB", "E02", "-", "-", "9"},
		{"AB10 1AA", "E03", "1", "2", "-"},
	}, table.Rows)
	for _, row := range table.Rows {
		assert.Len(t, row, table.ColumnCount())
	}
}

func TestBuildHeader(t *testing.T) {
	table := domain.CombinedTable{
		Columns:   []string{"Postcode", "Output Area", "0-4", "5-9", "Owned"},
		Variables: []domain.VariableColumns{{Variable: "Age", Count: 2}, {Variable: "Tenure", Count: 1}},
	}

	header, err := BuildHeader(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "", "Age", "Age", "Tenure"}, header.Level0())
	assert.Equal(t, table.Columns, header.Level1())
	assert.Equal(t, domain.ColumnIdentifier, header[1].Kind)
	assert.Equal(t, domain.ColumnCategory, header[4].Kind)

	withHeader, err := WithHeader(table)
	require.NoError(t, err)
	assert.Equal(t, header, withHeader.Header)
	assert.Nil(t, table.Header)
}

func TestBuildHeader_Mismatch(t *testing.T) {
	table := domain.CombinedTable{
		Columns:   []string{"Postcode", "Output Area", "0-4"},
		Variables: []domain.VariableColumns{{Variable: "Age", Count: 2}},
	}

	_, err := BuildHeader(table)
	assert.ErrorIs(t, err, apperrors.ErrHeaderMismatch)

	var mismatch *apperrors.HeaderMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.HeaderLength)
	assert.Equal(t, 3, mismatch.ColumnCount)
}

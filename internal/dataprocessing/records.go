package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

var validate = validator.New()

// VariableOptions describes how the columns of a variable file are read.
type VariableOptions struct {
	// AreaColumn is the canonical area column name; aliases are renamed to it.
	AreaColumn        string   `validate:"required"`
	AreaColumnAliases []string
	// ValueColumn names the observation column; the last column when absent.
	ValueColumn string `validate:"required"`
	// CodeSuffix marks internal-code columns, which are dropped.
	CodeSuffix string `validate:"required"`
}

// NewAreaMapping converts the reference geography into typed entries.
// Rows with an empty postcode or area cannot take part in a join and are skipped.
func NewAreaMapping(raw domain.RawTable, postcodeColumn, areaColumn string) (*domain.AreaMapping, error) {
	table, normalizedColumn, err := NormalizeColumn(raw, postcodeColumn)
	if err != nil {
		return nil, columnError(raw, err)
	}
	postcodeIdx := table.ColumnIndex(postcodeColumn)
	normalizedIdx := table.ColumnIndex(normalizedColumn)
	areaIdx, err := table.MustColumn(areaColumn)
	if err != nil {
		return nil, columnError(raw, err)
	}

	mapping := &domain.AreaMapping{
		Source:  raw.Source,
		Entries: make([]domain.AreaMappingEntry, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		area := strings.TrimSpace(row[areaIdx])
		if row[normalizedIdx] == "" || area == "" {
			continue
		}
		mapping.Entries = append(mapping.Entries, domain.AreaMappingEntry{
			Postcode: domain.PostalCode{Raw: row[postcodeIdx], Normalized: row[normalizedIdx]},
			AreaCode: area,
		})
	}

	if err := validate.Struct(mapping); err != nil {
		return nil, validationError(raw, err)
	}
	return mapping, nil
}

// NewTargetPostalCodeList converts the postcode list. Every row is kept,
// blank ones included, so that nothing is silently dropped.
func NewTargetPostalCodeList(raw domain.RawTable, postcodeColumn string) (*domain.TargetPostalCodeList, error) {
	table, normalizedColumn, err := NormalizeColumn(raw, postcodeColumn)
	if err != nil {
		return nil, columnError(raw, err)
	}
	postcodeIdx := table.ColumnIndex(postcodeColumn)
	normalizedIdx := table.ColumnIndex(normalizedColumn)

	list := &domain.TargetPostalCodeList{
		Source: raw.Source,
		Rows:   make([]domain.TargetPostalCode, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		list.Rows = append(list.Rows, domain.TargetPostalCode{
			Postcode: domain.PostalCode{Raw: row[postcodeIdx], Normalized: row[normalizedIdx]},
		})
	}
	return list, nil
}

// NewVariableTable converts a long-form variable file. Internal-code columns
// are dropped and area-column aliases renamed first. Of the remaining columns
// the category column is always the second one, by position; the area column
// is the canonical area column if present, else the first one.
func NewVariableTable(raw domain.RawTable, opts VariableOptions) (*domain.VariableTable, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, validationError(raw, err)
	}

	var (
		names   []string
		indices []int
	)
	for i, name := range raw.Columns {
		if strings.HasSuffix(name, opts.CodeSuffix) {
			continue
		}
		for _, alias := range opts.AreaColumnAliases {
			if name == alias {
				name = opts.AreaColumn
				break
			}
		}
		names = append(names, name)
		indices = append(indices, i)
	}

	if len(names) < 2 {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf(
			"%s needs at least an area and a category column after dropping %q columns, found %v",
			raw.Source, opts.CodeSuffix, names)).WithContext("file", raw.Source)
	}

	areaPos := 0
	for i, name := range names {
		if name == opts.AreaColumn {
			areaPos = i
			break
		}
	}
	categoryPos := 1
	if categoryPos == areaPos {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf(
			"%s: second column %q is the area column, expected a category column",
			raw.Source, names[categoryPos])).WithContext("file", raw.Source)
	}
	valuePos := len(names) - 1
	for i, name := range names {
		if name == opts.ValueColumn {
			valuePos = i
			break
		}
	}

	areaIdx, categoryIdx, valueIdx := indices[areaPos], indices[categoryPos], indices[valuePos]

	v := &domain.VariableTable{
		Name:           names[categoryPos],
		Source:         raw.Source,
		AreaColumn:     names[areaPos],
		CategoryColumn: names[categoryPos],
		ValueColumn:    names[valuePos],
		Rows:           make([]domain.Observation, 0, len(raw.Rows)),
	}
	for _, row := range raw.Rows {
		v.Rows = append(v.Rows, domain.Observation{
			AreaCode: strings.TrimSpace(row[areaIdx]),
			Category: strings.TrimSpace(row[categoryIdx]),
			Value:    strings.TrimSpace(row[valueIdx]),
		})
	}

	if err := validate.Struct(v); err != nil {
		return nil, validationError(raw, err)
	}
	return v, nil
}

func columnError(raw domain.RawTable, err error) error {
	return apperrors.NewAppValidationError(err.Error()).WithContext("file", raw.Source)
}

func validationError(raw domain.RawTable, err error) error {
	return apperrors.NewAppError(apperrors.ErrTypeValidation,
		fmt.Sprintf("invalid records in %s", raw.Source), err).WithContext("file", raw.Source)
}

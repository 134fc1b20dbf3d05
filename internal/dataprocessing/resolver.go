package dataprocessing

import (
	"sort"

	"github.com/maruel/natural"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

// ResolveAreas left-joins the target list against the mapping on the
// normalized postcode. Every target row is kept, in order; rows without a
// match get a nil area code. A normalized key that maps to two distinct
// areas is a DataIntegrityError.
func ResolveAreas(targets domain.TargetPostalCodeList, mapping domain.AreaMapping) (domain.TargetPostalCodeList, error) {
	index, err := buildMappingIndex(mapping)
	if err != nil {
		return domain.TargetPostalCodeList{}, err
	}

	resolved := domain.TargetPostalCodeList{
		Source: targets.Source,
		Rows:   make([]domain.TargetPostalCode, len(targets.Rows)),
	}
	for i, row := range targets.Rows {
		resolved.Rows[i] = domain.TargetPostalCode{Postcode: row.Postcode}
		if area, ok := index[row.Postcode.Normalized]; ok {
			resolved.Rows[i].AreaCode = &area
		}
	}
	return resolved, nil
}

// buildMappingIndex collapses repeated rows that agree on the area
func buildMappingIndex(mapping domain.AreaMapping) (map[string]string, error) {
	index := make(map[string]string, len(mapping.Entries))
	for _, entry := range mapping.Entries {
		key := entry.Postcode.Normalized
		existing, ok := index[key]
		if !ok {
			index[key] = entry.AreaCode
			continue
		}
		if existing != entry.AreaCode {
			areas := []string{existing, entry.AreaCode}
			sort.Sort(natural.StringSlice(areas))
			return nil, &apperrors.DataIntegrityError{Postcode: key, AreaCodes: areas}
		}
	}
	return index, nil
}

// UnresolvedPostcodes returns the raw postcodes that have no area, without
// duplicates, in list order.
func UnresolvedPostcodes(list domain.TargetPostalCodeList) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range list.Rows {
		if row.Resolved() {
			continue
		}
		if _, dup := seen[row.Postcode.Raw]; dup {
			continue
		}
		seen[row.Postcode.Raw] = struct{}{}
		out = append(out, row.Postcode.Raw)
	}
	return out
}

package dataprocessing

import (
	"sort"

	"github.com/maruel/natural"

	"postcodelookup/pkg/contracts/domain"
)

// GroupPostcodes groups the resolved postcodes by area. Groups are ordered
// naturally by area code; postcodes keep first-seen order within a group and
// appear once even if the target list repeats them. Unresolved rows are
// ignored.
func GroupPostcodes(list domain.TargetPostalCodeList) domain.AreaGroups {
	byArea := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	var groups []domain.AreaGroup

	for _, row := range list.Rows {
		if !row.Resolved() {
			continue
		}
		area := row.Area()
		i, ok := byArea[area]
		if !ok {
			i = len(groups)
			byArea[area] = i
			groups = append(groups, domain.AreaGroup{AreaCode: area})
			seen[area] = make(map[string]struct{})
		}
		if _, dup := seen[area][row.Postcode.Raw]; dup {
			continue
		}
		seen[area][row.Postcode.Raw] = struct{}{}
		groups[i].Postcodes = append(groups[i].Postcodes, row.Postcode.Raw)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return natural.Less(groups[i].AreaCode, groups[j].AreaCode)
	})

	return domain.NewAreaGroups(groups)
}

package domain

import "strings"

// PostcodeSeparator joins the postcodes of one area into a single label.
const PostcodeSeparator = ", "

// AreaGroup holds every target postcode that resolved to the same area,
// in first-seen order.
type AreaGroup struct {
	AreaCode  string   `json:"area_code" validate:"required"`
	Postcodes []string `json:"postcodes" validate:"min=1"`
}

// Label is the comma-joined postcode list used as the row label.
func (g AreaGroup) Label() string {
	return strings.Join(g.Postcodes, PostcodeSeparator)
}

// Key returns the row key the group contributes to wide tables.
func (g AreaGroup) Key() RowKey {
	return RowKey{Postcodes: g.Label(), AreaCode: g.AreaCode}
}

// AreaGroups is the derived area to postcode table shared by every pivot.
type AreaGroups struct {
	Groups []AreaGroup `json:"groups"`
	index  map[string]int
}

// NewAreaGroups builds the lookup index over groups.
func NewAreaGroups(groups []AreaGroup) AreaGroups {
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.AreaCode] = i
	}
	return AreaGroups{Groups: groups, index: index}
}

// Lookup finds the group for an area code.
func (a AreaGroups) Lookup(areaCode string) (AreaGroup, bool) {
	i, ok := a.index[areaCode]
	if !ok {
		return AreaGroup{}, false
	}
	return a.Groups[i], true
}

// Len returns the number of groups.
func (a AreaGroups) Len() int {
	return len(a.Groups)
}

// RowKey identifies one row of a wide or combined table.
type RowKey struct {
	Postcodes string `json:"postcodes"`
	AreaCode  string `json:"area_code"`
}

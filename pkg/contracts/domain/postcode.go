package domain

// PostalCode is a postcode identifier in both of its forms.
// Raw is kept for output and reporting; Normalized is used for every equality join.
type PostalCode struct {
	Raw        string `json:"raw" db:"raw"`
	Normalized string `json:"normalized" db:"normalized"`
}

// AreaMappingEntry is one row of the reference geography.
type AreaMappingEntry struct {
	Postcode PostalCode `json:"postcode"`
	AreaCode string     `json:"area_code" db:"area_code" validate:"required"`
}

// AreaMapping is the read-only postcode to small-area lookup loaded once per run.
type AreaMapping struct {
	Source  string             `json:"source"`
	Entries []AreaMappingEntry `json:"entries" validate:"dive"`
}

// TargetPostalCode is one postcode to resolve. AreaCode is nil when the
// postcode could not be found in the mapping.
type TargetPostalCode struct {
	Postcode PostalCode `json:"postcode"`
	AreaCode *string    `json:"area_code,omitempty" db:"area_code"`
}

// Resolved reports whether an area code was attached.
func (t TargetPostalCode) Resolved() bool {
	return t.AreaCode != nil
}

// Area returns the resolved area code or the empty string.
func (t TargetPostalCode) Area() string {
	if t.AreaCode == nil {
		return ""
	}
	return *t.AreaCode
}

// TargetPostalCodeList is the list of postcodes a run reports on.
type TargetPostalCodeList struct {
	Source string             `json:"source"`
	Rows   []TargetPostalCode `json:"rows"`
}

// RawPostcodes returns the raw form of every target postcode in list order.
func (l TargetPostalCodeList) RawPostcodes() []string {
	out := make([]string, 0, len(l.Rows))
	for _, row := range l.Rows {
		out = append(out, row.Postcode.Raw)
	}
	return out
}

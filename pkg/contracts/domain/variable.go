package domain

// Observation is one long-form row of a census variable.
type Observation struct {
	AreaCode string `json:"area_code" validate:"required"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// VariableTable is a census or demographic variable in long form, after the
// internal-code columns have been removed.
type VariableTable struct {
	// Name is the display name, taken from the category column header.
	Name           string        `json:"name" validate:"required"`
	Source         string        `json:"source"`
	AreaColumn     string        `json:"area_column" validate:"required"`
	CategoryColumn string        `json:"category_column" validate:"required"`
	ValueColumn    string        `json:"value_column" validate:"required"`
	Rows           []Observation `json:"rows" validate:"dive"`
}

// AreaCodes returns the distinct area codes present in the variable's source data.
func (v VariableTable) AreaCodes() map[string]struct{} {
	out := make(map[string]struct{}, len(v.Rows))
	for _, row := range v.Rows {
		out[row.AreaCode] = struct{}{}
	}
	return out
}

// WideRow is one postcode group of a pivoted variable. Values is parallel
// to the owning table's Categories.
type WideRow struct {
	Key    RowKey   `json:"key"`
	Values []string `json:"values"`
}

// WideVariableTable is a variable reshaped to one row per area group and one
// column per category, categories in natural order.
type WideVariableTable struct {
	Variable   string    `json:"variable"`
	Categories []string  `json:"categories"`
	Rows       []WideRow `json:"rows"`
}

// Row finds the row for a key.
func (w WideVariableTable) Row(key RowKey) (WideRow, bool) {
	for _, row := range w.Rows {
		if row.Key == key {
			return row, true
		}
	}
	return WideRow{}, false
}

package domain

import (
	"sort"

	"github.com/maruel/natural"
)

// MissingData reports postcodes that could not be given data. It is ordinary
// output, never an error.
type MissingData struct {
	// UnresolvedPostcodes have no area in the reference geography.
	UnresolvedPostcodes []string `json:"unresolved_postcodes"`
	// SuppressedPostcodes belong to an area absent from at least one variable.
	SuppressedPostcodes []string `json:"suppressed_postcodes"`
	// SuppressedByVariable breaks SuppressedPostcodes down per variable name.
	SuppressedByVariable map[string][]string `json:"suppressed_by_variable,omitempty"`
}

// Empty reports whether there is nothing to report.
func (m MissingData) Empty() bool {
	return len(m.UnresolvedPostcodes) == 0 && len(m.SuppressedPostcodes) == 0
}

// PostcodeSet is an insertion-independent set of raw postcodes.
type PostcodeSet map[string]struct{}

// Add inserts postcodes into the set.
func (s PostcodeSet) Add(postcodes ...string) {
	for _, p := range postcodes {
		s[p] = struct{}{}
	}
}

// Sorted returns the members in natural order.
func (s PostcodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Sort(natural.StringSlice(out))
	return out
}

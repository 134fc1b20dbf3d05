package exporter

import (
	"math"
	"strconv"
)

// cellValue converts numeric observations to numbers so spreadsheets can
// sum them; anything else, including the no-data marker, stays text.
func cellValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

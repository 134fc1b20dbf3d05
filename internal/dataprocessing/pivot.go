package dataprocessing

import (
	"context"
	"errors"
	"sort"

	"github.com/maruel/natural"
	"golang.org/x/sync/errgroup"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

// PivotVariable inner-joins a variable to the area groups and reshapes it to
// one row per group and one column per category. Categories are those seen
// in the joined rows, in natural order. Cells without an observation hold
// noData. Two observations for the same area and category are a
// PivotConflictError, even when their values agree.
func PivotVariable(v domain.VariableTable, groups domain.AreaGroups, noData string) (domain.WideVariableTable, error) {
	type cell struct{ area, category string }

	values := make(map[cell]string)
	categories := make(map[string]struct{})
	joined := make(map[string]struct{})

	for _, obs := range v.Rows {
		if _, ok := groups.Lookup(obs.AreaCode); !ok {
			continue
		}
		key := cell{obs.AreaCode, obs.Category}
		if _, dup := values[key]; dup {
			return domain.WideVariableTable{}, &apperrors.PivotConflictError{
				Variable: v.Name,
				AreaCode: obs.AreaCode,
				Category: obs.Category,
			}
		}
		values[key] = obs.Value
		categories[obs.Category] = struct{}{}
		joined[obs.AreaCode] = struct{}{}
	}

	wide := domain.WideVariableTable{
		Variable:   v.Name,
		Categories: make([]string, 0, len(categories)),
	}
	for c := range categories {
		wide.Categories = append(wide.Categories, c)
	}
	sort.Sort(natural.StringSlice(wide.Categories))

	for _, g := range groups.Groups {
		if _, ok := joined[g.AreaCode]; !ok {
			continue
		}
		row := domain.WideRow{Key: g.Key(), Values: make([]string, len(wide.Categories))}
		for i, c := range wide.Categories {
			if val, ok := values[cell{g.AreaCode, c}]; ok {
				row.Values[i] = val
			} else {
				row.Values[i] = noData
			}
		}
		wide.Rows = append(wide.Rows, row)
	}

	return wide, nil
}

// SuppressedPostcodes drives from the area groups and returns the raw
// postcodes of every group whose area never occurs in the variable's source
// data, in group order.
func SuppressedPostcodes(v domain.VariableTable, groups domain.AreaGroups) []string {
	present := v.AreaCodes()
	var out []string
	for _, g := range groups.Groups {
		if _, ok := present[g.AreaCode]; !ok {
			out = append(out, g.Postcodes...)
		}
	}
	return out
}

// VariableResult is the outcome of pivoting one variable.
type VariableResult struct {
	Wide       domain.WideVariableTable
	Suppressed []string
}

// PivotVariables pivots every variable with at most workers running at once.
// Results are returned in input order. On failure the error of the earliest
// failing variable is returned.
func PivotVariables(ctx context.Context, variables []domain.VariableTable, groups domain.AreaGroups, noData string, workers int) ([]VariableResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]VariableResult, len(variables))
	errs := make([]error, len(variables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range variables {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			wide, err := PivotVariable(variables[i], groups, noData)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = VariableResult{
				Wide:       wide,
				Suppressed: SuppressedPostcodes(variables[i], groups),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Prefer a real failure over the cancellations it caused
		for _, e := range errs {
			if e != nil && !errors.Is(e, context.Canceled) {
				return nil, e
			}
		}
		return nil, err
	}
	return results, nil
}

package core

// pipeline.go is the filter-and-project pipeline that turns an uploaded
// table into the exact frame handed to a renderer:
//
//	Filter -> ResolveAxis -> ClampRange -> ViewResult
//
// Every function here is pure; BuildView recomputes the whole view from the
// table and spec on each call. Failures are typed and carry no partial
// output. Absent columns are handled explicitly: an axis either resolves to
// an existing numeric column or is reported as a warning, never referenced
// blindly.

import "fmt"

// RequireColumn verifies that the table has the named categorical column and
// returns its canonical (as-loaded) name.
//
// Fails with KindMissingColumn if absent, or present but numeric: a numeric
// column cannot host a membership filter.
func RequireColumn(t *Table, c Classification, name string) (string, error) {
	canonical, ok := t.ColumnName(name)
	if !ok {
		return "", Errorf(KindMissingColumn, "missing required column %q", name)
	}
	if c[canonical] != ClassCategorical {
		return "", Errorf(KindMissingColumn,
			"column %q is numeric; the status filter needs a categorical column", canonical)
	}
	return canonical, nil
}

// Filter returns the rows whose value in the given column is in the accepted
// set. The view shares row storage with the table and must not be mutated.
// An empty accepted set produces an empty view, which is a valid state
// ("nothing selected"), not an error.
func Filter(t *Table, column string, accepted []string) View {
	view := View{Columns: t.Columns}

	i, ok := t.ColumnIndex(column)
	if !ok || len(accepted) == 0 {
		return view
	}

	set := make(map[string]struct{}, len(accepted))
	for _, v := range accepted {
		set[v] = struct{}{}
	}

	for _, row := range t.Rows {
		if _, in := set[row[i]]; in {
			view.Rows = append(view.Rows, row)
		}
	}
	return view
}

// ResolveAxis deterministically selects the numeric column backing a chart
// axis: the preferred name if it exists and is numeric, else the numeric
// column at fallbackIndex (in table order), else nothing.
//
// The second return is false when no column could be resolved; callers must
// skip the axis and surface a warning, never reference an unresolved name.
// ResolveAxis never returns a categorical column.
func ResolveAxis(t *Table, c Classification, preferred string, fallbackIndex int) (string, bool) {
	if preferred != "" {
		if canonical, ok := t.ColumnName(preferred); ok && c[canonical] == ClassNumeric {
			return canonical, true
		}
	}

	numeric := NumericColumns(t, c)
	if fallbackIndex >= 0 && fallbackIndex < len(numeric) {
		return numeric[fallbackIndex], true
	}
	return "", false
}

// ClampRange resolves the effective [min, max] for an axis by clamping the
// requested bounds to the column's actual value range. A nil requested bound
// means "use the actual bound".
//
// Fails with KindInvalidRange if the effective minimum exceeds the effective
// maximum after clamping.
func ClampRange(t *Table, column string, reqMin, reqMax *float64) (float64, float64, error) {
	actualMin, actualMax, ok := columnBounds(t, column)
	if !ok {
		return 0, 0, Errorf(KindNoNumericColumns,
			"column %q has no numeric values to derive a range from", column)
	}

	min, max := actualMin, actualMax
	if reqMin != nil {
		min = clamp(*reqMin, actualMin, actualMax)
	}
	if reqMax != nil {
		max = clamp(*reqMax, actualMin, actualMax)
	}

	if min > max {
		return 0, 0, Errorf(KindInvalidRange,
			"invalid range for %q: min %v exceeds max %v after clamping to [%v, %v]",
			column, min, max, actualMin, actualMax)
	}

	return min, max, nil
}

// columnBounds returns the actual numeric [min, max] of a column.
// The third return is false if the column is absent or has no coercible cell.
func columnBounds(t *Table, column string) (float64, float64, bool) {
	i, ok := t.ColumnIndex(column)
	if !ok {
		return 0, 0, false
	}

	found := false
	var min, max float64
	for _, row := range t.Rows {
		v, ok := CoerceNumeric(row[i])
		if !ok {
			continue
		}
		if !found {
			min, max = v, v
			found = true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, found
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BuildView runs the full pipeline over a loaded table and a filter spec.
//
// The status column must exist and be categorical. When the spec requests
// any axis and the table has no numeric columns at all, the whole view fails
// with KindNoNumericColumns; a single axis that merely cannot be resolved
// (bad preference and exhausted fallbacks) degrades to a warning with the
// axis omitted. All other failures (missing column, invalid range) are
// terminal and produce no partial result.
func BuildView(t *Table, c Classification, spec FilterSpec) (*ViewResult, error) {
	statusCol, err := RequireColumn(t, c, spec.statusColumn())
	if err != nil {
		return nil, err
	}

	domain := Domain(t, statusCol)

	accepted := spec.Statuses
	if spec.SelectAll {
		accepted = domain
	}

	view := Filter(t, statusCol, accepted)

	result := &ViewResult{
		Columns:            view.Columns,
		Rows:               view.Rows,
		RowCount:           view.NumRows(),
		NumericColumns:     NumericColumns(t, c),
		CategoricalColumns: CategoricalColumns(t, c),
		StatusColumn:       statusCol,
		StatusDomain:       domain,
	}

	if len(accepted) == 0 {
		result.Warnings = append(result.Warnings, "no statuses selected")
	}

	if spec.wantsAxes() {
		if len(result.NumericColumns) == 0 {
			return nil, Errorf(KindNoNumericColumns,
				"no numeric columns available for axis selection")
		}

		axes := []struct {
			name     string
			spec     *AxisSpec
			fallback int
			out      **ResolvedAxis
		}{
			{"x", spec.X, 0, &result.Axes.X},
			{"y", spec.Y, 1, &result.Axes.Y},
			{"z", spec.Z, 2, &result.Axes.Z},
		}

		for _, axis := range axes {
			if axis.spec == nil {
				continue
			}

			column, ok := ResolveAxis(t, c, axis.spec.Column, axis.fallback)
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("skipping %s axis: no numeric column available", axis.name))
				continue
			}

			resolved := &ResolvedAxis{Column: column}
			if axis.spec.Min != nil || axis.spec.Max != nil {
				min, max, err := ClampRange(t, column, axis.spec.Min, axis.spec.Max)
				if err != nil {
					return nil, err
				}
				resolved.Min = &min
				resolved.Max = &max
			}
			*axis.out = resolved
		}
	}

	return result, nil
}

package core

// classify.go infers the numeric/categorical class of every column.

// Classify returns the class of every column in the table.
//
// A column is numeric iff every one of its cells coerces to a real number
// (loading already removed null cells, so there is nothing to skip). A table
// with zero rows classifies every column as categorical: with no values
// there is no evidence of numeric content.
//
// Classify is deterministic and total: every column appears in the result
// exactly once.
func Classify(t *Table) Classification {
	c := make(Classification, len(t.Columns))

	for i, name := range t.Columns {
		class := ClassCategorical
		if len(t.Rows) > 0 {
			class = ClassNumeric
			for _, row := range t.Rows {
				if _, ok := CoerceNumeric(row[i]); !ok {
					class = ClassCategorical
					break
				}
			}
		}
		c[name] = class
	}

	return c
}

// NumericColumns returns the numeric column names in table order.
func NumericColumns(t *Table, c Classification) []string {
	var out []string
	for _, name := range t.Columns {
		if c[name] == ClassNumeric {
			out = append(out, name)
		}
	}
	return out
}

// CategoricalColumns returns the categorical column names in table order.
func CategoricalColumns(t *Table, c Classification) []string {
	var out []string
	for _, name := range t.Columns {
		if c[name] == ClassCategorical {
			out = append(out, name)
		}
	}
	return out
}

// Domain returns the distinct values of the named column in first-seen
// order. Returns nil if the column does not exist.
func Domain(t *Table, column string) []string {
	i, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		v := row[i]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package core

import "time"

// DefaultStatusColumn is the categorical column used as the primary filter
// dimension when a FilterSpec does not name one.
const DefaultStatusColumn = "Status"

// ColumnClass is the inferred type of a column.
type ColumnClass int

const (
	// ClassNumeric: every non-null value coerces to a real number.
	ClassNumeric ColumnClass = iota

	// ClassCategorical: at least one value does not coerce to a number.
	ClassCategorical
)

// String returns the class name used in JSON output and logs.
func (c ColumnClass) String() string {
	if c == ClassNumeric {
		return "numeric"
	}
	return "categorical"
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// Table is an uploaded tabular file held in memory: ordered named columns
// over string cells. It is created once per upload and never mutated after
// load; filtering produces row projections, not copies.
type Table struct {
	Columns []string
	Rows    [][]string

	index HeaderIndex
}

// NewTable builds a Table from a header row and data rows.
// Cells are assumed to be already cleaned (see CleanCell).
func NewTable(columns []string, rows [][]string) *Table {
	return &Table{
		Columns: columns,
		Rows:    rows,
		index:   MakeHeaderIndex(columns),
	}
}

// ColumnIndex returns the position of the named column.
// Lookup is case-insensitive, matching the header index convention.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[normalizeHeader(name)]
	return i, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// ColumnName resolves the canonical (as-loaded) name for a column,
// so callers that matched case-insensitively report the real header.
func (t *Table) ColumnName(name string) (string, bool) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return "", false
	}
	return t.Columns[i], true
}

// Values returns the cells of the named column in row order.
func (t *Table) Values(name string) ([]string, bool) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values, true
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// Classification maps every column of a table to its inferred class.
// It is a pure function of the column values; see Classify.
type Classification map[string]ColumnClass

// View is a row projection of a table: same column set, subset of rows.
// The row slices are shared with the source table and must not be mutated.
type View struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of rows in the view.
func (v View) NumRows() int { return len(v.Rows) }

// AxisSpec is a user-selected chart axis: an optional preferred column plus
// optional range bounds. A nil Min/Max means "use the column's actual bound".
type AxisSpec struct {
	Column string   `json:"column,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// FilterSpec is the user intent for one render cycle, supplied by the UI
// layer. The pipeline never reads widget state directly.
type FilterSpec struct {
	// StatusColumn is the categorical filter column (default "Status").
	StatusColumn string `json:"statusColumn,omitempty"`

	// Statuses is the accepted value set. An empty set with SelectAll false
	// is the distinct "nothing selected" state: the view is empty but valid.
	Statuses []string `json:"statuses"`

	// SelectAll accepts the full domain, mirroring the dashboard's
	// "Select All" checkbox. When true, Statuses is ignored.
	SelectAll bool `json:"selectAll,omitempty"`

	// X, Y, Z are optional axis selections, each constrained to numeric
	// columns with first-numeric fallback.
	X *AxisSpec `json:"x,omitempty"`
	Y *AxisSpec `json:"y,omitempty"`
	Z *AxisSpec `json:"z,omitempty"`
}

// statusColumn returns the effective status column name.
func (s FilterSpec) statusColumn() string {
	if s.StatusColumn != "" {
		return s.StatusColumn
	}
	return DefaultStatusColumn
}

// wantsAxes reports whether any axis selection is present.
func (s FilterSpec) wantsAxes() bool {
	return s.X != nil || s.Y != nil || s.Z != nil
}

// ResolvedAxis is an axis after resolution and clamping: a numeric column
// name plus the effective bounds when a range was requested.
type ResolvedAxis struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// ResolvedAxes holds the axis assignments for a view. A nil axis means the
// axis was not requested or could not be resolved (see ViewResult.Warnings).
type ResolvedAxes struct {
	X *ResolvedAxis `json:"x,omitempty"`
	Y *ResolvedAxis `json:"y,omitempty"`
	Z *ResolvedAxis `json:"z,omitempty"`
}

// ViewResult is the pipeline output handed to the external renderer:
// the filtered rows plus everything needed to drive chart and table display.
// The renderer never reaches back into the source table.
type ViewResult struct {
	Columns            []string     `json:"columns"`
	Rows               [][]string   `json:"rows"`
	RowCount           int          `json:"rowCount"`
	NumericColumns     []string     `json:"numericColumns"`
	CategoricalColumns []string     `json:"categoricalColumns"`
	StatusColumn       string       `json:"statusColumn"`
	StatusDomain       []string     `json:"statusDomain"`
	Axes               ResolvedAxes `json:"resolvedAxes"`
	Warnings           []string     `json:"warnings,omitempty"`
}

// DatasetInfo is the summary returned when a dataset is created or queried.
type DatasetInfo struct {
	ID                 string    `json:"id"`
	FileName           string    `json:"fileName"`
	RowCount           int       `json:"rowCount"`
	Columns            []string  `json:"columns"`
	NumericColumns     []string  `json:"numericColumns"`
	CategoricalColumns []string  `json:"categoricalColumns"`
	StatusDomain       []string  `json:"statusDomain,omitempty"`
	UploadedAt         time.Time `json:"uploadedAt"`
}

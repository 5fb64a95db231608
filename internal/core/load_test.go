package core

import (
	"strings"
	"testing"
)

// sampleCSV mirrors the shape of the machine-health exports the dashboard
// was built around: two float columns, an RPM column, and a status column.
const sampleCSV = `30.9,89.6,RPM,Status
-45.2,-51.3,1765,Healthy
-38.1,-44.9,1770,1H
-52.7,-40.2,1775,Healthy
-36.5,-58.8,1780,2H
`

func loadSample(t *testing.T) *Table {
	t.Helper()
	table, err := Load("wear.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return table
}

// ----------------------------------------------------------------------------
// Load Tests
// ----------------------------------------------------------------------------

func TestLoad_CSV(t *testing.T) {
	table := loadSample(t)

	wantCols := []string{"30.9", "89.6", "RPM", "Status"}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", table.Columns, wantCols)
	}
	for i, want := range wantCols {
		if table.Columns[i] != want {
			t.Errorf("column %d = %q, want %q", i, table.Columns[i], want)
		}
	}

	if table.NumRows() != 4 {
		t.Errorf("NumRows() = %d, want 4", table.NumRows())
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load("data.json", strings.NewReader(`{"rows":[]}`))
	if err == nil {
		t.Fatal("expected error for .json file")
	}
	if !IsKind(err, KindUnsupportedFormat) {
		t.Errorf("error kind = %v, want unsupported_format", err)
	}
}

func TestLoad_ParseError_Excel(t *testing.T) {
	// Not a zip container, so excelize must reject it
	_, err := Load("data.xlsx", strings.NewReader("definitely not a workbook"))
	if err == nil {
		t.Fatal("expected error for invalid xlsx bytes")
	}
	if !IsKind(err, KindParse) {
		t.Errorf("error kind = %v, want parse_error", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := Load("empty.csv", strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty file")
	}
	if !IsKind(err, KindEmptyResult) {
		t.Errorf("error kind = %v, want empty_result", err)
	}
}

func TestLoad_HeaderOnly(t *testing.T) {
	_, err := Load("header.csv", strings.NewReader("a,b,c\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !IsKind(err, KindEmptyResult) {
		t.Errorf("error kind = %v, want empty_result", err)
	}
}

func TestLoad_NullRowsDropped(t *testing.T) {
	csv := "a,b,Status\n1,2,Healthy\n3,,1H\n,5,2H\n6,7,Healthy\n"
	table, err := Load("nulls.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Rows 2 and 3 contain blank cells and must be dropped
	if table.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", table.NumRows())
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if cell == "" {
				t.Errorf("row %v has blank cell at %d after null-row removal", row, i)
			}
		}
	}
}

func TestLoad_AllRowsNull(t *testing.T) {
	csv := "a,b\n1,\n,2\n"
	_, err := Load("allnull.csv", strings.NewReader(csv))
	if !IsKind(err, KindEmptyResult) {
		t.Errorf("error = %v, want empty_result", err)
	}
}

func TestLoad_BOMSkipped(t *testing.T) {
	csv := "\xef\xbb\xbfStatus,v\nHealthy,1\n"
	table, err := Load("bom.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !table.HasColumn("Status") {
		t.Errorf("columns = %v, want Status present (BOM not stripped?)", table.Columns)
	}
}

func TestLoad_RaggedRowsPadded(t *testing.T) {
	// Short rows get blank-padded and then dropped by null-row removal;
	// long rows are truncated to the header width.
	csv := "a,b\n1\n2,3,4\n5,6\n"
	table, err := Load("ragged.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", table.NumRows())
	}
	if len(table.Rows[0]) != 2 {
		t.Errorf("row width = %d, want 2", len(table.Rows[0]))
	}
}

func TestLoad_DuplicateHeaders(t *testing.T) {
	// Lookup is case-insensitive, so colliding headers cannot be indexed
	tests := []struct {
		name string
		csv  string
	}{
		{name: "exact duplicate", csv: "a,a,Status\n1,2,Healthy\n"},
		{name: "case-only difference", csv: "RPM,rpm,Status\n1,2,Healthy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("dup.csv", strings.NewReader(tt.csv))
			if !IsKind(err, KindParse) {
				t.Errorf("error = %v, want parse_error", err)
			}
		})
	}
}

func TestLoad_LeadingBlankRows(t *testing.T) {
	csv := "\n\na,Status\n1,Healthy\n"
	table, err := Load("blanks.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !table.HasColumn("Status") || table.NumRows() != 1 {
		t.Errorf("got columns %v with %d rows, want header found after blank rows", table.Columns, table.NumRows())
	}
}

// ----------------------------------------------------------------------------
// Table Accessor Tests
// ----------------------------------------------------------------------------

func TestTable_ColumnLookupCaseInsensitive(t *testing.T) {
	table := loadSample(t)

	name, ok := table.ColumnName("status")
	if !ok {
		t.Fatal("ColumnName(status) not found")
	}
	if name != "Status" {
		t.Errorf("ColumnName(status) = %q, want %q (canonical casing)", name, "Status")
	}
}

func TestTable_Values(t *testing.T) {
	table := loadSample(t)

	values, ok := table.Values("Status")
	if !ok {
		t.Fatal("Values(Status) not found")
	}
	want := []string{"Healthy", "1H", "Healthy", "2H"}
	if len(values) != len(want) {
		t.Fatalf("Values(Status) = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("Values(Status)[%d] = %q, want %q", i, values[i], want[i])
		}
	}
}

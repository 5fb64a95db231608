package core

// load.go turns an uploaded file into a Table.
//
// Extension dispatch: .csv is parsed with encoding/csv, .xlsx/.xlsm/.xls
// with excelize. Only the first sheet of a workbook is read; the dashboard
// model is one table per upload.
//
// Null-row removal happens here: rows with any blank cell are dropped, so
// downstream stages never see nulls. A file whose rows are all dropped is
// an EmptyResult failure, not an empty table.

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load parses the named file into a Table.
//
// Fails with KindUnsupportedFormat for extensions other than .csv, .xls,
// .xlsm, .xlsx; KindParse when the underlying parse fails (legacy binary
// .xls files land here: the extension is accepted but excelize cannot open
// the OLE container) or the header holds duplicate column names;
// KindEmptyResult when no data rows survive.
func Load(fileName string, r io.Reader) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapErr(KindParse, err, "reading %s", fileName)
	}

	var records [][]string
	switch ext {
	case ".csv":
		records, err = parseCSV(data)
	case ".xls", ".xlsm", ".xlsx":
		records, err = parseExcel(data)
	default:
		return nil, Errorf(KindUnsupportedFormat,
			"unsupported file format %q: upload a .csv, .xls, or .xlsx file", ext)
	}
	if err != nil {
		return nil, WrapErr(KindParse, err, "parsing %s", fileName)
	}

	return buildTable(records)
}

// parseCSV reads all records from CSV bytes.
// Invalid UTF-8 is sanitized and a leading BOM is skipped before parsing.
func parseCSV(data []byte) ([][]string, error) {
	data = sanitizeUTF8(data)
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// parseExcel reads all rows of the first sheet of a workbook.
func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	return f.GetRows(sheets[0])
}

// buildTable assembles a Table from raw records: the first non-empty record
// is the header, short rows are padded to header width, and rows containing
// blank cells are dropped.
func buildTable(records [][]string) (*Table, error) {
	// Find the header row
	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRow(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, Errorf(KindEmptyResult, "empty file: no header row found")
	}

	header := make([]string, len(records[headerIdx]))
	seen := make(map[string]int, len(header))
	for i, h := range records[headerIdx] {
		name := CleanCell(h)

		// Column lookup is case-insensitive, so headers differing only in
		// case would collide in the index and misattribute a column.
		key := normalizeHeader(name)
		if first, dup := seen[key]; dup {
			return nil, Errorf(KindParse,
				"duplicate column name %q (columns %d and %d)", name, first+1, i+1)
		}
		seen[key] = i

		header[i] = name
	}

	var rows [][]string
	for _, rec := range records[headerIdx+1:] {
		if isEmptyRow(rec) {
			continue
		}

		row := make([]string, len(header))
		dropped := false
		for i := range header {
			var cell string
			if i < len(rec) {
				cell = CleanCell(rec[i])
			}
			if cell == "" {
				// Null-row removal: a blank cell disqualifies the row
				dropped = true
				break
			}
			row[i] = cell
		}
		if dropped {
			continue
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, Errorf(KindEmptyResult,
			"empty file: all rows were dropped (blank or incomplete)")
	}

	return NewTable(header, rows), nil
}

// Package manifest loads the list of CRF pages to capture from a
// spreadsheet. Both .xlsx (the format the clinical teams maintain) and .csv
// are supported; the first row is a header and is skipped.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for manifest operations.
var (
	ErrNotFound          = errors.New("manifest file not found")
	ErrParse             = errors.New("failed to parse manifest")
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	ErrNoRows            = errors.New("manifest has no data rows")
	ErrMissingLabelOrURL = errors.New("manifest row is missing label or URL")
	ErrEmptyWorkbook     = errors.New("workbook has no sheets")
	ErrTooManyEntries    = errors.New("manifest exceeds maximum entry count")
)

// MaxEntries bounds a single run. A full Rave casebook rarely exceeds a few
// hundred CRFs; anything bigger is almost certainly a malformed file.
const MaxEntries = 2000

// Row is one manifest row: a CRF label and the page URL.
type Row struct {
	Label string
	URL   string
}

// Load reads rows from path, dispatching on the file extension
// (.xlsx or .csv).
func Load(path string) ([]Row, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, fmt.Errorf("%w: %q (want .xlsx or .csv)", ErrUnsupportedFormat, ext)
	}
}

// loadXLSX reads the first sheet of an Excel workbook.
func loadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return rowsFromRecords(records)
}

// loadCSV reads a comma-separated manifest.
func loadCSV(path string) ([]Row, error) {
	f, err := os.Open(path) // #nosec G304 -- manifest path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // validated per row below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return rowsFromRecords(records)
}

// rowsFromRecords converts raw records to rows. The first record is the
// header; label and URL columns are located by header name when present,
// otherwise the first two columns are used. Fully empty records are ignored.
func rowsFromRecords(records [][]string) ([]Row, error) {
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	labelCol, urlCol := locateColumns(records[0])

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if len(rows) >= MaxEntries {
			return nil, fmt.Errorf("%w: %d", ErrTooManyEntries, MaxEntries)
		}

		label := cell(rec, labelCol)
		url := cell(rec, urlCol)
		if label == "" || url == "" {
			return nil, fmt.Errorf("%w: row %d", ErrMissingLabelOrURL, i+2)
		}
		rows = append(rows, Row{Label: label, URL: url})
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// locateColumns finds the label and URL columns by header name
// (case-insensitive "crf"/"label" and "url"/"link"), defaulting to the first
// two columns.
func locateColumns(header []string) (labelCol, urlCol int) {
	labelCol, urlCol = 0, 1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "crf", "label", "name":
			labelCol = i
		case "url", "link":
			urlCol = i
		}
	}
	return labelCol, urlCol
}

// cell returns the trimmed value at index i, or "" when the record is short.
func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// isBlank reports whether every cell in the record is empty.
func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

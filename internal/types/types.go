// =============================================================================
// Net Sales Summarizer - Shared Types
// =============================================================================
//
// This package contains the tabular types shared by the input adapters and the
// aggregation pipeline. Keeping them here avoids import cycles between:
//   - csvparser   (pasted / delimited text)
//   - xlsxparser  (decoded workbooks)
//   - aggregator, validation, summarizer
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
)

// =============================================================================
// SHEET TYPES
// =============================================================================

// Row is a single data row keyed by header name.
// Values are raw cell values: the text adapter stores trimmed strings, the
// workbook adapter stores whatever the decoder produced (strings, numbers).
type Row map[string]any

// Sheet is the uniform in-memory representation of one tab of input.
// A Sheet is built once by an adapter and never modified afterwards.
type Sheet struct {
	// Name is the tab name. It drives sheet classification.
	Name string

	// Headers are the header cells in column order, unique, as encountered.
	Headers []string

	// Rows are the data rows in input order.
	Rows []Row
}

// RawSheet is what a spreadsheet decoder hands over: the sheet name plus every
// row as a slice of cells. The first row is the header row.
type RawSheet struct {
	Name string
	Rows [][]any
}

// RowCount returns the number of data rows (headers excluded).
func (s Sheet) RowCount() int {
	return len(s.Rows)
}

// Value returns the raw cell for a header, or nil when the row has no such
// field. An empty header is a valid key (blank workbook header cells).
func (r Row) Value(header string) any {
	return r[header]
}

// Text returns the cell for a header as a string. Missing cells, empty
// strings, false and numeric zero all read as "".
func (r Row) Text(header string) string {
	switch v := r[header].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	case int64:
		if v == 0 {
			return ""
		}
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

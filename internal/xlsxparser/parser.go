// =============================================================================
// Net Sales Summarizer - XLSX Workbook Parser
// =============================================================================
//
// This module reads uploaded ledger workbooks. EVERY sheet of the workbook is
// read, because the sheet NAME carries meaning (sale, credit sale, return...).
//
// TWO STAGES:
//   1. Decode: excelize turns the binary workbook into RawSheets (name plus a
//      2D array of cells, first row = headers). Any failure here is reported
//      as ErrDecode; no partial result is returned.
//   2. FromRawSheets: RawSheets become uniform Sheets (header list + rows
//      keyed by header). This stage never fails.
//
// WORKBOOK RULES:
//   - Reading starts at the used range: leading blank rows and leading blank
//     columns are skipped, so a table may start anywhere on the sheet.
//   - Header cells are stringified and trimmed; a blank header cell is "".
//   - Data cells are kept raw (NOT trimmed); a missing cell becomes "".
//   - A sheet with zero rows is dropped entirely.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
)

// ErrDecode is returned for any workbook that cannot be decoded.
var ErrDecode = errors.New("failed to decode workbook")

// =============================================================================
// DECODING
// =============================================================================

// Decode reads a workbook and returns every sheet as raw rows.
//
// PARAMETERS:
//   - r: The workbook bytes (XLSX).
//
// RETURNS:
//   - One RawSheet per workbook sheet, in workbook order.
//   - An error wrapping ErrDecode if the workbook cannot be read.
func Decode(r io.Reader) ([]types.RawSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	raw := make([]types.RawSheet, 0, len(sheetNames))

	for _, sheetName := range sheetNames {
		// Raw values keep numbers free of display formatting ("1500", not "1,500").
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %w", ErrDecode, sheetName, err)
		}

		rows = usedRange(rows)
		cells := make([][]any, len(rows))
		for i, row := range rows {
			cells[i] = make([]any, len(row))
			for j, cell := range row {
				cells[i][j] = cell
			}
		}

		raw = append(raw, types.RawSheet{Name: sheetName, Rows: cells})
	}

	return raw, nil
}

// =============================================================================
// ADAPTING
// =============================================================================

// FromRawSheets converts decoded sheets into the uniform Sheet representation.
//
// PARAMETERS:
//   - raw: Sheets as produced by a decoder (first row is the header row).
//
// RETURNS:
//   - One Sheet per non-empty RawSheet, in input order.
func FromRawSheets(raw []types.RawSheet) []types.Sheet {
	sheets := make([]types.Sheet, 0, len(raw))

	for _, rs := range raw {
		if len(rs.Rows) == 0 {
			continue
		}

		rawHeaders := make([]string, len(rs.Rows[0]))
		for i, cell := range rs.Rows[0] {
			rawHeaders[i] = headerText(cell)
		}

		sheets = append(sheets, types.Sheet{
			Name:    rs.Name,
			Headers: uniqueHeaders(rawHeaders),
			Rows:    extractDataRows(rs.Rows[1:], rawHeaders),
		})
	}

	return sheets
}

// ParseWorkbook decodes a workbook and adapts its sheets in one step.
func ParseWorkbook(r io.Reader) ([]types.Sheet, error) {
	raw, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return FromRawSheets(raw), nil
}

// ParseFile opens a workbook on disk and parses it.
func ParseFile(path string) ([]types.Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return ParseWorkbook(file)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// usedRange drops the blank rows above and the blank columns left of the
// first non-empty cell. Blank rows inside the table are kept.
func usedRange(rows [][]string) [][]string {
	top := 0
	for top < len(rows) && blankRow(rows[top]) {
		top++
	}
	rows = rows[top:]

	left := -1
	for _, row := range rows {
		for j, cell := range row {
			if cell != "" {
				if left < 0 || j < left {
					left = j
				}
				break
			}
		}
	}
	if left <= 0 {
		return rows
	}

	trimmed := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > left {
			trimmed[i] = row[left:]
		} else {
			trimmed[i] = []string{}
		}
	}
	return trimmed
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// extractDataRows maps each data row onto the header names. When two columns
// share a header the later column's value is kept.
func extractDataRows(rows [][]any, rawHeaders []string) []types.Row {
	result := make([]types.Row, 0, len(rows))

	for _, cells := range rows {
		row := make(types.Row, len(rawHeaders))
		for colIndex, header := range rawHeaders {
			var value any = ""
			if colIndex < len(cells) && cells[colIndex] != nil {
				value = cells[colIndex]
			}
			row[header] = value
		}
		result = append(result, row)
	}

	return result
}

// uniqueHeaders keeps the first occurrence of each header name.
func uniqueHeaders(raw []string) []string {
	headers := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, header := range raw {
		if seen[header] {
			continue
		}
		seen[header] = true
		headers = append(headers, header)
	}
	return headers
}

// headerText stringifies a header cell. Empty cells, false and numeric zero
// all read as a blank header.
func headerText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
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
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

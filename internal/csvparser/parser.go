// =============================================================================
// Net Sales Summarizer - Delimited Text Parser
// =============================================================================
//
// This module turns pasted ledger text (or a .csv/.tsv/.txt file) into the
// uniform Sheet representation used by the aggregation pipeline.
//
// PARSING RULES:
//   - The delimiter is detected from the FIRST line only: a tab wins,
//     otherwise comma.
//   - The first non-blank line is the header row; header cells are trimmed.
//   - Every following line becomes one row keyed by header; values are
//     trimmed and missing trailing cells become "".
//   - Quotes carry no meaning: a line is split on the delimiter and nothing
//     else, so pasted cells containing quotes are kept verbatim.
//   - Text input always produces exactly one sheet named "Sheet1".
//   - Blank or whitespace-only input produces no sheets.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// TextSheetName is the name given to the single sheet built from text input.
// Sheet1 classifies as "other": pasted text carries no sheet semantics.
const TextSheetName = "Sheet1"

// utf8BOM is stripped from files saved by spreadsheet programs.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseText parses delimited text into sheets.
//
// PARAMETERS:
//   - text: The raw pasted text.
//
// RETURNS:
//   - Zero sheets for blank input, otherwise exactly one sheet ("Sheet1").
func ParseText(text string) []types.Sheet {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	delimiter := detectDelimiter(text)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	rawHeaders := strings.Split(lines[0], delimiter)

	headers := cleanHeaders(rawHeaders)
	rows := extractDataRows(lines[1:], rawHeaders, delimiter)

	return []types.Sheet{{
		Name:    TextSheetName,
		Headers: headers,
		Rows:    rows,
	}}
}

// ParseReader reads a whole text file and parses it with ParseText.
//
// PARAMETERS:
//   - r: The source of the file contents.
//
// RETURNS:
//   - The parsed sheets (see ParseText).
//   - An error if the reader fails.
func ParseReader(r io.Reader) ([]types.Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read text input: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	return ParseText(string(data)), nil
}

// detectDelimiter inspects the first line of the untrimmed input.
func detectDelimiter(text string) string {
	firstLine, _, _ := strings.Cut(text, "\n")
	if strings.Contains(firstLine, "\t") {
		return "\t"
	}
	return ","
}

// cleanHeaders trims header cells and drops repeated names, keeping the first
// occurrence in column order.
func cleanHeaders(raw []string) []string {
	headers := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, header := range raw {
		header = strings.TrimSpace(header)
		if seen[header] {
			continue
		}
		seen[header] = true
		headers = append(headers, header)
	}

	return headers
}

// extractDataRows converts each line into a row map keyed by header.
//
// PARAMETERS:
//   - lines: The data lines (header line excluded).
//   - rawHeaders: The header cells in column order, duplicates included.
//   - delimiter: The detected delimiter.
//
// RETURNS:
//   - One row per line, blank lines included. When two columns share a header
//     the later column's value is kept.
func extractDataRows(lines []string, rawHeaders []string, delimiter string) []types.Row {
	rows := make([]types.Row, 0, len(lines))

	for _, line := range lines {
		cells := strings.Split(line, delimiter)
		row := make(types.Row, len(rawHeaders))

		for colIndex, header := range rawHeaders {
			value := ""
			if colIndex < len(cells) {
				value = strings.TrimSpace(cells[colIndex])
			}
			row[strings.TrimSpace(header)] = value
		}

		rows = append(rows, row)
	}

	return rows
}

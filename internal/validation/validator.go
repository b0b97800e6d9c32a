// =============================================================================
// Net Sales Summarizer - Input Diagnostics
// =============================================================================
//
// This module inspects the adapted sheets next to the aggregation result and
// reports findings that explain a surprising summary. Nothing found here is
// fatal and nothing here changes the figures.
//
// CHECKS (per sheet with at least one qualifying row):
//   - missing_financial_columns: neither a debit nor a credit column
//   - missing_count_column: no quantity column, so every row counts as 1
//   - unclassified_sheet: the sheet name matched no category
//   - unparsable_number: a non-blank numeric cell was read as 0
//
// CHECKS (across the result):
//   - case_split_group: two group keys differ only in letter case
//
// ERROR HANDLING:
//   - Findings are collected, never returned as errors
//   - Each finding carries sheet, column and first row for troubleshooting
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/net-sales-summarizer/internal/aggregator"
	"github.com/ginjaninja78/net-sales-summarizer/internal/classifier"
	"github.com/ginjaninja78/net-sales-summarizer/internal/columnmap"
	"github.com/ginjaninja78/net-sales-summarizer/internal/numparse"
	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
)

// =============================================================================
// WARNING TYPES
// =============================================================================

// Code identifies the kind of finding.
type Code string

const (
	MissingFinancialColumns Code = "missing_financial_columns"
	MissingCountColumn      Code = "missing_count_column"
	UnclassifiedSheet       Code = "unclassified_sheet"
	UnparsableNumber        Code = "unparsable_number"
	CaseSplitGroup          Code = "case_split_group"
)

// Warning is a single diagnostic finding.
type Warning struct {
	// Code is the kind of finding.
	Code Code `json:"code" yaml:"code"`

	// Sheet is the sheet the finding belongs to, if any.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty"`

	// Column is the header involved, if any.
	Column string `json:"column,omitempty" yaml:"column,omitempty"`

	// Row is the 1-based data row of the first occurrence (header excluded).
	Row int `json:"row,omitempty" yaml:"row,omitempty"`

	// Value is the offending cell value or group key.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Occurrences counts how often the same finding repeated in the sheet.
	Occurrences int `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface so warnings can be logged as errors.
func (w *Warning) Error() string {
	if w.Sheet == "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] Sheet '%s': %s", w.Code, w.Sheet, w.Message)
}

// =============================================================================
// MAIN INSPECTION FUNCTION
// =============================================================================

// Inspect runs every check and returns the findings in a stable order:
// per-sheet findings in sheet order, then result-wide findings.
//
// PARAMETERS:
//   - sheets: The sheets that were aggregated.
//   - result: The aggregation result for exactly those sheets.
//
// RETURNS:
//   - The findings; empty when nothing noteworthy was found.
func Inspect(sheets []types.Sheet, result aggregator.Result) []*Warning {
	var warnings []*Warning

	for i, stats := range result.Sheets {
		if stats.RowsMatched == 0 || i >= len(sheets) {
			continue
		}
		warnings = append(warnings, inspectSheet(sheets[i], stats)...)
	}

	warnings = append(warnings, caseSplitGroups(result.Groups)...)
	return warnings
}

// inspectSheet runs the per-sheet checks.
func inspectSheet(sheet types.Sheet, stats aggregator.SheetStats) []*Warning {
	var warnings []*Warning
	cols := stats.Columns

	if !cols.Debtor.Found && !cols.Creditor.Found {
		warnings = append(warnings, &Warning{
			Code:    MissingFinancialColumns,
			Sheet:   sheet.Name,
			Message: "No debit or credit column found; revenue for this sheet is 0",
		})
	}

	if !cols.Count.Found {
		warnings = append(warnings, &Warning{
			Code:    MissingCountColumn,
			Sheet:   sheet.Name,
			Message: "No quantity column found; every qualifying row counts as 1",
		})
	}

	if stats.Category == classifier.Other {
		warnings = append(warnings, &Warning{
			Code:    UnclassifiedSheet,
			Sheet:   sheet.Name,
			Message: "Sheet name matches no sales category; amounts are summed but quantities are ignored",
		})
	}

	for _, col := range []columnmap.Column{cols.Debtor, cols.Creditor, cols.Count} {
		if w := unparsableNumbers(sheet, cols.VarietyCode, col); w != nil {
			warnings = append(warnings, w)
		}
	}

	return warnings
}

// unparsableNumbers reports non-blank cells of a numeric column that carry no
// number at all, for qualifying rows only. Repeats fold into one warning.
func unparsableNumbers(sheet types.Sheet, codeCol, col columnmap.Column) *Warning {
	if !col.Found {
		return nil
	}

	var warning *Warning
	for i, row := range sheet.Rows {
		if _, ok := aggregator.GroupKey(row, codeCol); !ok {
			continue
		}

		value := row.Value(col.Name)
		if numparse.IsBlank(value) {
			continue
		}
		if _, ok := numparse.Parse(value); ok {
			continue
		}

		if warning == nil {
			warning = &Warning{
				Code:    UnparsableNumber,
				Sheet:   sheet.Name,
				Column:  col.Name,
				Row:     i + 1,
				Value:   fmt.Sprint(value),
				Message: fmt.Sprintf("Column '%s' has values that are not numbers; they were read as 0", col.Name),
			}
		}
		warning.Occurrences++
	}

	return warning
}

// caseSplitGroups reports group keys that are equal when letter case is
// ignored. One warning per later key, pointing at the first-seen spelling.
func caseSplitGroups(groups []aggregator.VarietyGroup) []*Warning {
	var warnings []*Warning
	firstSeen := make(map[string]string, len(groups))

	for _, group := range groups {
		folded := strings.ToUpper(group.VarietyCode)
		first, exists := firstSeen[folded]
		if !exists {
			firstSeen[folded] = group.VarietyCode
			continue
		}
		warnings = append(warnings, &Warning{
			Code:    CaseSplitGroup,
			Value:   group.VarietyCode,
			Message: fmt.Sprintf("Variety code '%s' differs from '%s' only in letter case and is summarized separately", group.VarietyCode, first),
		})
	}

	return warnings
}

// =============================================================================
// WARNING FORMATTING
// =============================================================================

// FormatWarnings formats findings for display or logging.
//
// PARAMETERS:
//   - warnings: The findings to format.
//
// RETURNS:
//   - A formatted string listing every finding.
func FormatWarnings(warnings []*Warning) string {
	if len(warnings) == 0 {
		return "No warnings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Summary completed with %d warning(s):\n\n", len(warnings)))

	for i, w := range warnings {
		builder.WriteString(fmt.Sprintf("%d. %s", i+1, w.Error()))
		if w.Occurrences > 1 {
			builder.WriteString(fmt.Sprintf(" (%d occurrences, first at row %d)", w.Occurrences, w.Row))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

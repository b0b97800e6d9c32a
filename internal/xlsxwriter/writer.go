// =============================================================================
// Net Sales Summarizer - XLSX Writer Module
// =============================================================================
//
// This module encodes the export view of a summary as an XLSX workbook.
//
// WORKBOOK LAYOUT:
//   Sheet "Summary" (right-to-left):
//     Row 1       bold header row, labels from report.ExportHeaders
//     Row 2..N+1  one row per record, in record order
//
//   Text cells stay text; every figure is written as a number so that the
//   workbook can be summed and re-imported without reformatting.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
)

// SheetName is the name of the single sheet in an exported workbook.
const SheetName = "Summary"

var columnWidths = []struct {
	start, end string
	width      float64
}{
	{"A", "A", 18},
	{"B", "B", 40},
	{"C", "K", 20},
}

// =============================================================================
// WORKBOOK GENERATION FUNCTIONS
// =============================================================================

// Build creates the export workbook in memory. The caller must Close it.
//
// PARAMETERS:
//   - records: The export records, in output order.
//
// RETURNS:
//   - The workbook.
//   - An error if any cell or style cannot be set.
func Build(records []report.ExportRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := report.ExportHeaders()
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := record.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	rightToLeft := true
	if err := f.SetSheetView(SheetName, 0, &excelize.ViewOptions{RightToLeft: &rightToLeft}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set sheet view: %w", err)
	}

	// Column widths: code and description wider than the figures.
	for _, w := range columnWidths {
		if err := f.SetColWidth(SheetName, w.start, w.end, w.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set width of columns %s:%s: %w", w.start, w.end, err)
		}
	}

	return f, nil
}

// Write encodes records as an XLSX workbook into w.
func Write(w io.Writer, records []report.ExportRecord) error {
	f, err := Build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// WriteFile encodes records as an XLSX workbook at path.
func WriteFile(path string, records []report.ExportRecord) error {
	f, err := Build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

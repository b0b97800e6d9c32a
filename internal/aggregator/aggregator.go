// =============================================================================
// Net Sales Summarizer - Aggregation Engine
// =============================================================================
//
// This module groups ledger rows by variety code (DKPC) across every sheet and
// derives the per-variety sales figures.
//
// AGGREGATION PIPELINE:
//   1. Per sheet: resolve the ColumnMap and the sheet category ONCE.
//   2. Per row: keep only codes that start with "DKPC" (trimmed, upper-cased
//      for the test only) and accumulate into the group keyed by the trimmed
//      original code.
//   3. After ALL sheets: compute netCount, totalRevenue and revenuePerUnit.
//
// GROUP KEYS:
//   Keys are case-sensitive. "DKPC001" and "dkpc001" both qualify but form two
//   separate groups. The validation package reports such pairs.
//
// ORDERING:
//   Groups come out in first-seen order across the whole multi-sheet scan.
//
// =============================================================================

package aggregator

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/net-sales-summarizer/internal/classifier"
	"github.com/ginjaninja78/net-sales-summarizer/internal/columnmap"
	"github.com/ginjaninja78/net-sales-summarizer/internal/numparse"
	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
)

// CodePrefix is the prefix a variety code must carry to be aggregated.
const CodePrefix = "DKPC"

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// VarietyGroup holds the accumulated figures of one variety code.
type VarietyGroup struct {
	VarietyCode string `json:"variety_code" yaml:"variety_code"`
	VarietyDesc string `json:"variety_desc" yaml:"variety_desc"`

	// Accumulators. Every row of the group adds to these.
	TotalDebtor       float64 `json:"total_debtor" yaml:"total_debtor"`
	TotalCreditor     float64 `json:"total_creditor" yaml:"total_creditor"`
	CountSale         float64 `json:"count_sale" yaml:"count_sale"`
	CountSaleCredit   float64 `json:"count_sale_credit" yaml:"count_sale_credit"`
	CountReturn       float64 `json:"count_return" yaml:"count_return"`
	CountReturnCredit float64 `json:"count_return_credit" yaml:"count_return_credit"`

	// Derived fields. Only valid once Aggregate has returned.
	NetCount       float64 `json:"net_count" yaml:"net_count"`
	TotalRevenue   float64 `json:"total_revenue" yaml:"total_revenue"`
	RevenuePerUnit float64 `json:"revenue_per_unit" yaml:"revenue_per_unit"`
}

// SheetStats describes how one sheet was read.
type SheetStats struct {
	Name        string
	Category    classifier.Category
	Columns     columnmap.ColumnMap
	RowsScanned int
	RowsMatched int
	RowsSkipped int
}

// Result is the outcome of one Aggregate call.
type Result struct {
	// Groups are in first-seen order of their variety code.
	Groups []VarietyGroup

	// Sheets has one entry per input sheet, in input order.
	Sheets []SheetStats

	// RowsScanned counts every data row present, qualifying or not.
	RowsScanned int
}

// =============================================================================
// OPTIONS
// =============================================================================

type options struct {
	classifier *classifier.Classifier
}

// Option customizes an Aggregate call.
type Option func(*options)

// WithClassifier replaces the default sheet classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(o *options) {
		if c != nil {
			o.classifier = c
		}
	}
}

// =============================================================================
// MAIN AGGREGATION FUNCTION
// =============================================================================

// Aggregate groups the qualifying rows of all sheets by variety code.
//
// PARAMETERS:
//   - sheets: The adapted input sheets. They are read, never modified.
//   - opts: Optional settings (see WithClassifier).
//
// RETURNS:
//   - A Result. Zero groups is a valid outcome, not an error.
func Aggregate(sheets []types.Sheet, opts ...Option) Result {
	o := options{classifier: classifier.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	groups := make(map[string]*VarietyGroup)
	groupOrder := []string{} // Maintain order of first occurrence

	result := Result{Sheets: make([]SheetStats, 0, len(sheets))}

	for _, sheet := range sheets {
		stats := SheetStats{
			Name:     sheet.Name,
			Category: o.classifier.Classify(sheet.Name),
			Columns:  columnmap.Resolve(sheet.Headers),
		}
		cols := stats.Columns

		for _, row := range sheet.Rows {
			stats.RowsScanned++

			code, ok := GroupKey(row, cols.VarietyCode)
			if !ok {
				stats.RowsSkipped++
				continue
			}
			stats.RowsMatched++

			group, exists := groups[code]
			if !exists {
				group = &VarietyGroup{VarietyCode: code}
				groups[code] = group
				groupOrder = append(groupOrder, code)
			}

			if group.VarietyDesc == "" && cols.VarietyDesc.Found {
				group.VarietyDesc = row.Text(cols.VarietyDesc.Name)
			}

			if cols.Debtor.Found {
				group.TotalDebtor += numparse.Normalize(row.Value(cols.Debtor.Name))
			}
			if cols.Creditor.Found {
				group.TotalCreditor += numparse.Normalize(row.Value(cols.Creditor.Name))
			}

			quantity := 1.0
			if cols.Count.Found {
				quantity = numparse.Normalize(row.Value(cols.Count.Name))
			}
			addQuantity(group, stats.Category, quantity)
		}

		result.RowsScanned += stats.RowsScanned
		result.Sheets = append(result.Sheets, stats)
	}

	result.Groups = make([]VarietyGroup, 0, len(groupOrder))
	for _, code := range groupOrder {
		group := groups[code]
		derive(group)
		result.Groups = append(result.Groups, *group)
	}

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GroupKey returns the trimmed variety code of a row and whether the row
// qualifies for aggregation. The prefix test ignores case; the key does not.
func GroupKey(row types.Row, col columnmap.Column) (string, bool) {
	if !col.Found {
		return "", false
	}
	code := strings.TrimSpace(row.Text(col.Name))
	if !strings.HasPrefix(strings.ToUpper(code), CodePrefix) {
		return "", false
	}
	return code, true
}

// addQuantity routes a row's quantity into the counter of its sheet category.
// Category Other feeds no counter.
func addQuantity(group *VarietyGroup, category classifier.Category, quantity float64) {
	switch category {
	case classifier.Sale:
		group.CountSale += quantity
	case classifier.SaleCredit:
		group.CountSaleCredit += quantity
	case classifier.ReturnSale:
		group.CountReturn += quantity
	case classifier.ReturnCredit:
		group.CountReturnCredit += quantity
	}
}

// derive fills the derived fields. Revenue per unit is rounded half away
// from zero and is 0 when the net count is 0.
func derive(group *VarietyGroup) {
	group.NetCount = (group.CountSale + group.CountSaleCredit) - (group.CountReturn + group.CountReturnCredit)
	group.TotalRevenue = group.TotalCreditor - group.TotalDebtor

	group.RevenuePerUnit = 0
	if group.NetCount == 0 {
		return
	}

	if !isFinite(group.TotalRevenue) || !isFinite(group.NetCount) {
		group.RevenuePerUnit = math.Round(group.TotalRevenue / group.NetCount)
		return
	}

	perUnit := decimal.NewFromFloat(group.TotalRevenue).
		Div(decimal.NewFromFloat(group.NetCount)).
		Round(0)
	group.RevenuePerUnit = perUnit.InexactFloat64()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

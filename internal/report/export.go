// =============================================================================
// Net Sales Summarizer - Report Views
// =============================================================================
//
// This package turns aggregated variety groups into the two views callers
// consume:
//   1. Export view: one flat record per group, values unformatted, in a fixed
//      column order. This is what gets written back to a workbook.
//   2. Display view: per group an ordered list of labeled, locale-formatted
//      values, plus grand totals.
//
// Number formatting lives only in Formatter. The export view never formats.
//
// =============================================================================

package report

import "github.com/ginjaninja78/net-sales-summarizer/internal/aggregator"

// DefaultExportFileName is the file name offered for a summary export.
const DefaultExportFileName = "invoice_net_sales_summary.xlsx"

// exportHeaders are the export column labels in column order.
var exportHeaders = []string{
	"کد تنوع",
	"شرح تنوع",
	"تعداد خالص فروش",
	"درآمد کل (﷼)",
	"درآمد واحد (﷼)",
	"تعداد فروش",
	"تعداد فروش اعتباری",
	"تعداد برگشت از فروش",
	"تعداد برگشت از فروش اعتباری",
	"جمع بستانکار (﷼)",
	"جمع بدهکار (﷼)",
}

// ExportRecord is one row of the export view.
type ExportRecord struct {
	VarietyCode       string  `json:"variety_code" yaml:"variety_code"`
	VarietyDesc       string  `json:"variety_desc" yaml:"variety_desc"`
	NetCount          float64 `json:"net_count" yaml:"net_count"`
	TotalRevenue      float64 `json:"total_revenue" yaml:"total_revenue"`
	RevenuePerUnit    float64 `json:"revenue_per_unit" yaml:"revenue_per_unit"`
	CountSale         float64 `json:"count_sale" yaml:"count_sale"`
	CountSaleCredit   float64 `json:"count_sale_credit" yaml:"count_sale_credit"`
	CountReturn       float64 `json:"count_return" yaml:"count_return"`
	CountReturnCredit float64 `json:"count_return_credit" yaml:"count_return_credit"`
	TotalCreditor     float64 `json:"total_creditor" yaml:"total_creditor"`
	TotalDebtor       float64 `json:"total_debtor" yaml:"total_debtor"`
}

// ExportHeaders returns the export column labels in column order.
func ExportHeaders() []string {
	out := make([]string, len(exportHeaders))
	copy(out, exportHeaders)
	return out
}

// Values returns the record's cells in ExportHeaders order.
func (r ExportRecord) Values() []any {
	return []any{
		r.VarietyCode,
		r.VarietyDesc,
		r.NetCount,
		r.TotalRevenue,
		r.RevenuePerUnit,
		r.CountSale,
		r.CountSaleCredit,
		r.CountReturn,
		r.CountReturnCredit,
		r.TotalCreditor,
		r.TotalDebtor,
	}
}

// ExportRecords maps groups to export records, preserving group order.
func ExportRecords(groups []aggregator.VarietyGroup) []ExportRecord {
	records := make([]ExportRecord, len(groups))
	for i, g := range groups {
		records[i] = ExportRecord{
			VarietyCode:       g.VarietyCode,
			VarietyDesc:       g.VarietyDesc,
			NetCount:          g.NetCount,
			TotalRevenue:      g.TotalRevenue,
			RevenuePerUnit:    g.RevenuePerUnit,
			CountSale:         g.CountSale,
			CountSaleCredit:   g.CountSaleCredit,
			CountReturn:       g.CountReturn,
			CountReturnCredit: g.CountReturnCredit,
			TotalCreditor:     g.TotalCreditor,
			TotalDebtor:       g.TotalDebtor,
		}
	}
	return records
}

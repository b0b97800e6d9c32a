package report

import "github.com/ginjaninja78/net-sales-summarizer/internal/aggregator"

// Display labels.
const (
	LabelNetCount          = "تعداد خالص فروش"
	LabelTotalRevenue      = "درآمد کل"
	LabelRevenuePerUnit    = "درآمد واحد"
	LabelCountSale         = "فروش"
	LabelCountSaleCredit   = "فروش اعتباری"
	LabelCountReturn       = "برگشت از فروش"
	LabelCountReturnCredit = "برگشت اعتباری"

	LabelGrandNetCount      = "تعداد خالص کل"
	LabelGrandTotalRevenue  = "درآمد کل"
	LabelGrandTotalDebtor   = "جمع بدهکار کل"
	LabelGrandTotalCreditor = "جمع بستانکار کل"
)

// Detail is one labeled value of a display row.
type Detail struct {
	Label     string `json:"label" yaml:"label"`
	Value     string `json:"value" yaml:"value"`
	Highlight bool   `json:"highlight" yaml:"highlight"`
}

// DisplayRow is the display view of one group.
type DisplayRow struct {
	Group   string   `json:"group" yaml:"group"`
	Desc    string   `json:"desc" yaml:"desc"`
	Details []Detail `json:"details" yaml:"details"`
}

// Total is one formatted grand total.
type Total struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// DisplaySummary is the display view of a whole summary.
type DisplaySummary struct {
	Rows        []DisplayRow `json:"rows" yaml:"rows"`
	GrandTotals []Total      `json:"grand_totals" yaml:"grand_totals"`
}

// Display builds the display view. A nil formatter means DefaultFormatter.
func Display(groups []aggregator.VarietyGroup, f *Formatter) DisplaySummary {
	if f == nil {
		f = DefaultFormatter()
	}

	summary := DisplaySummary{Rows: make([]DisplayRow, 0, len(groups))}

	var netCount, totalRevenue, totalDebtor, totalCreditor float64
	for _, g := range groups {
		summary.Rows = append(summary.Rows, DisplayRow{
			Group: g.VarietyCode,
			Desc:  g.VarietyDesc,
			Details: []Detail{
				{Label: LabelNetCount, Value: f.Number(g.NetCount), Highlight: true},
				{Label: LabelTotalRevenue, Value: f.Currency(g.TotalRevenue), Highlight: true},
				{Label: LabelRevenuePerUnit, Value: f.Currency(g.RevenuePerUnit)},
				{Label: LabelCountSale, Value: f.Number(g.CountSale)},
				{Label: LabelCountSaleCredit, Value: f.Number(g.CountSaleCredit)},
				{Label: LabelCountReturn, Value: f.Number(g.CountReturn)},
				{Label: LabelCountReturnCredit, Value: f.Number(g.CountReturnCredit)},
			},
		})

		netCount += g.NetCount
		totalRevenue += g.TotalRevenue
		totalDebtor += g.TotalDebtor
		totalCreditor += g.TotalCreditor
	}

	summary.GrandTotals = []Total{
		{Label: LabelGrandNetCount, Value: f.Number(netCount)},
		{Label: LabelGrandTotalRevenue, Value: f.Number(totalRevenue)},
		{Label: LabelGrandTotalDebtor, Value: f.Number(totalDebtor)},
		{Label: LabelGrandTotalCreditor, Value: f.Number(totalCreditor)},
	}

	return summary
}

// Package columnmap identifies which header of a ledger sheet holds the
// variety code, description, debit, credit and quantity.
//
// Every target is resolved by first-match priority over an ordered list of
// header substrings (case-sensitive containment). Resolution is per sheet:
// each sheet's own headers decide its mapping.
package columnmap

import "strings"

// Header substrings, in priority order per target.
var (
	varietyCodePatterns = []string{"کد تنوع", "کد"}
	varietyDescPatterns = []string{"شرح تنوع", "شرح", "عنوان"}
	debtorPatterns      = []string{"بدهکار"}
	creditorPatterns    = []string{"بستانکار"}
	countPatterns       = []string{"تعداد", "مقدار"}
)

// Column is a resolved header name. Found is false when no header matched.
type Column struct {
	Name  string
	Found bool
}

// ColumnMap is the resolved column layout of one sheet.
type ColumnMap struct {
	VarietyCode Column
	VarietyDesc Column
	Debtor      Column
	Creditor    Column
	Count       Column
}

// Resolve builds the ColumnMap for a header list.
//
// The variety code always resolves when there is at least one header: it
// falls back to the first header. The other columns may stay unresolved.
func Resolve(headers []string) ColumnMap {
	cm := ColumnMap{
		VarietyCode: firstMatch(headers, varietyCodePatterns),
		VarietyDesc: firstMatch(headers, varietyDescPatterns),
		Debtor:      firstMatch(headers, debtorPatterns),
		Creditor:    firstMatch(headers, creditorPatterns),
		Count:       firstMatch(headers, countPatterns),
	}

	if !cm.VarietyCode.Found && len(headers) > 0 {
		cm.VarietyCode = Column{Name: headers[0], Found: true}
	}

	return cm
}

// firstMatch walks the patterns in priority order; for each pattern the first
// header containing it wins.
func firstMatch(headers []string, patterns []string) Column {
	for _, pattern := range patterns {
		for _, header := range headers {
			if strings.Contains(header, pattern) {
				return Column{Name: header, Found: true}
			}
		}
	}
	return Column{}
}

// Package classifier maps a sheet name to its ledger category.
package classifier

import "strings"

// Category is the semantic role of a sheet.
type Category string

const (
	Sale         Category = "sale"
	SaleCredit   Category = "sale_credit"
	ReturnSale   Category = "return_sale"
	ReturnCredit Category = "return_credit"
	Other        Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Sale, SaleCredit, ReturnSale, ReturnCredit, Other:
		return true
	}
	return false
}

// Rule assigns Category to any sheet whose lower-cased name contains one of
// the Contains substrings.
type Rule struct {
	Contains []string
	Category Category
}

// defaultRules are checked in order. The return patterns contain "فروش" as a
// substring, so they must come before the plain sale rules.
var defaultRules = []Rule{
	{Contains: []string{"برگشت از فروش اعتباری", "برگشت فروش اعتباری"}, Category: ReturnCredit},
	{Contains: []string{"برگشت از فروش", "برگشت فروش"}, Category: ReturnSale},
	{Contains: []string{"فروش اعتباری"}, Category: SaleCredit},
	{Contains: []string{"فروش"}, Category: Sale},
}

// Classifier holds an ordered rule list; the first matching rule wins.
type Classifier struct {
	rules []Rule
}

// Default returns a classifier with only the built-in rules.
func Default() *Classifier {
	return New(nil)
}

// New returns a classifier that evaluates extra before the built-in rules.
// Patterns in extra are lower-cased so they match the lower-cased sheet name.
func New(extra []Rule) *Classifier {
	rules := make([]Rule, 0, len(extra)+len(defaultRules))
	for _, r := range extra {
		patterns := make([]string, 0, len(r.Contains))
		for _, p := range r.Contains {
			if p = strings.ToLower(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		rules = append(rules, Rule{Contains: patterns, Category: r.Category})
	}
	rules = append(rules, defaultRules...)
	return &Classifier{rules: rules}
}

// Classify returns the category for a sheet name, or Other when no rule
// matches.
func (c *Classifier) Classify(sheetName string) Category {
	name := strings.ToLower(sheetName)
	for _, rule := range c.rules {
		for _, pattern := range rule.Contains {
			if strings.Contains(name, pattern) {
				return rule.Category
			}
		}
	}
	return Other
}

// Rules returns a copy of the effective rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DefaultLocale is the locale whose digits and grouping the display uses.
	DefaultLocale = "fa-IR"

	// DefaultCurrencySuffix is appended to currency amounts (Iranian rial sign).
	DefaultCurrencySuffix = " ﷼"

	maxFractionDigits = 3
)

// defaultNumbering names the native numbering system of languages whose
// CLDR data the printer does not select on its own.
var defaultNumbering = map[string]string{
	"fa": "arabext",
}

// Formatter renders numbers with locale digits and thousands grouping.
// It is safe for concurrent use.
type Formatter struct {
	locale         language.Tag
	printer        language.Tag
	currencySuffix string
}

// NewFormatter builds a Formatter for a BCP 47 locale tag. An empty locale
// selects DefaultLocale.
func NewFormatter(locale, currencySuffix string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	return newFormatter(tag, currencySuffix), nil
}

func newFormatter(tag language.Tag, currencySuffix string) *Formatter {
	return &Formatter{
		locale:         tag,
		printer:        withNumbering(tag),
		currencySuffix: currencySuffix,
	}
}

// withNumbering adds the native numbering system (-u-nu-) to tags that do
// not name one.
func withNumbering(tag language.Tag) language.Tag {
	if tag.TypeForKey("nu") != "" {
		return tag
	}
	base, _ := tag.Base()
	nu, ok := defaultNumbering[base.String()]
	if !ok {
		return tag
	}
	withNu, err := tag.SetTypeForKey("nu", nu)
	if err != nil {
		return tag
	}
	return withNu
}

// DefaultFormatter returns the fa-IR formatter with the rial suffix.
func DefaultFormatter() *Formatter {
	return newFormatter(language.MustParse(DefaultLocale), DefaultCurrencySuffix)
}

// Locale returns the formatter's locale tag.
func (f *Formatter) Locale() string {
	return f.locale.String()
}

// Number formats v with grouping and at most three fraction digits.
func (f *Formatter) Number(v float64) string {
	// Printers are not documented as safe for concurrent use.
	p := message.NewPrinter(f.printer)
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(maxFractionDigits)))
}

// Currency formats v like Number and appends the currency suffix.
func (f *Formatter) Currency(v float64) string {
	return f.Number(v) + f.currencySuffix
}

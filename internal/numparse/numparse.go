// Package numparse turns locale-formatted ledger cells into numbers.
//
// Cells arrive with Persian or Arabic-Indic digits, thousands separators,
// currency glyphs and stray text. Anything that cannot be read degrades to 0;
// callers never see an error.
package numparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPrefix is the part of a cleaned string a float parser accepts.
var numberPrefix = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)`)

// Normalize converts a raw cell to a float64. Absent, empty and unreadable
// input yields 0.
func Normalize(v any) float64 {
	n, _ := Parse(v)
	return n
}

// Parse is Normalize with a flag reporting whether any number was found.
//
// Steps, in order:
//  1. stringify the value
//  2. map Persian (۰-۹) and Arabic-Indic (٠-٩) digits to ASCII
//  3. drop every rune that is not an ASCII digit, '.' or '-'
//  4. take the longest leading float literal
//
// A trailing '-' with no leading sign negates the value ("۱۲۳.۴۵-" is -123.45).
func Parse(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}

	cleaned := strings.Map(cleanRune, stringify(v))
	if cleaned == "" {
		return 0, false
	}

	if !strings.HasPrefix(cleaned, "-") && strings.HasSuffix(cleaned, "-") {
		cleaned = "-" + strings.TrimSuffix(cleaned, "-")
	}

	literal := numberPrefix.FindString(cleaned)
	if literal == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// IsBlank reports whether a raw cell carries no content at all.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// cleanRune maps locale digits to ASCII and drops everything outside [0-9.-].
func cleanRune(r rune) rune {
	switch {
	case r >= '0' && r <= '9', r == '.', r == '-':
		return r
	case r >= '۰' && r <= '۹': // U+06F0..U+06F9
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩': // U+0660..U+0669
		return '0' + (r - '٠')
	default:
		return -1
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case []byte:
		return string(t)
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}

// formatFloat never uses exponent notation so that stripping non-digits
// cannot glue the exponent onto the mantissa.
func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

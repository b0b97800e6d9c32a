package summarizer

import (
	"errors"

	"github.com/ginjaninja78/net-sales-summarizer/internal/aggregator"
	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
	"github.com/ginjaninja78/net-sales-summarizer/internal/validation"
	"github.com/ginjaninja78/net-sales-summarizer/internal/xlsxparser"
)

// Sentinel errors of the request taxonomy.
var (
	ErrEmptyInput       = errors.New("no data found in input")
	ErrNoQualifyingRows = errors.New("no rows with a DKPC variety code")
	ErrMalformedText    = errors.New("failed to process text input")

	// ErrDecodingFailure is the workbook decoder's error.
	ErrDecodingFailure = xlsxparser.ErrDecode
)

// ResponseType tells the caller how to render a Response.
type ResponseType string

const (
	// TypeText is a plain informational message in Content.
	TypeText ResponseType = "text"

	// TypeTable is a summary in Rows and GrandTotals.
	TypeTable ResponseType = "table"
)

// Outcome classifies how a request ended.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeEmptyInput       Outcome = "empty_input"
	OutcomeNoQualifyingRows Outcome = "no_qualifying_rows"
	OutcomeDecodingFailure  Outcome = "decoding_failure"
	OutcomeMalformedText    Outcome = "malformed_text"
)

// User-facing messages of the informational outcomes.
const (
	MessageEmptyInput       = "⚠️ داده‌ای یافت نشد. لطفاً متن یا فایل معتبر ارسال کنید."
	MessageNoQualifyingRows = "⚠️ داده‌ای برای پردازش یافت نشد."
	MessageDecodingFailure  = "❌ خطا در خواندن فایل اکسل. لطفاً مطمئن شوید فایل سالم است."
	MessageMalformedText    = "❌ خطا در پردازش متن. لطفاً ساختار داده‌ها را بررسی کنید."
)

var outcomeMessages = map[Outcome]string{
	OutcomeEmptyInput:       MessageEmptyInput,
	OutcomeNoQualifyingRows: MessageNoQualifyingRows,
	OutcomeDecodingFailure:  MessageDecodingFailure,
	OutcomeMalformedText:    MessageMalformedText,
}

var outcomeErrors = map[Outcome]error{
	OutcomeEmptyInput:       ErrEmptyInput,
	OutcomeNoQualifyingRows: ErrNoQualifyingRows,
	OutcomeDecodingFailure:  ErrDecodingFailure,
	OutcomeMalformedText:    ErrMalformedText,
}

// Response is the single answer to one summarization request. It is either
// informational (TypeText) or a summary table (TypeTable).
type Response struct {
	RequestID string       `json:"request_id" yaml:"request_id"`
	Type      ResponseType `json:"type" yaml:"type"`
	Outcome   Outcome      `json:"outcome" yaml:"outcome"`

	// Content is the message of a TypeText response.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Display view of a TypeTable response.
	Rows        []report.DisplayRow `json:"rows,omitempty" yaml:"rows,omitempty"`
	GrandTotals []report.Total      `json:"grand_totals,omitempty" yaml:"grand_totals,omitempty"`

	// Groups are the unformatted figures behind Rows, kept for re-export.
	Groups []aggregator.VarietyGroup `json:"groups,omitempty" yaml:"groups,omitempty"`

	Warnings []*validation.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Err returns the sentinel error matching the outcome, or nil for OutcomeOK.
func (r *Response) Err() error {
	return outcomeErrors[r.Outcome]
}

// HasTable reports whether the response carries a summary.
func (r *Response) HasTable() bool {
	return r.Type == TypeTable
}

func informational(requestID string, outcome Outcome) *Response {
	return &Response{
		RequestID: requestID,
		Type:      TypeText,
		Outcome:   outcome,
		Content:   outcomeMessages[outcome],
	}
}

// outcomeOf maps an error from Summarize to its outcome.
func outcomeOf(err error, failure Outcome) Outcome {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return OutcomeEmptyInput
	case errors.Is(err, ErrNoQualifyingRows):
		return OutcomeNoQualifyingRows
	default:
		return failure
	}
}

// =============================================================================
// Net Sales Summarizer - Request Boundary
// =============================================================================
//
// This module runs one summarization request end to end and is the ONLY place
// where failures become user-facing answers.
//
// PIPELINE:
//   1. Adapt the input (text or workbook) into sheets
//   2. Aggregate the sheets into variety groups
//   3. Inspect the input for diagnostics
//   4. Build the display view
//
// ERROR TAXONOMY (all answered with an informational Response):
//   - empty_input:        no sheet, or pasted text with no data rows
//   - no_qualifying_rows: sheets parsed, but no DKPC rows
//   - decoding_failure:   the workbook could not be decoded
//   - malformed_text:     anything unexpected while summarizing text
//
// Nothing here returns an error or lets a panic escape. Each request is
// independent; the Service holds no per-request state.
//
// =============================================================================

package summarizer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/net-sales-summarizer/internal/aggregator"
	"github.com/ginjaninja78/net-sales-summarizer/internal/classifier"
	"github.com/ginjaninja78/net-sales-summarizer/internal/csvparser"
	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
	"github.com/ginjaninja78/net-sales-summarizer/internal/validation"
	"github.com/ginjaninja78/net-sales-summarizer/internal/xlsxparser"
	"github.com/ginjaninja78/net-sales-summarizer/internal/xlsxwriter"
)

// =============================================================================
// PURE SUMMARY
// =============================================================================

// Summary is the result of a successful Summarize call.
type Summary struct {
	Result   aggregator.Result
	Warnings []*validation.Warning
}

// Groups returns the variety groups in first-seen order.
func (s *Summary) Groups() []aggregator.VarietyGroup {
	return s.Result.Groups
}

// Summarize aggregates sheets and inspects them.
//
// RETURNS:
//   - ErrEmptyInput when there are no sheets.
//   - ErrNoQualifyingRows when no group was produced.
func Summarize(sheets []types.Sheet, opts ...aggregator.Option) (*Summary, error) {
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}

	result := aggregator.Aggregate(sheets, opts...)
	if len(result.Groups) == 0 {
		return nil, fmt.Errorf("%w: %d rows scanned", ErrNoQualifyingRows, result.RowsScanned)
	}

	return &Summary{
		Result:   result,
		Warnings: validation.Inspect(sheets, result),
	}, nil
}

// =============================================================================
// SERVICE
// =============================================================================

// Service answers summarization requests.
type Service struct {
	logger     *slog.Logger
	classifier *classifier.Classifier
	formatter  *report.Formatter
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClassifier sets the sheet classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithFormatter sets the display formatter.
func WithFormatter(f *report.Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		logger:     slog.Default(),
		classifier: classifier.Default(),
		formatter:  report.DefaultFormatter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "summarizer"))
	return s
}

// SummarizeText answers pasted or delimited text.
func (s *Service) SummarizeText(ctx context.Context, text string) *Response {
	requestID := requestIDFrom(ctx)
	start := time.Now()

	return s.answerText(ctx, requestID, csvparser.ParseText(text), start)
}

// SummarizeTextReader answers delimited text read from r, such as a saved
// file. A leading UTF-8 BOM is ignored. Only a failing reader is an error.
func (s *Service) SummarizeTextReader(ctx context.Context, r io.Reader) (*Response, error) {
	requestID := requestIDFrom(ctx)
	start := time.Now()

	sheets, err := csvparser.ParseReader(r)
	if err != nil {
		return nil, err
	}
	return s.answerText(ctx, requestID, sheets, start), nil
}

func (s *Service) answerText(ctx context.Context, requestID string, sheets []types.Sheet, start time.Time) *Response {
	if len(sheets) == 0 || sheets[0].RowCount() == 0 {
		return s.finish(ctx, informational(requestID, OutcomeEmptyInput), "text", start)
	}
	return s.finish(ctx, s.run(ctx, requestID, sheets, OutcomeMalformedText), "text", start)
}

// SummarizeWorkbook answers an uploaded XLSX workbook.
func (s *Service) SummarizeWorkbook(ctx context.Context, r io.Reader) *Response {
	requestID := requestIDFrom(ctx)
	start := time.Now()

	sheets, err := xlsxparser.ParseWorkbook(r)
	if err != nil {
		s.logger.WarnContext(ctx, "workbook decoding failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return s.finish(ctx, informational(requestID, OutcomeDecodingFailure), "workbook", start)
	}

	return s.finish(ctx, s.run(ctx, requestID, sheets, OutcomeDecodingFailure), "workbook", start)
}

// SummarizeSheets answers sheets that were adapted elsewhere. Unexpected
// failures are reported as malformed input.
func (s *Service) SummarizeSheets(ctx context.Context, sheets []types.Sheet) *Response {
	requestID := requestIDFrom(ctx)
	start := time.Now()

	return s.finish(ctx, s.run(ctx, requestID, sheets, OutcomeMalformedText), "sheets", start)
}

// Export encodes groups as the export workbook.
func (s *Service) Export(w io.Writer, groups []aggregator.VarietyGroup) error {
	if err := xlsxwriter.Write(w, report.ExportRecords(groups)); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	return nil
}

// ExportFile writes the export workbook of groups to path.
func (s *Service) ExportFile(path string, groups []aggregator.VarietyGroup) error {
	if err := xlsxwriter.WriteFile(path, report.ExportRecords(groups)); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	return nil
}

// run summarizes sheets. Any panic is answered with the failure outcome.
func (s *Service) run(ctx context.Context, requestID string, sheets []types.Sheet, failure Outcome) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "summarization panicked",
				slog.String("request_id", requestID),
				slog.Any("panic", r))
			resp = informational(requestID, failure)
		}
	}()

	summary, err := Summarize(sheets, aggregator.WithClassifier(s.classifier))
	if err != nil {
		s.logger.DebugContext(ctx, "no summary produced",
			slog.String("request_id", requestID),
			slog.String("reason", err.Error()))
		return informational(requestID, outcomeOf(err, failure))
	}

	for _, w := range summary.Warnings {
		s.logger.DebugContext(ctx, "input warning",
			slog.String("request_id", requestID),
			slog.String("code", string(w.Code)),
			slog.String("sheet", w.Sheet),
			slog.String("detail", w.Message))
	}

	display := report.Display(summary.Groups(), s.formatter)

	return &Response{
		RequestID:   requestID,
		Type:        TypeTable,
		Outcome:     OutcomeOK,
		Rows:        display.Rows,
		GrandTotals: display.GrandTotals,
		Groups:      summary.Groups(),
		Warnings:    summary.Warnings,
	}
}

func (s *Service) finish(ctx context.Context, resp *Response, source string, start time.Time) *Response {
	s.logger.InfoContext(ctx, "summary request completed",
		slog.String("request_id", resp.RequestID),
		slog.String("source", source),
		slog.String("outcome", string(resp.Outcome)),
		slog.Int("groups", len(resp.Groups)),
		slog.Int("warnings", len(resp.Warnings)),
		slog.Duration("duration", time.Since(start)))
	return resp
}

// =============================================================================
// REQUEST IDS
// =============================================================================

type requestIDKey struct{}

// ContextWithRequestID attaches a request ID to ctx. Requests without one get
// a fresh UUID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFrom(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
			return id
		}
	}
	return uuid.NewString()
}

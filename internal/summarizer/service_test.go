package summarizer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/net-sales-summarizer/internal/csvparser"
	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
	"github.com/ginjaninja78/net-sales-summarizer/internal/xlsxparser"
)

const ledgerText = "کد تنوع,شرح تنوع,بدهکار,بستانکار,تعداد\nDKPC001,گوشی,100,500,2\nDKPC001,,0,0,3"

func newTestService(t *testing.T, logs *bytes.Buffer) *Service {
	t.Helper()
	f, err := report.NewFormatter("en", " R")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithLogger(logger), WithFormatter(f))
}

func workbook(t *testing.T, sheets map[string][][]any, order ...string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestSummarizeText_OtherSheetHasNoCounts(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	resp := svc.SummarizeText(context.Background(), ledgerText)

	// pasted text becomes "Sheet1", which is not a sales sheet
	require.Equal(t, OutcomeOK, resp.Outcome)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, 0.0, resp.Groups[0].NetCount)
	assert.Equal(t, 400.0, resp.Groups[0].TotalRevenue)
	assert.Equal(t, 0.0, resp.Groups[0].RevenuePerUnit)
	assert.NoError(t, resp.Err())
}

func TestSummarizeSheets_Table(t *testing.T) {
	var logs bytes.Buffer
	svc := New(
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithFormatter(mustFormatter(t)),
	)

	sheets := csvTextSheets(t, "فروش", ledgerText)
	resp := svc.SummarizeSheets(context.Background(), sheets)

	require.Equal(t, OutcomeOK, resp.Outcome)
	assert.Equal(t, TypeTable, resp.Type)
	assert.True(t, resp.HasTable())
	assert.Empty(t, resp.Content)

	require.Len(t, resp.Groups, 1)
	g := resp.Groups[0]
	assert.Equal(t, "DKPC001", g.VarietyCode)
	assert.Equal(t, "گوشی", g.VarietyDesc)
	assert.Equal(t, 5.0, g.CountSale)
	assert.Equal(t, 80.0, g.RevenuePerUnit)

	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "DKPC001", resp.Rows[0].Group)
	assert.Equal(t, report.Detail{Label: report.LabelTotalRevenue, Value: "400 R", Highlight: true}, resp.Rows[0].Details[1])
	assert.Equal(t, report.Total{Label: report.LabelGrandNetCount, Value: "5"}, resp.GrandTotals[0])

	_, err := uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "outcome=ok")
	assert.Contains(t, logs.String(), "request_id="+resp.RequestID)
}

func TestSummarizeText_EmptyInput(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	for _, text := range []string{"", "  \n ", "کد تنوع,بدهکار"} {
		resp := svc.SummarizeText(context.Background(), text)

		assert.Equal(t, OutcomeEmptyInput, resp.Outcome, "text %q", text)
		assert.Equal(t, TypeText, resp.Type)
		assert.Equal(t, MessageEmptyInput, resp.Content)
		assert.ErrorIs(t, resp.Err(), ErrEmptyInput)
	}
}

func TestSummarizeText_NoQualifyingRows(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	resp := svc.SummarizeText(context.Background(), "کد,تعداد\nSKU-1,2\nSKU-2,3")

	assert.Equal(t, OutcomeNoQualifyingRows, resp.Outcome)
	assert.Equal(t, MessageNoQualifyingRows, resp.Content)
	assert.Empty(t, resp.Rows)
	assert.ErrorIs(t, resp.Err(), ErrNoQualifyingRows)
}

func TestSummarizeWorkbook(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	r := workbook(t, map[string][][]any{
		"فروش":          {{"کد تنوع", "بستانکار", "تعداد"}, {"DKPC001", 1000, 4}, {"SKU", 1, 1}},
		"برگشت از فروش": {{"کد تنوع", "بدهکار", "تعداد"}, {"DKPC001", 250, 1}},
	}, "فروش", "برگشت از فروش")

	resp := svc.SummarizeWorkbook(context.Background(), r)

	require.Equal(t, OutcomeOK, resp.Outcome)
	require.Len(t, resp.Groups, 1)
	g := resp.Groups[0]
	assert.Equal(t, 3.0, g.NetCount)
	assert.Equal(t, 750.0, g.TotalRevenue)
	assert.Equal(t, 250.0, g.RevenuePerUnit)
	assert.Contains(t, logs.String(), "source=workbook")
}

func TestSummarizeWorkbook_DecodingFailure(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	resp := svc.SummarizeWorkbook(context.Background(), strings.NewReader("not a workbook"))

	assert.Equal(t, OutcomeDecodingFailure, resp.Outcome)
	assert.Equal(t, MessageDecodingFailure, resp.Content)
	assert.ErrorIs(t, resp.Err(), xlsxparser.ErrDecode)
}

func TestSummarizeWorkbook_OnlyEmptySheets(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	r := workbook(t, map[string][][]any{}, "فروش")

	resp := svc.SummarizeWorkbook(context.Background(), r)

	assert.Equal(t, OutcomeEmptyInput, resp.Outcome)
}

func TestSummarizeSheets_ZeroSheets(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	resp := svc.SummarizeSheets(context.Background(), nil)

	assert.Equal(t, OutcomeEmptyInput, resp.Outcome)
	assert.Equal(t, TypeText, resp.Type)
}

type explodingCell struct{}

func (explodingCell) String() string { panic("boom") }

func TestSummarizeSheets_PanicBecomesMalformedText(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	sheets := []types.Sheet{{
		Name:    "فروش",
		Headers: []string{"کد", "بدهکار"},
		Rows:    []types.Row{{"کد": "DKPC1", "بدهکار": explodingCell{}}},
	}}

	resp := svc.SummarizeSheets(context.Background(), sheets)

	assert.Equal(t, OutcomeMalformedText, resp.Outcome)
	assert.Equal(t, MessageMalformedText, resp.Content)
	assert.Contains(t, logs.String(), "summarization panicked")
}

func TestRequestIDFromContext(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(t, &logs)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	resp := svc.SummarizeText(ctx, "")

	assert.Equal(t, "req-42", resp.RequestID)
}

func TestSummarize(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Summarize(csvTextSheets(t, "فروش", "کد,تعداد\nX1,1"))
	assert.ErrorIs(t, err, ErrNoQualifyingRows)

	summary, err := Summarize(csvTextSheets(t, "فروش", "کد,تعداد\nDKPC1,1\ndkpc1,1"))
	require.NoError(t, err)
	assert.Len(t, summary.Groups(), 2)
	require.Len(t, summary.Warnings, 2)
	assert.Equal(t, "case_split_group", string(summary.Warnings[1].Code))
}

func TestSummarizeTextReader(t *testing.T) {
	svc := newTestService(t, &bytes.Buffer{})

	resp, err := svc.SummarizeTextReader(context.Background(), strings.NewReader("\uFEFF"+ledgerText))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "DKPC001", resp.Groups[0].VarietyCode)

	resp, err = svc.SummarizeTextReader(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmptyInput, resp.Outcome)

	_, err = svc.SummarizeTextReader(context.Background(), iotest.ErrReader(errors.New("boom")))
	assert.ErrorContains(t, err, "boom")
}

func TestExport(t *testing.T) {
	svc := New()
	summary, err := Summarize(csvTextSheets(t, "فروش", ledgerText))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(&buf, summary.Groups()))

	sheets, err := xlsxparser.ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Rows, 1)
	assert.Equal(t, "DKPC001", sheets[0].Rows[0]["کد تنوع"])
	assert.Equal(t, "80", sheets[0].Rows[0]["درآمد واحد (﷼)"])
}

func TestExportFile(t *testing.T) {
	svc := New()
	summary, err := Summarize(csvTextSheets(t, "فروش", ledgerText))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, svc.ExportFile(path, summary.Groups()))

	sheets, err := xlsxparser.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "DKPC001", sheets[0].Rows[0]["کد تنوع"])

	err = svc.ExportFile(filepath.Join(t.TempDir(), "missing", "summary.xlsx"), summary.Groups())
	assert.ErrorContains(t, err, "failed to export summary")
}

func mustFormatter(t *testing.T) *report.Formatter {
	t.Helper()
	f, err := report.NewFormatter("en", " R")
	require.NoError(t, err)
	return f
}

func csvTextSheets(t *testing.T, name, text string) []types.Sheet {
	t.Helper()
	sheets := csvparser.ParseText(text)
	require.Len(t, sheets, 1)
	sheets[0].Name = name
	return sheets
}

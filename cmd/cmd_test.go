package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
	"github.com/ginjaninja78/net-sales-summarizer/internal/summarizer"
	"github.com/ginjaninja78/net-sales-summarizer/internal/xlsxparser"
)

const ledgerText = "کد تنوع,شرح تنوع,بدهکار,بستانکار,تعداد\nDKPC001,گوشی,100,500,2"

// run executes the CLI in a fresh working directory.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Net Sales Summarizer")
	assert.Contains(t, out, "Version:    "+Version)
}

func TestSummarize_TextJSON(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "", "--locale", "en", "summarize", "--text", ledgerText, "--format", "json")
	require.NoError(t, err)

	var resp summarizer.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, summarizer.OutcomeOK, resp.Outcome)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "DKPC001", resp.Groups[0].VarietyCode)
	assert.Equal(t, 400.0, resp.Groups[0].TotalRevenue)
}

func TestSummarize_EmptyTextIsAnAnswer(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "", "summarize", "--text", "")

	require.NoError(t, err)
	assert.Contains(t, out, summarizer.MessageEmptyInput)
}

func TestSummarize_FileTable(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "ledger.csv", ledgerText)

	out, _, err := run(t, "", "--locale", "en", "summarize", "ledger.csv")
	require.NoError(t, err)

	assert.Contains(t, out, "=== ledger.csv ===")
	assert.Contains(t, out, "DKPC001")
	assert.Contains(t, out, "* "+report.LabelTotalRevenue)
	assert.Contains(t, out, report.LabelGrandNetCount)
}

func TestSummarize_StdinYAML(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, ledgerText, "summarize", "-", "--format", "yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "outcome: ok")
	assert.Contains(t, out, "variety_code: DKPC001")
}

func TestSummarize_WorkbookExport(t *testing.T) {
	t.Chdir(t.TempDir())

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "فروش"))
	require.NoError(t, f.SetSheetRow("فروش", "A1", &[]any{"کد تنوع", "بستانکار", "تعداد"}))
	require.NoError(t, f.SetSheetRow("فروش", "A2", &[]any{"DKPC9", 600, 2}))
	require.NoError(t, f.SaveAs("march.xlsx"))
	require.NoError(t, f.Close())

	_, _, err := run(t, "", "summarize", "march.xlsx", "--export", "--output-dir", "exports", "--format", "json")
	require.NoError(t, err)

	sheets, err := xlsxparser.ParseFile(filepath.Join("exports", report.DefaultExportFileName))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Rows, 1)
	assert.Equal(t, "DKPC9", sheets[0].Rows[0]["کد تنوع"])
	assert.Equal(t, "300", sheets[0].Rows[0]["درآمد واحد (﷼)"])
}

func TestSummarize_NoExportWithoutGroups(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "", "summarize", "--text", "کد,تعداد\nSKU,1", "--export")

	require.NoError(t, err)
	assert.Contains(t, out, summarizer.MessageNoQualifyingRows)
	_, statErr := os.Stat(filepath.Join("output", report.DefaultExportFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSummarize_DiscoversInputDir(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "config.yaml", "input_dir: ledgers\nlocale: en\n")
	writeFile(t, filepath.Join("ledgers", "a.csv"), ledgerText)
	writeFile(t, filepath.Join("ledgers", "notes.md"), "ignored")

	out, _, err := run(t, "", "summarize")

	require.NoError(t, err)
	assert.Contains(t, out, "=== "+filepath.Join("ledgers", "a.csv")+" ===")
	assert.NotContains(t, out, "notes.md")
}

func TestSummarize_EmptyInputDir(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("input", 0o755))

	out, _, err := run(t, "", "summarize")

	require.NoError(t, err)
	assert.Contains(t, out, "No ledger files found")
}

func TestSummarize_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NETSALES_LOCALE", "en")

	out, _, err := run(t, "", "summarize", "--text", ledgerText)

	require.NoError(t, err)
	assert.Contains(t, out, "400"+report.DefaultCurrencySuffix)
}

func TestSummarize_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"summarize", "--text", "x", "--format", "xml"}},
		{"text with files", []string{"summarize", "--text", "x", "a.csv"}},
		{"log level", []string{"--log-level", "loud", "summarize", "--text", "x"}},
		{"missing file", []string{"summarize", "missing.csv"}},
		{"missing config", []string{"--config", "nope.yaml", "version"}},
		{"stdin twice", []string{"summarize", "-", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, _, err := run(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSummarize_VerboseLogsDebug(t *testing.T) {
	t.Chdir(t.TempDir())

	_, logs, err := run(t, "", "-v", "summarize", "--text", "کد,تعداد\nDKPC1,1\ndkpc1,1")

	require.NoError(t, err)
	assert.Contains(t, logs, "level=DEBUG")
	assert.Contains(t, logs, "case_split_group")
	assert.Contains(t, logs, "sheet rule")
}

func TestSummarize_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, set := os.LookupEnv("NETSALES_LOCALE"); set {
		t.Skip("NETSALES_LOCALE is set in the environment")
	}
	t.Cleanup(func() { os.Unsetenv("NETSALES_LOCALE") })
	writeFile(t, ".env", "NETSALES_LOCALE=en\n")

	out, _, err := run(t, "", "summarize", "--text", ledgerText)

	require.NoError(t, err)
	assert.Contains(t, out, "400"+report.DefaultCurrencySuffix)
}

func TestSummarize_ManyFilesKeepArgumentOrder(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "b.csv", ledgerText)
	writeFile(t, "a.csv", "کد,تعداد\nSKU,1")
	writeFile(t, "c.txt", "")

	out, _, err := run(t, "", "summarize", "b.csv", "a.csv", "c.txt")
	require.NoError(t, err)

	b := strings.Index(out, "=== b.csv ===")
	a := strings.Index(out, "=== a.csv ===")
	c := strings.Index(out, "=== c.txt ===")
	require.True(t, b >= 0 && a >= 0 && c >= 0, out)
	assert.Less(t, b, a)
	assert.Less(t, a, c)
	assert.Contains(t, out, summarizer.MessageNoQualifyingRows)
	assert.Contains(t, out, summarizer.MessageEmptyInput)
}

func TestSummarize_TableListsWarnings(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "", "summarize", "--text", "کد,تعداد\nDKPC1,1\ndkpc1,1")

	require.NoError(t, err)
	assert.Contains(t, out, "Summary completed with")
	assert.Contains(t, out, "1. ")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/net-sales-summarizer/internal/classifier"
	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMainConfig(t *testing.T) {
	path := writeConfig(t, `
input_dir: ./ledgers
locale: en
log_format: json
max_upload_bytes: 2048
sheet_rules:
  - category: return_sale
    contains: ["Refunds"]
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./ledgers", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, report.DefaultExportFileName, cfg.ExportFileName)
	require.Len(t, cfg.SheetRules, 1)

	assert.Equal(t, classifier.ReturnSale, cfg.Classifier().Classify("Refunds March"))
	assert.Equal(t, classifier.Sale, cfg.Classifier().Classify("فروش"))
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "log_level: loud"},
		{"log format", "log_format: xml"},
		{"locale", "locale: not a locale"},
		{"export name", "export_file_name: summary.csv"},
		{"rule category", "sheet_rules:\n  - category: refund\n    contains: [x]"},
		{"rule patterns", "sheet_rules:\n  - category: sale"},
		{"yaml", "input_dir: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, report.DefaultLocale, cfg.Locale)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	v := viper.New()
	v.Set(KeyLocale, "en")
	v.Set(KeyLogLevel, "debug")
	v.Set(KeyMaxUploadBytes, 512)

	require.NoError(t, cfg.ApplyOverrides(v))

	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(512), cfg.MaxUploadBytes)
	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "en", cfg.Formatter().Locale())
}

func TestApplyOverrides_Env(t *testing.T) {
	t.Setenv("NETSALES_OUTPUT_DIR", "/tmp/summaries")

	cfg := Default()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	require.NoError(t, cfg.ApplyOverrides(v))
	assert.Equal(t, "/tmp/summaries", cfg.OutputDir)
}

func TestApplyOverrides_Invalid(t *testing.T) {
	cfg := Default()
	v := viper.New()
	v.Set(KeyLogFormat, "xml")

	assert.Error(t, cfg.ApplyOverrides(v))
}

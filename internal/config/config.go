// =============================================================================
// Net Sales Summarizer - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults
//   2. Main config file (config.yaml)
//   3. Environment variables (NETSALES_*) and command-line flags, bound
//      through viper by the CLI
//
// A missing DEFAULT config file is not an error; the defaults are used.
// A missing file that was asked for explicitly is an error.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/net-sales-summarizer/internal/classifier"
	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
)

// DefaultConfigFile is the config file looked up when none is given.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "NETSALES"

// Config keys. They double as viper keys for flag and env overrides.
const (
	KeyInputDir       = "input_dir"
	KeyOutputDir      = "output_dir"
	KeyExportFileName = "export_file_name"
	KeyLocale         = "locale"
	KeyCurrencySuffix = "currency_suffix"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyHTTPAddr       = "http_addr"
	KeyMaxUploadBytes = "max_upload_bytes"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for ledger files when `summarize` gets no arguments.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives exported summary workbooks.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ExportFileName is the name pattern of exported workbooks.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//
	// Default: "invoice_net_sales_summary.xlsx"
	ExportFileName string `yaml:"export_file_name"`

	// Locale drives digits and grouping of displayed numbers (BCP 47).
	// Default: "fa-IR"
	Locale string `yaml:"locale"`

	// CurrencySuffix is appended to displayed currency amounts.
	// Default: " ﷼"
	CurrencySuffix string `yaml:"currency_suffix"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the slog handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// HTTP SETTINGS
	// =========================================================================

	// HTTPAddr is the listen address of `serve`.
	// Default: ":8080"
	HTTPAddr string `yaml:"http_addr"`

	// MaxUploadBytes caps request bodies of the HTTP API.
	// Default: 10 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// =========================================================================
	// CLASSIFICATION SETTINGS
	// =========================================================================

	// SheetRules are extra sheet-name rules, checked in order BEFORE the
	// built-in rules. The built-in rules always stay in effect.
	SheetRules []SheetRule `yaml:"sheet_rules"`
}

// SheetRule assigns a category to sheets whose name contains any pattern.
//
// Example:
//
//	sheet_rules:
//	  - category: sale
//	    contains: ["sales", "فروش آنلاین"]
type SheetRule struct {
	Category string   `yaml:"category"`
	Contains []string `yaml:"contains"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig reads, defaults and validates the main configuration file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Load is LoadMainConfig with a fallback: when configPath is the default file
// and it does not exist, the built-in defaults are returned.
func Load(configPath string) (*MainConfig, error) {
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	config, err := LoadMainConfig(configPath)
	if err != nil && configPath == DefaultConfigFile && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// Default returns the built-in configuration.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ExportFileName == "" {
		config.ExportFileName = report.DefaultExportFileName
	}
	if config.Locale == "" {
		config.Locale = report.DefaultLocale
	}
	if config.CurrencySuffix == "" {
		config.CurrencySuffix = report.DefaultCurrencySuffix
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}
	if config.MaxUploadBytes == 0 {
		config.MaxUploadBytes = 10 << 20
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	if _, err := report.NewFormatter(config.Locale, config.CurrencySuffix); err != nil {
		return err
	}

	if !strings.EqualFold(filepath.Ext(config.ExportFileName), ".xlsx") {
		return fmt.Errorf("export file name must end in .xlsx: %s", config.ExportFileName)
	}

	if config.MaxUploadBytes < 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", config.MaxUploadBytes)
	}

	for i, rule := range config.SheetRules {
		if !classifier.Category(rule.Category).Valid() {
			return fmt.Errorf("sheet rule %d: unknown category %q", i+1, rule.Category)
		}
		if len(rule.Contains) == 0 {
			return fmt.Errorf("sheet rule %d: no patterns", i+1)
		}
	}

	return nil
}

// =============================================================================
// OVERRIDES
// =============================================================================

// ApplyOverrides copies every key that v has explicitly set (flag or env)
// over the file values, then re-validates.
func (c *MainConfig) ApplyOverrides(v *viper.Viper) error {
	stringKeys := map[string]*string{
		KeyInputDir:       &c.InputDir,
		KeyOutputDir:      &c.OutputDir,
		KeyExportFileName: &c.ExportFileName,
		KeyLocale:         &c.Locale,
		KeyCurrencySuffix: &c.CurrencySuffix,
		KeyLogLevel:       &c.LogLevel,
		KeyLogFormat:      &c.LogFormat,
		KeyHTTPAddr:       &c.HTTPAddr,
	}
	for key, field := range stringKeys {
		if v.IsSet(key) {
			if value := v.GetString(key); value != "" {
				*field = value
			}
		}
	}

	if v.IsSet(KeyMaxUploadBytes) {
		if value := v.GetInt64(KeyMaxUploadBytes); value != 0 {
			c.MaxUploadBytes = value
		}
	}

	if err := validateMainConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// =============================================================================
// DERIVED OBJECTS
// =============================================================================

// Classifier builds the sheet classifier with the configured extra rules.
func (c *MainConfig) Classifier() *classifier.Classifier {
	rules := make([]classifier.Rule, len(c.SheetRules))
	for i, r := range c.SheetRules {
		rules[i] = classifier.Rule{Contains: r.Contains, Category: classifier.Category(r.Category)}
	}
	return classifier.New(rules)
}

// Formatter builds the display formatter. The config was validated on load,
// so an invalid locale falls back to the default formatter.
func (c *MainConfig) Formatter() *report.Formatter {
	f, err := report.NewFormatter(c.Locale, c.CurrencySuffix)
	if err != nil {
		return report.DefaultFormatter()
	}
	return f
}

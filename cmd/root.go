// =============================================================================
// Net Sales Summarizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   netsales
//   ├── summarize  (netsales summarize [files...])
//   ├── serve      (netsales serve)
//   └── version    (netsales version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Loading .env and config.yaml, and applying flag/env overrides
//      through viper
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/net-sales-summarizer/internal/config"
	"github.com/ginjaninja78/net-sales-summarizer/internal/summarizer"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// app is the state shared by the commands of one CLI invocation.
type app struct {
	// settings collects flag and NETSALES_* environment overrides.
	settings *viper.Viper

	// cfgFile holds the path to the main configuration file.
	cfgFile string

	// verbose forces debug logging.
	verbose bool

	// config is loaded by the root command before any subcommand runs.
	config *config.MainConfig

	logger *slog.Logger
}

// service builds the summarizer from the loaded configuration.
func (a *app) service() *summarizer.Service {
	c := a.config.Classifier()
	for _, rule := range c.Rules() {
		a.logger.Debug("sheet rule",
			slog.String("category", string(rule.Category)),
			slog.Any("contains", rule.Contains))
	}

	return summarizer.New(
		summarizer.WithLogger(a.logger),
		summarizer.WithClassifier(c),
		summarizer.WithFormatter(a.config.Formatter()),
	)
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{settings: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "netsales",
		Short: "Net Sales Summarizer - Net sales per DKPC variety from accounting ledgers",
		Long: `Net Sales Summarizer reads Persian accounting ledgers (pasted text or XLSX
workbooks), keeps the rows whose variety code starts with DKPC, and reports
net units sold and net revenue per variety.

Sheets are classified by name into sales, credit sales, returns and credit
returns. Net count is sales plus credit sales minus both kinds of returns.
Net revenue is the creditor total minus the debtor total.

Example Usage:
  netsales summarize ledger.xlsx            # Summarize a workbook
  netsales summarize --text "$(pbpaste)"    # Summarize pasted text
  netsales summarize --export               # Summarize and export every input file
  netsales serve --addr :9090               # Start the HTTP API`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},

		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", config.DefaultConfigFile, "Path to the main configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("locale", "", "Locale of displayed numbers (default fa-IR)")

	_ = a.settings.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.settings.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.settings.BindPFlag(config.KeyLocale, flags.Lookup("locale"))

	rootCmd.AddCommand(newSummarizeCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// initConfig loads the configuration file, applies flag and environment
// overrides, and sets up logging. Variables in ./.env are added to the
// environment first; variables already set win.
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	a.settings.SetEnvPrefix(config.EnvPrefix)
	a.settings.AutomaticEnv()

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	if err := cfg.ApplyOverrides(a.settings); err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := setupLogging(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.SetDefault(logger)

	a.config = cfg
	a.logger = logger
	return nil
}

// setupLogging builds the slog logger for the configured level and format.
func setupLogging(level, format string, w io.Writer) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return slog.New(handler), nil
}

// =============================================================================
// Net Sales Summarizer - Summarize Command
// =============================================================================
//
// This file defines the 'summarize' command, the main command of the CLI.
//
// COMMAND USAGE:
//   netsales summarize [files...] [flags]
//
// INPUTS (each one is an independent request, summarized concurrently):
//   - *.xlsx     : summarized as a workbook
//   - any file   : read and summarized as pasted text
//   - "-"        : text read from stdin
//   - --text     : inline text
//   - no inputs  : every supported file in the configured input directory
//
// FLAGS:
//   --format      : table (default), json or yaml
//   --export      : also write the summary workbook to the output directory
//   --output-dir  : override the output directory
//
// Informational answers (no data, no DKPC rows, unreadable workbook) are
// printed like any other answer. Only usage, config and I/O errors make the
// command fail.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/net-sales-summarizer/internal/config"
	"github.com/ginjaninja78/net-sales-summarizer/internal/summarizer"
	"github.com/ginjaninja78/net-sales-summarizer/pkg/utils"
)

// stdinInput is the argument that reads text from stdin.
const stdinInput = "-"

// summarizeOptions holds the local flags of the summarize command.
type summarizeOptions struct {
	text   string
	format string
	export bool
}

func newSummarizeCmd(a *app) *cobra.Command {
	var opts summarizeOptions

	summarizeCmd := &cobra.Command{
		Use:   "summarize [files...]",
		Short: "Summarize net sales per DKPC variety",
		Long: `The summarize command reads ledgers and prints net units and net revenue per
DKPC variety code.

XLSX files are read sheet by sheet; every other file, and "-" for stdin, is
read as pasted text. Without arguments, every supported file in the input
directory is summarized.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(opts.format) {
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", opts.format)
			}
			if cmd.Flags().Changed("text") && len(args) > 0 {
				return fmt.Errorf("--text cannot be combined with file arguments")
			}
			if countStdin(args) > 1 {
				return fmt.Errorf("stdin (%q) can only be read once", stdinInput)
			}
			return runSummarize(cmd, a, opts, args)
		},
	}

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	flags := summarizeCmd.Flags()
	flags.StringVar(&opts.text, "text", "", "Summarize this text instead of files")
	flags.StringVarP(&opts.format, "format", "f", formatTable, "Output format (table, json, yaml)")
	flags.BoolVar(&opts.export, "export", false, "Write the summary workbook to the output directory")
	flags.String("output-dir", "", "Directory of exported workbooks (default ./output)")

	_ = a.settings.BindPFlag(config.KeyOutputDir, flags.Lookup("output-dir"))

	return summarizeCmd
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runSummarize(cmd *cobra.Command, a *app, opts summarizeOptions, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc := a.service()
	fm := utils.NewFileManager(a.config.InputDir, a.config.OutputDir)
	out := cmd.OutOrStdout()

	// =========================================================================
	// INLINE TEXT
	// =========================================================================

	if cmd.Flags().Changed("text") {
		resp := svc.SummarizeText(ctx, opts.text)
		return emit(out, a, svc, fm, opts, "text", resp)
	}

	// =========================================================================
	// DISCOVER INPUT FILES
	// =========================================================================

	inputs := args
	if len(inputs) == 0 {
		files, err := fm.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		if len(files) == 0 {
			fmt.Fprintf(out, "No ledger files found in %s\n", a.config.InputDir)
			return nil
		}
		a.logger.Info("discovered input files",
			slog.String("input_dir", a.config.InputDir),
			slog.Int("count", len(files)))
		inputs = files
	}

	// =========================================================================
	// PROCESS EACH INPUT
	// =========================================================================

	// Inputs are summarized concurrently and printed in argument order.
	responses := make([]*summarizer.Response, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, input := range inputs {
		g.Go(func() error {
			resp, err := summarizeInput(gctx, svc, input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, input := range inputs {
		if err := emit(out, a, svc, fm, opts, input, responses[i]); err != nil {
			return err
		}
	}

	return nil
}

func countStdin(args []string) int {
	n := 0
	for _, arg := range args {
		if arg == stdinInput {
			n++
		}
	}
	return n
}

// summarizeInput answers one input argument.
func summarizeInput(ctx context.Context, svc *summarizer.Service, input string, stdin io.Reader) (*summarizer.Response, error) {
	if input == stdinInput {
		resp, err := svc.SummarizeTextReader(ctx, stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return resp, nil
	}

	file, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	if utils.IsWorkbook(input) {
		return svc.SummarizeWorkbook(ctx, file), nil
	}

	resp, err := svc.SummarizeTextReader(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", input, err)
	}
	return resp, nil
}

// emit prints a response and, with --export, writes its workbook.
func emit(out io.Writer, a *app, svc *summarizer.Service, fm *utils.FileManager, opts summarizeOptions, source string, resp *summarizer.Response) error {
	if err := writeResponse(out, opts.format, source, resp); err != nil {
		return err
	}

	if !opts.export || !resp.HasTable() {
		return nil
	}

	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	path := fm.ExportPath(a.config.ExportFileName, source)
	if utils.FileExists(path) {
		a.logger.Warn("overwriting existing export",
			slog.String("source", source),
			slog.String("path", path))
	}
	if err := svc.ExportFile(path, resp.Groups); err != nil {
		return err
	}

	a.logger.Info("summary exported",
		slog.String("request_id", resp.RequestID),
		slog.String("source", source),
		slog.String("path", path))
	if opts.format == formatTable {
		fmt.Fprintf(out, "✓ %s -> %s\n", filepath.Base(source), path)
	}
	return nil
}

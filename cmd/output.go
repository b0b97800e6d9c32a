package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/net-sales-summarizer/internal/summarizer"
	"github.com/ginjaninja78/net-sales-summarizer/internal/validation"
)

// Output formats of the summarize command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(format string) bool {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

// writeResponse prints resp in the requested format.
func writeResponse(w io.Writer, format, source string, resp *summarizer.Response) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		return nil

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		return enc.Close()

	default:
		return writeTable(w, source, resp)
	}
}

// writeTable prints one block per variety, then the grand totals and any
// warnings. Highlighted details are marked with '*'.
func writeTable(w io.Writer, source string, resp *summarizer.Response) error {
	fmt.Fprintf(w, "=== %s ===\n", source)

	if !resp.HasTable() {
		fmt.Fprintln(w, resp.Content)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range resp.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Group, row.Desc)
		for _, d := range row.Details {
			marker := " "
			if d.Highlight {
				marker = "*"
			}
			fmt.Fprintf(tw, "  %s %s\t%s\n", marker, d.Label, d.Value)
		}
		fmt.Fprintln(tw)
	}
	for _, total := range resp.GrandTotals {
		fmt.Fprintf(tw, "%s\t%s\n", total.Label, total.Value)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	if len(resp.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, validation.FormatWarnings(resp.Warnings))
	}
	return nil
}

// =============================================================================
// Net Sales Summarizer - Main Entry Point
// =============================================================================
//
// USAGE:
//   netsales summarize [files...]  - Summarize ledgers (text or XLSX)
//   netsales serve                 - Start the HTTP API
//   netsales version               - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, aggregation, reporting and the HTTP API
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/net-sales-summarizer/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

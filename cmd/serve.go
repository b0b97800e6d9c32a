package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/net-sales-summarizer/internal/config"
	"github.com/ginjaninja78/net-sales-summarizer/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Summaries are served under /api/v1, metrics under
/metrics. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(a.service(), server.Options{
				MaxUploadBytes: a.config.MaxUploadBytes,
				ExportFileName: a.config.ExportFileName,
				Version:        Version,
				Logger:         a.logger,
			})
			return srv.ListenAndServe(cmd.Context(), a.config.HTTPAddr)
		},
	}

	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = a.settings.BindPFlag(config.KeyHTTPAddr, serveCmd.Flags().Lookup("addr"))

	return serveCmd
}

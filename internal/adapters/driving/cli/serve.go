package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/adapters/driving/api"
	"github.com/custodia-labs/recall/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API on server.listen (default :8000).

Endpoints:
  POST /ingest        {"content": "..."} or {"url": "..."}
  GET  /items         stored items, newest first
  GET  /items/:id     one item
  POST /query         {"question": "..."}
  POST /admin/reset   {"api_key": "..."}
  GET  /healthz       ?deep=1 also pings the AI providers
  GET  /metrics       prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.listen)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := api.NewServer(&api.Ports{
		Ingest:  ingestService,
		Query:   queryService,
		Items:   itemService,
		Admin:   adminService,
		Metrics: metricsHandler,
		Check:   checkProviders,
	})
	if err != nil {
		return err
	}

	addr := resolveAddr(serveAddr, listenAddr)
	printWarnings(cmd)
	cmd.Printf("HTTP API listening on %s\n", addr)

	if err := server.Run(cmd.Context(), addr); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// resolveAddr prefers the flag, then the configured address, then the default.
func resolveAddr(flag, configured string) string {
	switch {
	case flag != "":
		return flag
	case configured != "":
		return configured
	default:
		return domain.DefaultListen
	}
}

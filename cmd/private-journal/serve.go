// ABOUTME: HTTP server command for private-journal.
// ABOUTME: Serves the journal API and Prometheus metrics until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/private-journal/internal/httpapi"
	"github.com/2389-research/private-journal/internal/metrics"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP API over the journal.

Routes: POST /entries, POST /thoughts, GET /search, GET /recent,
GET /entry, GET /healthz, and GET /metrics for Prometheus.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, else 127.0.0.1:8787)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics.Register()

	addr := serveAddr
	if addr == "" {
		addr = globalConfig.ServerAddr()
	}

	server, err := httpapi.NewServer(globalJournal, globalSearch, httpapi.WithLogger(globalLogger))
	if err != nil {
		return err
	}
	return server.ListenAndServe(ctx, addr)
}

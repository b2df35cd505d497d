// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-assessor/internal/pipeline"
	"github.com/pdiddy/paper-assessor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment over HTTP",
	Long: `Serve accepts PDF uploads at POST /api/assess (multipart field "file") and
answers with the report as JSON. GET /healthz reports liveness. The server
shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	serverCfg := cfg.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		serverCfg.Addr = addr
	}

	p, err := pipeline.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	return server.New(p, serverCfg, server.WithLogger(logger.Named("server"))).ListenAndServe(cmd.Context())
}

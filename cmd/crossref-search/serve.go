// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crossref-search/internal/config"
	"github.com/pdiddy/crossref-search/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and export over HTTP",
	Long: `Serve starts the HTTP API: /search, /export/csv, /export/xlsx,
/export/bibtex, /healthz and /metrics. It shuts down gracefully on SIGINT or
SIGTERM and releases the shared outbound connection pool.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides PORT)")
	_ = viper.BindPFlag(config.KeyPort, serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	srv, err := server.New(appConfig, server.Deps{
		Searcher:      a.search,
		Bibliographer: a.exporter,
		Outbound:      a.outbound,
		Logger:        appLog,
	})
	if err != nil {
		a.Close()
		return err
	}
	return srv.Run(cmd.Context())
}

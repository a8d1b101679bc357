// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the crossref-search CLI: search
// Crossref, export results as CSV, XLSX, CSL-YAML or BibTeX, and serve the
// same operations over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crossref-search/internal/config"
	"github.com/pdiddy/crossref-search/internal/logger"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Resolved at startup by PersistentPreRunE.
var (
	appConfig types.Config
	appLog    logger.Logger = logger.NewNop()
)

// rootCmd is the base command for the crossref-search CLI.
var rootCmd = &cobra.Command{
	Use:   "crossref-search",
	Short: "Search Crossref and export bibliographic records",
	Long: `crossref-search queries the Crossref REST API with date, type and abstract
filters, normalizes the returned works, and exports them as CSV, XLSX,
CSL-YAML or BibTeX. The serve subcommand exposes the same operations over
HTTP with Prometheus metrics and per-client rate limits.

Configuration comes from the environment (APP_MAILTO, APP_USER_AGENT,
CROSSREF_TIMEOUT, MAX_RETRIES, ...), a .env file, an optional
crossref-search.yaml, and .secrets/crossref-mailto.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(viper.GetViper(), config.Options{ConfigFile: cfgFile})
		if err != nil {
			return err
		}
		appConfig = cfg

		log, err := logger.New(logger.Config{Level: cfg.Logging.Level, File: cfg.Logging.File})
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		appLog = log
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = appLog.Sync()
	},
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./crossref-search.yaml or ~/.config/crossref-search/crossref-search.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

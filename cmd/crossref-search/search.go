// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crossref-search/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search Crossref for works",
	Long: `Search queries the Crossref works API for records matching the query and
filters, following result cursors until --max-results records are collected
or the results run out. Records that cannot be normalized are skipped.`,
	RunE: runSearch,
}

func init() {
	addFilterFlags(searchCmd)
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters, err := filtersFromFlags(cmd, args)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.search.Search(cmd.Context(), filters)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(res, os.Stdout)
	}
	search.FormatTable(res, os.Stdout)
	return nil
}

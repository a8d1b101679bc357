// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crossref-search/internal/search"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// addFilterFlags registers the search filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	d := types.DefaultFilters("")
	cmd.Flags().String("filters", "", "YAML filter preset; explicit flags override its values")
	cmd.Flags().String("from", d.FromDate, "earliest publication date (YYYY-MM-DD)")
	cmd.Flags().String("until", d.UntilDate, "latest publication date (YYYY-MM-DD)")
	cmd.Flags().String("type", d.ContentType, "content type: journal-article, proceedings-article, book-chapter")
	cmd.Flags().Bool("has-abstract", d.HasAbstract, "only return works with an abstract")
	cmd.Flags().Int("rows", d.Rows, "page size per Crossref request (1-100)")
	cmd.Flags().Int("max-results", d.MaxResults, "maximum number of results (1-500)")
	cmd.Flags().String("sort", d.Sort, "sort order: relevance, published")
}

// filtersFromFlags builds filters from the preset (if any), then the flags
// the user set, then the positional query words.
func filtersFromFlags(cmd *cobra.Command, args []string) (types.SearchFilters, error) {
	f := types.DefaultFilters("")
	if path, _ := cmd.Flags().GetString("filters"); path != "" {
		preset, err := search.LoadFilters(path)
		if err != nil {
			return f, err
		}
		f = preset
	}

	flags := cmd.Flags()
	if flags.Changed("from") {
		f.FromDate, _ = flags.GetString("from")
	}
	if flags.Changed("until") {
		f.UntilDate, _ = flags.GetString("until")
	}
	if flags.Changed("type") {
		f.ContentType, _ = flags.GetString("type")
	}
	if flags.Changed("has-abstract") {
		f.HasAbstract, _ = flags.GetBool("has-abstract")
	}
	if flags.Changed("rows") {
		f.Rows, _ = flags.GetInt("rows")
	}
	if flags.Changed("max-results") {
		f.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("sort") {
		f.Sort, _ = flags.GetString("sort")
	}
	if len(args) > 0 {
		f.Query = strings.Join(args, " ")
	}
	return f, nil
}

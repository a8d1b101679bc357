// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crossref-search/internal/export"
	"github.com/pdiddy/crossref-search/internal/logger"
	"github.com/pdiddy/crossref-search/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export search results or BibTeX entries",
	Long: `Export runs a search and writes the results as CSV, XLSX or CSL-YAML, or
fetches BibTeX entries for a list of DOIs through doi.org.`,
}

// tabularFormats maps export subcommands to their renderers.
var tabularFormats = map[string]struct {
	short  string
	render func(io.Writer, []types.NormalizedRecord) error
}{
	"csv":  {"Export search results as CSV", export.WriteCSV},
	"xlsx": {"Export search results as an XLSX workbook", export.WriteXLSX},
	"csl":  {"Export search results as CSL-YAML", export.WriteCSL},
}

var exportBibTeXCmd = &cobra.Command{
	Use:   "bibtex DOI...",
	Short: "Fetch BibTeX entries for DOIs",
	Long: `Fetch resolves each DOI through doi.org and concatenates the BibTeX entries
in input order. DOIs that fail are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExportBibTeX,
}

func init() {
	for _, name := range []string{"csv", "xlsx", "csl"} {
		format := tabularFormats[name]
		cmd := &cobra.Command{
			Use:   name + " [query...]",
			Short: format.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runExportTabular(cmd, args, format.render)
			},
		}
		addFilterFlags(cmd)
		cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
		exportCmd.AddCommand(cmd)
	}

	exportBibTeXCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	exportCmd.AddCommand(exportBibTeXCmd)

	rootCmd.AddCommand(exportCmd)
}

func runExportTabular(cmd *cobra.Command, args []string, render func(io.Writer, []types.NormalizedRecord) error) error {
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

	return withOutput(cmd, func(w io.Writer) error {
		return render(w, res.Items)
	})
}

func runExportBibTeX(cmd *cobra.Command, args []string) error {
	var dois []string
	for _, arg := range args {
		dois = append(dois, export.ParseDOIs(arg)...)
	}
	if len(dois) == 0 {
		return fmt.Errorf("no valid DOIs provided")
	}
	for _, doi := range dois {
		if !export.IsDOI(doi) {
			appLog.Warn("argument does not look like a DOI", logger.String("doi", doi))
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.exporter.FetchBibTeX(cmd.Context(), dois)
	if err != nil {
		return err
	}
	if err := withOutput(cmd, func(w io.Writer) error {
		if len(res.Entries) == 0 {
			return nil
		}
		_, err := io.WriteString(w, res.String()+"\n")
		return err
	}); err != nil {
		return err
	}
	if res.HasFailures() {
		return fmt.Errorf("%d of %d DOI(s) failed: %s", len(res.Failed), res.Total(), strings.Join(res.Failed, ", "))
	}
	return nil
}

// withOutput runs write against --output, or stdout when it is unset.
func withOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

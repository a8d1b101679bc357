// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders normalized records as CSV, XLSX and CSL-YAML, and
// assembles BibTeX bibliographies from doi.org lookups.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// Columns is the fixed column order of every tabular export.
var Columns = []string{"doi", "title", "authors", "year", "journal", "abstract", "url"}

// BOM is the UTF-8 byte-order mark written before CSV content so spreadsheet
// tools detect the encoding.
const BOM = "\ufeff"

// Row returns the cells of one record in Columns order. A nil year is an
// empty cell and line breaks in the abstract become spaces.
func Row(r types.NormalizedRecord) []string {
	year := ""
	if r.Year != nil {
		year = strconv.Itoa(*r.Year)
	}
	return []string{r.DOI, r.Title, r.Authors, year, r.Journal, flattenLines(r.Abstract), r.URL}
}

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

func flattenLines(s string) string { return lineBreaks.Replace(s) }

// WriteCSV writes items as BOM-prefixed CSV with a header row and "\n" line
// endings.
func WriteCSV(w io.Writer, items []types.NormalizedRecord) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range items {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("writing CSV row for %q: %w", r.DOI, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

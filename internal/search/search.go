// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs a Crossref query end to end: it validates the filters,
// fetches raw works through the cursor loop, and normalizes each record,
// dropping the ones that cannot be normalized.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/crossref-search/internal/logger"
	"github.com/pdiddy/crossref-search/internal/normalize"
	"github.com/pdiddy/crossref-search/internal/validate"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// Fetcher retrieves raw works for a set of filters and reports how many
// pages it requested. *crossref.Client implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, f types.SearchFilters) ([]types.RawRecord, int, error)
}

// Service orchestrates a single search request.
type Service struct {
	fetcher Fetcher
	log     logger.Logger
}

// NewService returns a Service that fetches through f. A nil logger
// discards output.
func NewService(f Fetcher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{fetcher: f, log: log}
}

// Search validates filters, fetches up to filters.MaxResults works, and
// returns the records that normalized cleanly in upstream order. A
// *validate.ValidationError is returned before any network call; upstream
// errors are returned unchanged for Classify.
func (s *Service) Search(ctx context.Context, filters types.SearchFilters) (types.SearchResult, error) {
	if err := validate.Filters(filters); err != nil {
		return types.SearchResult{}, err
	}

	s.log.Info("search started",
		logger.String("query", filters.Query),
		logger.String("from_date", filters.FromDate),
		logger.String("until_date", filters.UntilDate),
		logger.String("content_type", filters.ContentType),
		logger.Bool("has_abstract", filters.HasAbstract),
		logger.Int("rows", filters.Rows),
		logger.Int("max_results", filters.MaxResults),
		logger.String("sort", filters.Sort),
	)

	raw, pages, err := s.fetcher.FetchAll(ctx, filters)
	if err != nil {
		s.log.Error("search failed",
			logger.String("query", filters.Query),
			logger.String("error_kind", string(Classify(err))),
			logger.Error(err),
		)
		return types.SearchResult{}, err
	}

	items := s.normalizeAll(raw)

	s.log.Info("search completed",
		logger.String("query", filters.Query),
		logger.Int("results_count", len(items)),
		logger.Int("pages_fetched", pages),
	)
	return types.NewSearchResult(items), nil
}

// normalizeAll folds raw records into normalized ones. Records that fail are
// logged and skipped.
func (s *Service) normalizeAll(raw []types.RawRecord) []types.NormalizedRecord {
	items := make([]types.NormalizedRecord, 0, len(raw))
	failed := 0
	for _, r := range raw {
		rec, err := normalizeOne(r)
		if err != nil {
			failed++
			s.log.Warn("failed to normalize record",
				logger.String("doi", recordDOI(r)),
				logger.Error(err),
			)
			continue
		}
		items = append(items, rec)
	}
	if failed > 0 {
		s.log.Debug("records dropped during normalization", logger.Int("failed", failed))
	}
	return items
}

// normalizeOne converts a panic inside normalization into an error so one
// bad record cannot abort the batch.
func normalizeOne(r types.RawRecord) (rec types.NormalizedRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("normalizing record: %v", p)
		}
	}()
	return normalize.Checked(r)
}

func recordDOI(r types.RawRecord) string {
	if doi, ok := r["DOI"].(string); ok && doi != "" {
		return doi
	}
	return "unknown"
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(res types.SearchResult, w io.Writer) {
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-4s  %-30s  %s\n",
		"#", "Title", "Authors", "Year", "Journal", "DOI")
	fmt.Fprintln(w, strings.Repeat("-", 150))

	for i, r := range res.Items {
		year := ""
		if r.Year != nil {
			year = fmt.Sprintf("%d", *r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-4s  %-30s  %s\n",
			i+1, truncate(r.Title, 60), formatAuthors(r.Authors), year, truncate(r.Journal, 30), r.DOI)
	}

	fmt.Fprintf(w, "\n%d results\n", res.Count)
}

// FormatJSON writes the result envelope as indented JSON to w.
func FormatJSON(res types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// formatAuthors shortens the "; "-joined author string for table output.
func formatAuthors(authors string) string {
	names := strings.Split(authors, "; ")
	switch len(names) {
	case 1:
		return truncate(names[0], 24)
	default:
		return truncate(names[0], 17) + " et al."
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

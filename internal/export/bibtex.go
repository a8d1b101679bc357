// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/crossref-search/internal/logger"
)

// ErrNoFetcher is returned when a bibliography is requested from an
// Exporter constructed without a Fetcher.
var ErrNoFetcher = errors.New("export: BibTeX export requires a fetcher")

// Separator joins BibTeX entries in a bibliography.
const Separator = "\n\n"

// Fetcher retrieves one BibTeX entry by DOI. *crossref.Client implements it.
type Fetcher interface {
	BibTeX(ctx context.Context, doi string) (string, error)
}

// Exporter renders exports that need collaborators: a Fetcher for BibTeX
// and a logger for partial-failure reporting.
type Exporter struct {
	fetcher     Fetcher
	log         logger.Logger
	concurrency int
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithConcurrency sets how many DOIs are fetched in parallel. Values below
// one mean sequential.
func WithConcurrency(n int) Option {
	return func(e *Exporter) { e.concurrency = n }
}

// New returns an Exporter. f may be nil when only tabular exports are used.
func New(f Fetcher, log logger.Logger, opts ...Option) *Exporter {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Exporter{fetcher: f, log: log, concurrency: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.concurrency < 1 {
		e.concurrency = 1
	}
	return e
}

// BatchResult holds the outcome of a bibliography run.
type BatchResult struct {
	Entries []string
	Failed  []string
}

// Total returns the number of DOIs processed.
func (r BatchResult) Total() int { return len(r.Entries) + len(r.Failed) }

// HasFailures reports whether any DOI failed.
func (r BatchResult) HasFailures() bool { return len(r.Failed) > 0 }

// String joins the entries with a blank line between them.
func (r BatchResult) String() string { return strings.Join(r.Entries, Separator) }

// BibTeX returns the bibliography for dois in input order. DOIs that fail
// are logged and skipped; if all fail the content is empty.
func (e *Exporter) BibTeX(ctx context.Context, dois []string) (string, error) {
	res, err := e.FetchBibTeX(ctx, dois)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// FetchBibTeX retrieves each DOI and reports which succeeded. Entries are
// trimmed. Output order is input order regardless of concurrency.
func (e *Exporter) FetchBibTeX(ctx context.Context, dois []string) (BatchResult, error) {
	if e.fetcher == nil {
		return BatchResult{}, ErrNoFetcher
	}

	entries := make([]string, len(dois))
	errs := make([]error, len(dois))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, doi := range dois {
		g.Go(func() error {
			entry, err := e.fetcher.BibTeX(gctx, doi)
			if err != nil {
				errs[i] = err
				return nil
			}
			entries[i] = strings.TrimSpace(entry)
			return nil
		})
	}
	_ = g.Wait() // per-DOI errors are collected, never returned

	var res BatchResult
	for i, doi := range dois {
		if errs[i] != nil {
			e.log.Warn("failed to retrieve bibtex",
				logger.String("doi", doi),
				logger.Error(errs[i]),
			)
			res.Failed = append(res.Failed, doi)
			continue
		}
		e.log.Debug("bibtex retrieved", logger.String("doi", doi))
		res.Entries = append(res.Entries, entries[i])
	}

	e.log.Info("bibtex export completed",
		logger.Int("total", res.Total()),
		logger.Int("successful", len(res.Entries)),
		logger.Int("failed", len(res.Failed)),
	)
	return res, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref talks to the Crossref REST API: filter construction,
// retried single-page fetches, the cursor pagination loop, and BibTeX
// retrieval through doi.org content negotiation.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/crossref-search/internal/httputil"
	"github.com/pdiddy/crossref-search/internal/logger"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// Base URLs. Declared as vars so tests can substitute httptest servers.
var (
	worksBase = "https://api.crossref.org/works"
	doiBase   = "https://doi.org/"
)

// StartCursor is the cursor value that requests the first page.
const StartCursor = "*"

// BibTeXMediaType is the Accept value used for bibliography-entry lookups.
const BibTeXMediaType = "application/x-bibtex"

// maxBibTeXSize bounds a single BibTeX response body.
const maxBibTeXSize = 1 << 20

// Client is a Crossref API client. It is safe for concurrent use as long as
// the underlying *http.Client is.
type Client struct {
	http      *http.Client
	userAgent string
	policy    httputil.Policy
	log       logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithPolicy replaces the page-fetch retry policy.
func WithPolicy(p httputil.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client that identifies itself with cfg's user agent and
// contact address.
func New(httpClient *http.Client, cfg types.HTTPConfig, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = httputil.NewClient(cfg.Timeout)
	}
	policy := httputil.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}
	c := &Client{
		http:      httpClient,
		userAgent: cfg.IdentifyingUserAgent(),
		policy:    policy,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageRequest holds the parameters of one /works call.
type PageRequest struct {
	Query  string
	Filter string
	Rows   int
	Sort   string
	Cursor string
}

// Page is one decoded /works response.
type Page struct {
	Items        []types.RawRecord
	NextCursor   string
	TotalResults int
}

// worksResponse mirrors the envelope of a /works response. Items stay
// untyped until normalization.
type worksResponse struct {
	Status  string `json:"status"`
	Message struct {
		Items        []any  `json:"items"`
		NextCursor   string `json:"next-cursor"`
		TotalResults int    `json:"total-results"`
	} `json:"message"`
}

// BuildFilter renders the comma-joined Crossref filter expression. Clauses
// appear in a fixed order and absent fields are omitted.
func BuildFilter(f types.SearchFilters) string {
	var clauses []string
	if f.FromDate != "" {
		clauses = append(clauses, "from-pub-date:"+f.FromDate)
	}
	if f.UntilDate != "" {
		clauses = append(clauses, "until-pub-date:"+f.UntilDate)
	}
	if f.ContentType != "" {
		clauses = append(clauses, "type:"+f.ContentType)
	}
	if f.HasAbstract {
		clauses = append(clauses, "has-abstract:true")
	}
	return strings.Join(clauses, ",")
}

// FetchPage performs a single /works request without retries.
func (c *Client) FetchPage(ctx context.Context, pr PageRequest) (Page, error) {
	params := url.Values{
		"query":  {pr.Query},
		"rows":   {strconv.Itoa(pr.Rows)},
		"sort":   {pr.Sort},
		"cursor": {pr.Cursor},
	}
	if pr.Filter != "" {
		params.Set("filter", pr.Filter)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, worksBase+"?"+params.Encode(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("Crossref API request: %w", err)
	}
	if err := httputil.CheckResponse(resp); err != nil {
		return Page{}, fmt.Errorf("Crossref API: %w", err)
	}
	defer resp.Body.Close()

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return Page{}, fmt.Errorf("parsing Crossref response: %w", err)
	}

	page := Page{
		Items:        make([]types.RawRecord, len(wr.Message.Items)),
		NextCursor:   wr.Message.NextCursor,
		TotalResults: wr.Message.TotalResults,
	}
	for i, item := range wr.Message.Items {
		// Non-object items become nil records and are rejected downstream.
		if m, ok := item.(map[string]any); ok {
			page.Items[i] = m
		}
	}
	return page, nil
}

// fetchPageWithRetry wraps FetchPage in the client's retry policy.
func (c *Client) fetchPageWithRetry(ctx context.Context, pr PageRequest) (Page, error) {
	p := c.policy
	next := p.OnRetry
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		if next != nil {
			next(attempt, delay, err)
		}
		c.log.Warn("retrying page fetch",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.String("cursor", pr.Cursor),
			logger.Error(err),
		)
	}
	return httputil.Retry(ctx, p, func(ctx context.Context) (Page, error) {
		return c.FetchPage(ctx, pr)
	})
}

// FetchAll returns up to f.MaxResults raw works matching f, following
// cursors page by page, and the number of pages requested.
func (c *Client) FetchAll(ctx context.Context, f types.SearchFilters) ([]types.RawRecord, int, error) {
	first := PageRequest{
		Query:  f.Query,
		Filter: BuildFilter(f),
		Rows:   f.Rows,
		Sort:   f.Sort,
		Cursor: StartCursor,
	}
	return Paginate(ctx, c.fetchPageWithRetry, first, f.MaxResults)
}

// BibTeX resolves doi through doi.org and returns its BibTeX entry. Redirects
// are followed; there is no retry on this path.
func (c *Client) BibTeX(ctx context.Context, doi string) (string, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return "", fmt.Errorf("empty DOI")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doiBase+escapeDOI(doi), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", BibTeXMediaType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("doi.org request for %s: %w", doi, err)
	}
	if err := httputil.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("doi.org lookup for %s: %w", doi, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBibTeXSize))
	if err != nil {
		return "", fmt.Errorf("reading BibTeX for %s: %w", doi, err)
	}
	return string(body), nil
}

// escapeDOI path-escapes each segment of a DOI, keeping the slashes.
func escapeDOI(doi string) string {
	segments := strings.Split(doi, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

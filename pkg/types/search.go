// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the request-scoped value objects shared by the search
// pipeline, the export renderers, and the HTTP layer.
package types

// Content types accepted by the content_type filter.
const (
	ContentJournalArticle     = "journal-article"
	ContentProceedingsArticle = "proceedings-article"
	ContentBookChapter        = "book-chapter"
)

// Sort orders accepted by the sort filter.
const (
	SortRelevance = "relevance"
	SortPublished = "published"
)

// SearchFilters holds the caller-supplied search parameters. A value is
// treated as immutable once it has passed validation.
type SearchFilters struct {
	// Query is the free-text search expression (1-500 characters).
	Query string `json:"query" yaml:"query"`

	// FromDate and UntilDate bound the publication date (YYYY-MM-DD).
	FromDate  string `json:"from_date" yaml:"from_date"`
	UntilDate string `json:"until_date" yaml:"until_date"`

	// ContentType restricts results to one Crossref work type.
	ContentType string `json:"content_type" yaml:"content_type"`

	// HasAbstract requires works that carry an abstract.
	HasAbstract bool `json:"has_abstract" yaml:"has_abstract"`

	// Rows is the page size requested per upstream call (1-100).
	Rows int `json:"rows" yaml:"rows"`

	// MaxResults caps the total number of records returned (1-500).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Sort is the upstream sort order.
	Sort string `json:"sort" yaml:"sort"`
}

// DefaultFilters returns the filter defaults used when a caller omits a field.
func DefaultFilters(query string) SearchFilters {
	return SearchFilters{
		Query:       query,
		FromDate:    "2023-01-01",
		UntilDate:   "2025-12-31",
		ContentType: ContentJournalArticle,
		HasAbstract: true,
		Rows:        30,
		MaxResults:  120,
		Sort:        SortRelevance,
	}
}

// RawRecord is one work exactly as decoded from the Crossref payload. Every
// key is optional and any value may be nil or of an unexpected shape.
type RawRecord map[string]any

// NormalizedRecord is the stable internal shape of a bibliographic record.
// Absent values are represented by sentinel strings, except Year, which is
// nil when no publication date is known.
type NormalizedRecord struct {
	DOI      string `json:"doi" yaml:"doi"`
	Title    string `json:"title" yaml:"title"`
	Authors  string `json:"authors" yaml:"authors"`
	Year     *int   `json:"year" yaml:"year"`
	Journal  string `json:"journal" yaml:"journal"`
	Abstract string `json:"abstract" yaml:"abstract"`
	URL      string `json:"url" yaml:"url"`
}

// SearchResult is the ordered outcome of one search. Count always equals
// len(Items).
type SearchResult struct {
	Count int                `json:"count"`
	Items []NormalizedRecord `json:"items"`
}

// NewSearchResult wraps items, keeping Count consistent with the slice.
func NewSearchResult(items []NormalizedRecord) SearchResult {
	if items == nil {
		items = []NormalizedRecord{}
	}
	return SearchResult{Count: len(items), Items: items}
}

// ErrorBody is the payload of an error envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope is the JSON shape of every failed HTTP response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

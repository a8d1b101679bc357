// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/crossref-search/internal/export"
	"github.com/pdiddy/crossref-search/internal/logger"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// Attachment filenames for export downloads.
const (
	CSVFilename    = "crossref_results.csv"
	XLSXFilename   = "crossref_results.xlsx"
	BibTeXFilename = "crossref_references.bib"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Searcher runs a validated search. *search.Service implements it.
type Searcher interface {
	Search(ctx context.Context, f types.SearchFilters) (types.SearchResult, error)
}

// Bibliographer assembles BibTeX for a list of DOIs. *export.Exporter
// implements it.
type Bibliographer interface {
	BibTeX(ctx context.Context, dois []string) (string, error)
}

// Handler serves the API routes.
type Handler struct {
	searcher Searcher
	bib      Bibliographer
	metrics  *Metrics
	log      logger.Logger
}

// NewHandler wires the route handlers to their collaborators.
func NewHandler(s Searcher, b Bibliographer, m *Metrics, log logger.Logger) *Handler {
	return &Handler{searcher: s, bib: b, metrics: m, log: log}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Search handles GET /search.
func (h *Handler) Search(c *gin.Context) {
	h.metrics.SearchesTotal.Inc()

	res, err := h.runSearch(c)
	if err != nil {
		kind := abortWithKind(c, err)
		h.metrics.SearchErrors.WithLabelValues(string(kind)).Inc()
		return
	}
	h.metrics.ResultsCount.Observe(float64(res.Count))
	c.JSON(http.StatusOK, res)
}

// runSearch parses filters from the query string and times the search.
func (h *Handler) runSearch(c *gin.Context) (types.SearchResult, error) {
	f, err := filtersFromQuery(c)
	if err != nil {
		return types.SearchResult{}, err
	}
	start := time.Now()
	res, err := h.searcher.Search(c.Request.Context(), f)
	if err != nil {
		return types.SearchResult{}, err
	}
	h.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	return res, nil
}

// ExportCSV handles GET /export/csv.
func (h *Handler) ExportCSV(c *gin.Context) {
	h.metrics.ExportsCSVTotal.Inc()

	res, err := h.runSearch(c)
	if err != nil {
		abortWithKind(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res.Items); err != nil {
		abortWithKind(c, err)
		return
	}
	h.log.Info("csv export generated", logger.Int("items", res.Count))
	attachment(c, CSVFilename, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /export/xlsx.
func (h *Handler) ExportXLSX(c *gin.Context) {
	h.metrics.ExportsXLSXTotal.Inc()

	res, err := h.runSearch(c)
	if err != nil {
		abortWithKind(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res.Items); err != nil {
		abortWithKind(c, err)
		return
	}
	attachment(c, XLSXFilename, xlsxContentType, buf.Bytes())
}

// ExportBibTeX handles GET /export/bibtex?dois=a,b,c.
func (h *Handler) ExportBibTeX(c *gin.Context) {
	h.metrics.ExportsBibTeXTotal.Inc()

	raw := c.Query("dois")
	if strings.TrimSpace(raw) == "" {
		abortWithError(c, http.StatusBadRequest, "dois parameter is required")
		return
	}
	dois := export.ParseDOIs(raw)
	if len(dois) == 0 {
		abortWithError(c, http.StatusBadRequest, "No valid DOIs provided")
		return
	}

	content, err := h.bib.BibTeX(c.Request.Context(), dois)
	if err != nil {
		abortWithKind(c, err)
		return
	}
	attachment(c, BibTeXFilename, "text/plain; charset=utf-8", []byte(content))
}

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

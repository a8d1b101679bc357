// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultsBuckets are the histogram buckets for results per search.
var ResultsBuckets = []float64{0, 10, 30, 50, 100, 200, 500}

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	SearchesTotal      prometheus.Counter
	SearchErrors       *prometheus.CounterVec
	ExportsCSVTotal    prometheus.Counter
	ExportsXLSXTotal   prometheus.Counter
	ExportsBibTeXTotal prometheus.Counter
	SearchDuration     prometheus.Histogram
	ResultsCount       prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SearchesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Total number of searches",
		}),
		SearchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "searches_errors_total",
			Help: "Total number of search errors",
		}, []string{"error_type"}),
		ExportsCSVTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "exports_csv_total",
			Help: "Total CSV exports",
		}),
		ExportsXLSXTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "exports_xlsx_total",
			Help: "Total XLSX exports",
		}),
		ExportsBibTeXTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "exports_bibtex_total",
			Help: "Total BibTeX exports",
		}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ResultsCount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "results_count",
			Help:    "Number of results per search",
			Buckets: ResultsBuckets,
		}),
		gatherer: reg,
	}
}

// Handler returns the exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

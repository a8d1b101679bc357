// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/pdiddy/crossref-search/internal/config"
	"github.com/pdiddy/crossref-search/internal/crossref"
	"github.com/pdiddy/crossref-search/internal/export"
	"github.com/pdiddy/crossref-search/internal/httputil"
	"github.com/pdiddy/crossref-search/internal/search"
)

// app bundles the collaborators built once per process. outbound is the
// single shared transport for Crossref and doi.org.
type app struct {
	outbound *http.Client
	crossref *crossref.Client
	search   *search.Service
	exporter *export.Exporter
}

func newApp() (*app, error) {
	if err := config.RequireMailto(appConfig); err != nil {
		return nil, err
	}
	outbound := httputil.NewClient(appConfig.HTTP.Timeout)
	client := crossref.New(outbound, appConfig.HTTP, crossref.WithLogger(appLog))
	return &app{
		outbound: outbound,
		crossref: client,
		search:   search.NewService(client, appLog),
		exporter: export.New(client, appLog, export.WithConcurrency(appConfig.Export.BibTeXConcurrency)),
	}, nil
}

// Close releases idle outbound connections.
func (a *app) Close() { httputil.CloseIdle(a.outbound) }

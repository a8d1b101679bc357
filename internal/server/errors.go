// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/crossref-search/internal/httputil"
	"github.com/pdiddy/crossref-search/internal/search"
	"github.com/pdiddy/crossref-search/pkg/types"
)

const internalMessage = "Internal server error"

// StatusFor maps an error kind to the HTTP status returned to callers.
func StatusFor(kind search.ErrorKind) int {
	switch kind {
	case search.KindValidation:
		return http.StatusBadRequest
	case search.KindUpstreamClient:
		return http.StatusBadGateway
	case search.KindUpstreamServer:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the caller-facing text for err. Upstream faults expose
// only the status line; internal faults expose nothing.
func messageFor(kind search.ErrorKind, err error) string {
	switch kind {
	case search.KindValidation:
		return err.Error()
	case search.KindUpstreamClient, search.KindUpstreamServer:
		if se, ok := httputil.AsStatusError(err); ok {
			return "Crossref API error: " + se.Status
		}
		if httputil.IsTimeout(err) {
			return "Crossref API error: request timed out"
		}
		return "Crossref API error"
	default:
		return internalMessage
	}
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, types.ErrorEnvelope{
		Error: types.ErrorBody{Code: code, Message: message},
	})
}

// abortWithKind classifies err, records it on the context for the request
// log, and writes the matching envelope.
func abortWithKind(c *gin.Context, err error) search.ErrorKind {
	kind := search.Classify(err)
	if kind != search.KindValidation {
		_ = c.Error(err)
	}
	abortWithError(c, StatusFor(kind), messageFor(kind, err))
	return kind
}

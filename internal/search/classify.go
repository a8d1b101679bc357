// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"

	"github.com/pdiddy/crossref-search/internal/httputil"
	"github.com/pdiddy/crossref-search/internal/validate"
)

// ErrorKind names the caller-facing category of a search failure.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindUpstreamClient ErrorKind = "upstream_4xx"
	KindUpstreamServer ErrorKind = "upstream_5xx"
	KindInternal       ErrorKind = "internal"
)

// Classify maps err to an ErrorKind. Rate limiting (429) and exhausted
// timeouts count as upstream unavailability; any other 4xx is a client
// fault. Anything unrecognized is internal. A nil error has no kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case httputil.IsClientError(err):
		return KindUpstreamClient
	case httputil.IsServerError(err), httputil.IsTimeout(err):
		return KindUpstreamServer
	default:
		return KindInternal
	}
}

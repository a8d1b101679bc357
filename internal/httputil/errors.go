// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// maxDrain bounds how much of an error body is read before the connection
// is returned to the pool.
const maxDrain = 64 << 10

// StatusError is a non-2xx response from an upstream service. The response
// body is not kept.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %s", e.Status)
}

// CheckResponse returns a *StatusError for non-2xx responses after draining
// and closing the body. Successful responses are left untouched.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	resp.Body.Close()

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	u := ""
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.Redacted()
	}
	return &StatusError{StatusCode: resp.StatusCode, Status: status, URL: u}
}

// AsStatusError extracts a *StatusError from err's chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsClientError reports a 4xx upstream status other than 429.
func IsClientError(err error) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
}

// IsServerError reports a 5xx or 429 upstream status.
func IsServerError(err error) bool {
	se, ok := AsStatusError(err)
	return ok && (se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests)
}

// IsTimeout reports a transport-level timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsRetryable reports whether a page fetch that failed with err should be
// attempted again: timeouts, 5xx, and 429 are retried; other 4xx fail fast.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := AsStatusError(err); ok {
		return IsServerError(err)
	}
	return IsTimeout(err)
}

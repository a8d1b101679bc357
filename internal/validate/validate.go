// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks caller-supplied search parameters. Each check is a
// stateless function that returns a *ValidationError naming the offending
// field, or nil.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// MaxQueryLength is the longest query accepted, in characters.
const MaxQueryLength = 500

// Inclusive bounds for rows and max_results.
const (
	MinRows       = 1
	MaxRows       = 100
	MinMaxResults = 1
	MaxMaxResults = 500
)

const dateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ContentTypes is the set of accepted content_type values.
var ContentTypes = []string{
	types.ContentJournalArticle,
	types.ContentProceedingsArticle,
	types.ContentBookChapter,
}

// SortOptions is the set of accepted sort values.
var SortOptions = []string{types.SortRelevance, types.SortPublished}

// ValidationError reports an out-of-contract parameter.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func fail(field string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// Query rejects empty, whitespace-only, and overlong queries.
func Query(q string) error {
	if strings.TrimSpace(q) == "" {
		return fail("query", q, "query cannot be empty")
	}
	if n := utf8.RuneCountInString(q); n > MaxQueryLength {
		return fail("query", q, "query cannot exceed %d characters, got: %d", MaxQueryLength, n)
	}
	return nil
}

// DateFormat requires s to be a real calendar date in YYYY-MM-DD form.
func DateFormat(s, field string) error {
	if !datePattern.MatchString(s) {
		return fail(field, s, "%s must be in YYYY-MM-DD format, got: %s", field, s)
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fail(field, s, "%s is not a valid date: %s", field, s)
	}
	return nil
}

// DateRange validates both dates and requires from <= until.
func DateRange(from, until string) error {
	if err := DateFormat(from, "from_date"); err != nil {
		return err
	}
	if err := DateFormat(until, "until_date"); err != nil {
		return err
	}
	f, _ := time.Parse(dateLayout, from)
	u, _ := time.Parse(dateLayout, until)
	if f.After(u) {
		return fail("from_date", from, "from_date (%s) must be <= until_date (%s)", from, until)
	}
	return nil
}

// NumericRange requires v to be a non-negative number within [min, max].
// Strings are accepted when they parse as a number, so raw query-string
// values can be passed through unchanged.
func NumericRange(v any, min, max int, field string) error {
	n, ok := toFloat(v)
	if !ok {
		return fail(field, v, "%s must be numeric, got: %T", field, v)
	}
	if n < 0 {
		return fail(field, v, "%s cannot be negative, got: %v", field, v)
	}
	if n < float64(min) || n > float64(max) {
		return fail(field, v, "%s must be between %d and %d, got: %v", field, min, max, v)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case float64:
		return n, !math.IsNaN(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Integer parses a raw parameter value and checks it with NumericRange.
// Fractional values are rejected.
func Integer(raw string, min, max int, field string) (int, error) {
	if err := NumericRange(raw, min, max, field); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fail(field, raw, "%s must be an integer, got: %s", field, raw)
	}
	return n, nil
}

// integerBounds are the accepted ranges of the integer filter fields.
var integerBounds = map[string][2]int{
	"rows":        {MinRows, MaxRows},
	"max_results": {MinMaxResults, MaxMaxResults},
}

// ParseInt parses a raw non-negative integer parameter without applying a
// range, leaving bounds to Filters so checks keep their order. Values too
// large to hold are rejected with the field's own range.
func ParseInt(raw, field string) (int, error) {
	if f, ok := toFloat(raw); ok && f > math.MaxInt32 {
		if b, known := integerBounds[field]; known {
			return 0, fail(field, raw, "%s must be between %d and %d, got: %s", field, b[0], b[1], raw)
		}
		return 0, fail(field, raw, "%s is too large, got: %s", field, raw)
	}
	return Integer(raw, 0, math.MaxInt32, field)
}

// Enum requires v to be a member of allowed.
func Enum(v string, allowed []string, field string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	return fail(field, v, "%s must be one of [%s], got: %s", field, strings.Join(sorted, ", "), v)
}

// Filters runs every check in a fixed order and returns the first failure:
// query, date range, rows, max_results, content_type, sort.
func Filters(f types.SearchFilters) error {
	checks := []func() error{
		func() error { return Query(f.Query) },
		func() error { return DateRange(f.FromDate, f.UntilDate) },
		func() error { return NumericRange(f.Rows, MinRows, MaxRows, "rows") },
		func() error { return NumericRange(f.MaxResults, MinMaxResults, MaxMaxResults, "max_results") },
		func() error { return Enum(f.ContentType, ContentTypes, "content_type") },
		func() error { return Enum(f.Sort, SortOptions, "sort") },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

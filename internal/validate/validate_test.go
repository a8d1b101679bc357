// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crossref-search/pkg/types"
)

func requireValidation(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %T", err)
	assert.Equal(t, field, ve.Field)
	return ve
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"simple", "machine learning", false},
		{"exactly max", strings.Repeat("a", MaxQueryLength), false},
		{"max in multibyte runes", strings.Repeat("é", MaxQueryLength), false},
		{"empty", "", true},
		{"whitespace only", "   \t\n", true},
		{"too long", strings.Repeat("a", MaxQueryLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Query(tt.query)
			if tt.wantErr {
				requireValidation(t, err, "query")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDateFormat(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-02-29", false},
		{"2023-01-01", false},
		{"2023-02-29", true},
		{"2024-02-30", true},
		{"2024-13-01", true},
		{"2024-1-01", true},
		{"24-01-01", true},
		{"2024/01/01", true},
		{"", true},
		{"2024-01-01T00:00:00Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := DateFormat(tt.in, "from_date")
			if tt.wantErr {
				ve := requireValidation(t, err, "from_date")
				assert.Contains(t, ve.Error(), "from_date")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDateRange(t *testing.T) {
	assert.NoError(t, DateRange("2023-01-01", "2023-01-01"))
	assert.NoError(t, DateRange("2023-01-01", "2025-12-31"))

	ve := requireValidation(t, DateRange("2025-01-01", "2023-01-01"), "from_date")
	assert.Equal(t, "from_date (2025-01-01) must be <= until_date (2023-01-01)", ve.Error())

	requireValidation(t, DateRange("2023-01-01", "2023-02-30"), "until_date")
	requireValidation(t, DateRange("bogus", "2023-02-01"), "from_date")
}

func TestNumericRange(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{"int in range", 30, ""},
		{"lower bound", 1, ""},
		{"upper bound", 100, ""},
		{"float in range", 50.0, ""},
		{"numeric string", "42", ""},
		{"zero", 0, "between"},
		{"above max", 101, "between"},
		{"negative", -5, "negative"},
		{"non-numeric string", "abc", "numeric"},
		{"nil", nil, "numeric"},
		{"bool", true, "numeric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NumericRange(tt.value, 1, 100, "rows")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			ve := requireValidation(t, err, "rows")
			assert.Contains(t, ve.Error(), tt.wantErr)
		})
	}
}

func TestInteger(t *testing.T) {
	n, err := Integer("25", 1, 100, "rows")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = Integer("2.5", 1, 100, "rows")
	ve := requireValidation(t, err, "rows")
	assert.Contains(t, ve.Error(), "integer")

	_, err = Integer("many", 1, 500, "max_results")
	requireValidation(t, err, "max_results")
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt("1000", "rows")
	require.NoError(t, err, "range is checked later by Filters")
	assert.Equal(t, 1000, n)

	_, err = ParseInt("-3", "rows")
	ve := requireValidation(t, err, "rows")
	assert.Contains(t, ve.Error(), "negative")

	_, err = ParseInt("abc", "max_results")
	ve = requireValidation(t, err, "max_results")
	assert.Contains(t, ve.Error(), "numeric")
}

func TestParseInt_TooLarge(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"rows", "rows must be between 1 and 100, got: 99999999999"},
		{"max_results", "max_results must be between 1 and 500, got: 99999999999"},
		{"page", "page is too large, got: 99999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := ParseInt("99999999999", tt.field)
			ve := requireValidation(t, err, tt.field)
			assert.Equal(t, tt.want, ve.Message)
			assert.NotContains(t, ve.Message, "2147483647")
		})
	}
}

func TestEnum(t *testing.T) {
	assert.NoError(t, Enum("journal-article", ContentTypes, "content_type"))
	assert.NoError(t, Enum("published", SortOptions, "sort"))

	ve := requireValidation(t, Enum("dataset", ContentTypes, "content_type"), "content_type")
	assert.Equal(t, "content_type must be one of [book-chapter, journal-article, proceedings-article], got: dataset", ve.Error())
	requireValidation(t, Enum("", SortOptions, "sort"), "sort")
}

func TestFiltersOrder(t *testing.T) {
	valid := types.DefaultFilters("graphene")
	require.NoError(t, Filters(valid))

	// Every field is wrong; the query failure must win.
	bad := types.SearchFilters{
		Query:       "",
		FromDate:    "2025-01-01",
		UntilDate:   "2020-01-01",
		Rows:        0,
		MaxResults:  0,
		ContentType: "x",
		Sort:        "y",
	}
	requireValidation(t, Filters(bad), "query")

	bad.Query = "graphene"
	requireValidation(t, Filters(bad), "from_date")

	bad.FromDate, bad.UntilDate = valid.FromDate, valid.UntilDate
	requireValidation(t, Filters(bad), "rows")

	bad.Rows = 30
	requireValidation(t, Filters(bad), "max_results")

	bad.MaxResults = 120
	requireValidation(t, Filters(bad), "content_type")

	bad.ContentType = types.ContentBookChapter
	requireValidation(t, Filters(bad), "sort")

	bad.Sort = types.SortPublished
	assert.NoError(t, Filters(bad))
}

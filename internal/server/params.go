// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/crossref-search/internal/validate"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// filtersFromQuery reads search filters from the query string. Omitted
// parameters take their defaults. Numbers and booleans that do not parse
// are reported as validation errors; ranges and enums are left to
// validate.Filters.
func filtersFromQuery(c *gin.Context) (types.SearchFilters, error) {
	f := types.DefaultFilters(c.Query("q"))

	if v, ok := c.GetQuery("from_date"); ok {
		f.FromDate = v
	}
	if v, ok := c.GetQuery("until_date"); ok {
		f.UntilDate = v
	}
	if v, ok := c.GetQuery("content_type"); ok {
		f.ContentType = v
	}
	if v, ok := c.GetQuery("sort"); ok {
		f.Sort = v
	}
	if v, ok := c.GetQuery("has_abstract"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return f, &validate.ValidationError{
				Field:   "has_abstract",
				Value:   v,
				Message: "has_abstract must be a boolean, got: " + v,
			}
		}
		f.HasAbstract = b
	}
	if v, ok := c.GetQuery("rows"); ok {
		n, err := validate.ParseInt(v, "rows")
		if err != nil {
			return f, err
		}
		f.Rows = n
	}
	if v, ok := c.GetQuery("max_results"); ok {
		n, err := validate.ParseInt(v, "max_results")
		if err != nil {
			return f, err
		}
		f.MaxResults = n
	}
	return f, nil
}

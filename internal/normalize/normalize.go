// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts loosely-typed Crossref works into
// types.NormalizedRecord. Extraction never fails: every field has a default.
package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// Sentinel values for absent fields.
const (
	NoTitle        = "No title"
	UnknownAuthors = "Unknown authors"
	UnknownVenue   = "Unknown"
	NoAbstract     = "No abstract available"
)

// DOIBase prefixes a DOI to form its canonical URL.
const DOIBase = "https://doi.org/"

// ErrMalformedRecord is returned by Checked when a work is not a JSON object.
var ErrMalformedRecord = errors.New("malformed record: not a JSON object")

// yearSources lists the date fields consulted for the publication year, in
// priority order.
var yearSources = []string{"published-print", "published-online", "published"}

// Checked normalizes raw, rejecting records that did not decode to an object.
func Checked(raw types.RawRecord) (types.NormalizedRecord, error) {
	if raw == nil {
		return types.NormalizedRecord{}, ErrMalformedRecord
	}
	return Normalize(raw), nil
}

// Normalize maps a raw Crossref work to the internal record shape.
func Normalize(raw types.RawRecord) types.NormalizedRecord {
	doi := str(raw["DOI"])

	rec := types.NormalizedRecord{
		DOI:      doi,
		Title:    firstString(raw["title"]),
		Authors:  FormatAuthors(raw["author"]),
		Year:     ExtractYear(raw),
		Journal:  venue(raw),
		Abstract: NoAbstract,
	}
	if rec.Title == "" {
		rec.Title = NoTitle
	}
	if abs := str(raw["abstract"]); abs != "" {
		rec.Abstract = CleanAbstract(abs)
	}
	if doi != "" {
		rec.URL = DOIBase + doi
	}
	return rec
}

// FormatAuthors renders a Crossref author list as "Given Family; Given Family".
// Entries with neither name part are skipped.
func FormatAuthors(v any) string {
	list, _ := v.([]any)
	names := make([]string, 0, len(list))
	for _, entry := range list {
		author, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		given := strings.TrimSpace(str(author["given"]))
		family := strings.TrimSpace(str(author["family"]))
		switch {
		case given != "" && family != "":
			names = append(names, given+" "+family)
		case family != "":
			names = append(names, family)
		case given != "":
			names = append(names, given)
		}
	}
	if len(names) == 0 {
		return UnknownAuthors
	}
	return strings.Join(names, "; ")
}

// ExtractYear returns the first year found in published-print,
// published-online, then published. The search stops at the first field
// whose date-parts has a non-empty first entry, even if that entry is not a
// usable number.
func ExtractYear(raw types.RawRecord) *int {
	for _, key := range yearSources {
		date, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		parts, _ := date["date-parts"].([]any)
		if len(parts) == 0 {
			continue
		}
		first, _ := parts[0].([]any)
		if len(first) == 0 {
			continue
		}
		if y, ok := toInt(first[0]); ok {
			return &y
		}
		return nil
	}
	return nil
}

func venue(raw types.RawRecord) string {
	if v := firstString(raw["container-title"]); v != "" {
		return v
	}
	if p := str(raw["publisher"]); p != "" {
		return p
	}
	return UnknownVenue
}

// firstString returns the first element of a string list, or "".
func firstString(v any) string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	return str(list[0])
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

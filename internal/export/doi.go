// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"regexp"
	"strings"
)

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// doiPrefixes are stripped from user input before lookup.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// CleanDOI trims whitespace and resolver or "doi:" prefixes from s.
func CleanDOI(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range doiPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return s
}

// IsDOI reports whether s looks like a bare DOI.
func IsDOI(s string) bool { return doiPattern.MatchString(s) }

// ParseDOIs splits a comma-separated list into cleaned DOIs, dropping blank
// entries. Malformed DOIs are kept; their lookup fails and is skipped.
func ParseDOIs(list string) []string {
	var dois []string
	for _, part := range strings.Split(list, ",") {
		if doi := CleanDOI(part); doi != "" {
			dois = append(dois, doi)
		}
	}
	return dois
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// LoadFilters reads a YAML filter preset. Fields missing from the file keep
// their defaults; unknown keys are rejected so typos do not pass silently.
// The preset is not validated here; Search does that once flags are merged.
//
//	query: graph neural networks
//	from_date: 2020-01-01
//	content_type: proceedings-article
//	max_results: 200
func LoadFilters(path string) (types.SearchFilters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SearchFilters{}, fmt.Errorf("reading filter preset: %w", err)
	}
	return ParseFilters(data)
}

// ParseFilters decodes a YAML preset on top of types.DefaultFilters.
func ParseFilters(data []byte) (types.SearchFilters, error) {
	f := types.DefaultFilters("")
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return types.SearchFilters{}, fmt.Errorf("parsing filter preset: %w", err)
	}
	return f, nil
}

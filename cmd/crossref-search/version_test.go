// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildVersion(t *testing.T) {
	installed := &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}}
	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	tests := []struct {
		name     string
		stamped  string
		info     *debug.BuildInfo
		expected string
	}{
		{"ldflags stamp wins", "v2.0.0", installed, "v2.0.0"},
		{"module version", "dev", installed, "v1.2.3"},
		{"devel build", "dev", devel, "dev"},
		{"no build info", "", nil, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildVersion(tt.stamped, tt.info))
		})
	}
}

func TestWriteVersion(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "GOOS", Value: "linux"},
		},
	}

	var short bytes.Buffer
	writeVersion(&short, "v1.0.0", info, false)
	assert.Equal(t, "crossref-search v1.0.0\n", short.String())

	var long bytes.Buffer
	writeVersion(&long, "v1.0.0", info, true)
	assert.Equal(t, "crossref-search v1.0.0\ngo: go1.25.6\nvcs.revision: abc123\n", long.String())
}

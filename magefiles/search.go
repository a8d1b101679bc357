//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/sh"
)

// Search runs a quick CLI search for $QUERY against the live Crossref API.
// APP_MAILTO must be set.
func Search() error {
	query := strings.TrimSpace(os.Getenv("QUERY"))
	if query == "" {
		return fmt.Errorf("set QUERY, e.g. QUERY='graph neural networks' mage search")
	}
	return sh.RunV("go", "run", cmdPkg, "search", "--max-results", "10", query)
}

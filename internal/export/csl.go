package export

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crossref-search/internal/normalize"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-JSON/CSL-YAML schema so that output
// is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes items as a CSL-YAML list to w.
func WriteCSL(w io.Writer, items []types.NormalizedRecord) error {
	out := make([]CSLItem, len(items))
	for i, r := range items {
		out[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

// toCSLItem converts a NormalizedRecord to a CSLItem. Sentinel defaults are
// left out rather than exported as data.
func toCSLItem(r types.NormalizedRecord) CSLItem {
	item := CSLItem{
		ID:   r.DOI,
		Type: "article-journal",
		DOI:  r.DOI,
		URL:  r.URL,
	}
	if r.Title != normalize.NoTitle {
		item.Title = r.Title
	}
	if r.Journal != normalize.UnknownVenue {
		item.ContainerTitle = r.Journal
	}
	if r.Abstract != normalize.NoAbstract {
		item.Abstract = r.Abstract
	}
	if r.Authors != normalize.UnknownAuthors {
		for _, a := range strings.Split(r.Authors, "; ") {
			if n := parseAuthorName(a); n != (CSLName{}) {
				item.Author = append(item.Author, n)
			}
		}
	}
	if r.Year != nil {
		item.Issued = &CSLDate{DateParts: [][]int{{*r.Year}}}
	}
	return item
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

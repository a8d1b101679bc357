// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags are the only elements kept in abstracts. No attributes survive.
var AllowedTags = []string{"p", "br", "i", "b", "em", "strong"}

var abstractPolicy = newAbstractPolicy()

func newAbstractPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	return p
}

// CleanAbstract strips every tag outside AllowedTags (including JATS markup
// such as <jats:p>), drops all attributes, and trims the result. Text of
// other elements is kept, except inside <script> and <style>, which are
// removed with their content.
func CleanAbstract(html string) string {
	return strings.TrimSpace(abstractPolicy.Sanitize(html))
}

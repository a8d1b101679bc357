// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// PageFunc fetches one page. The pagination loop is written against this
// type so it can be driven without HTTP.
type PageFunc func(ctx context.Context, pr PageRequest) (Page, error)

// Paginate walks cursors starting at first.Cursor until an empty page, a
// missing next cursor, or maxResults items have been collected. A page that
// would overflow the cap is truncated and no further page is requested. It
// returns the collected items and the number of pages fetched.
func Paginate(ctx context.Context, fetch PageFunc, first PageRequest, maxResults int) ([]types.RawRecord, int, error) {
	var all []types.RawRecord
	pages := 0
	pr := first

	for len(all) < maxResults {
		page, err := fetch(ctx, pr)
		if err != nil {
			return nil, pages, err
		}
		pages++

		if len(page.Items) == 0 {
			break
		}

		remaining := maxResults - len(all)
		if len(page.Items) > remaining {
			page.Items = page.Items[:remaining]
		}
		all = append(all, page.Items...)

		if page.NextCursor == "" || len(all) >= maxResults {
			break
		}
		pr.Cursor = page.NextCursor
	}
	return all, pages, nil
}

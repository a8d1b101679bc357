// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crossref-search/internal/httputil"
	"github.com/pdiddy/crossref-search/pkg/types"
)

func noSleep(context.Context, time.Duration) error { return nil }

func testClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	cfg := types.HTTPConfig{
		Timeout:   5 * time.Second,
		UserAgent: "CrossrefSearch/1.0",
		Mailto:    "dev@example.org",
	}
	opts = append([]Option{WithPolicy(httputil.Policy{MaxAttempts: 3, Sleep: noSleep})}, opts...)
	return New(http.DefaultClient, cfg, opts...)
}

// worksPage renders a /works body holding n items numbered from offset.
func worksPage(offset, n int, next string) string {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{"DOI": fmt.Sprintf("10.1000/%d", offset+i)}
	}
	body := map[string]any{
		"status": "ok",
		"message": map[string]any{
			"items":         items,
			"next-cursor":   next,
			"total-results": 1000,
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func useWorksServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	old := worksBase
	worksBase = ts.URL + "/works"
	t.Cleanup(func() { worksBase = old })
}

// --- BuildFilter ---

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters types.SearchFilters
		want    string
	}{
		{
			name:    "defaults",
			filters: types.DefaultFilters("x"),
			want:    "from-pub-date:2023-01-01,until-pub-date:2025-12-31,type:journal-article,has-abstract:true",
		},
		{
			name:    "no abstract requirement",
			filters: types.SearchFilters{FromDate: "2020-01-01", UntilDate: "2020-12-31", ContentType: "book-chapter"},
			want:    "from-pub-date:2020-01-01,until-pub-date:2020-12-31,type:book-chapter",
		},
		{
			name:    "only abstract",
			filters: types.SearchFilters{HasAbstract: true},
			want:    "has-abstract:true",
		},
		{
			name:    "empty",
			filters: types.SearchFilters{},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilter(tt.filters))
		})
	}
}

// --- FetchPage ---

func TestFetchPage_SendsParamsAndIdentity(t *testing.T) {
	var got *http.Request
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		fmt.Fprint(w, worksPage(0, 2, "abc"))
	})

	c := testClient(t)
	page, err := c.FetchPage(context.Background(), PageRequest{
		Query: "graph neural networks", Filter: "type:journal-article", Rows: 20, Sort: "relevance", Cursor: StartCursor,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "abc", page.NextCursor)
	assert.Equal(t, 1000, page.TotalResults)
	assert.Equal(t, "10.1000/0", page.Items[0]["DOI"])

	require.NotNil(t, got)
	q := got.URL.Query()
	assert.Equal(t, "graph neural networks", q.Get("query"))
	assert.Equal(t, "20", q.Get("rows"))
	assert.Equal(t, "relevance", q.Get("sort"))
	assert.Equal(t, "*", q.Get("cursor"))
	assert.Equal(t, "type:journal-article", q.Get("filter"))
	assert.Equal(t, "CrossrefSearch/1.0 (mailto:dev@example.org)", got.Header.Get("User-Agent"))
}

func TestFetchPage_NonObjectItemsBecomeNil(t *testing.T) {
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","message":{"items":[{"DOI":"10.1/a"},null,"junk"],"next-cursor":""}}`)
	})

	page, err := testClient(t).FetchPage(context.Background(), PageRequest{Rows: 3, Cursor: StartCursor})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.NotNil(t, page.Items[0])
	assert.Nil(t, page.Items[1])
	assert.Nil(t, page.Items[2])
}

func TestFetchPage_BadJSON(t *testing.T) {
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})

	_, err := testClient(t).FetchPage(context.Background(), PageRequest{Rows: 1, Cursor: StartCursor})
	require.Error(t, err)
	_, isStatus := httputil.AsStatusError(err)
	assert.False(t, isStatus)
}

// --- FetchAll ---

func TestFetchAll_StopsAtCap(t *testing.T) {
	var calls atomic.Int32
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		rows, _ := strconv.Atoi(r.URL.Query().Get("rows"))
		fmt.Fprint(w, worksPage((n-1)*rows, rows, "next-"+strconv.Itoa(n)))
	})

	f := types.DefaultFilters("q")
	f.Rows = 20
	f.MaxResults = 50

	items, pages, err := testClient(t).FetchAll(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, items, 50)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, pages)
	assert.Equal(t, "10.1000/49", items[49]["DOI"])
}

func TestFetchAll_FollowsCursor(t *testing.T) {
	var cursors []string
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		cursors = append(cursors, r.URL.Query().Get("cursor"))
		switch len(cursors) {
		case 1:
			fmt.Fprint(w, worksPage(0, 2, "c2"))
		case 2:
			fmt.Fprint(w, worksPage(2, 2, "c3"))
		default:
			fmt.Fprint(w, worksPage(0, 0, "c4"))
		}
	})

	f := types.DefaultFilters("q")
	f.Rows = 2
	f.MaxResults = 100

	items, pages, err := testClient(t).FetchAll(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, []string{"*", "c2", "c3"}, cursors)
	assert.Equal(t, 3, pages, "the empty last page is counted")
}

func TestFetchAll_MissingNextCursorStops(t *testing.T) {
	var calls atomic.Int32
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, worksPage(0, 5, ""))
	})

	f := types.DefaultFilters("q")
	f.Rows = 5
	f.MaxResults = 100

	items, pages, err := testClient(t).FetchAll(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, pages)
}

func TestFetchAll_EmptyFirstPageCountsOnePage(t *testing.T) {
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, worksPage(0, 0, "c2"))
	})

	items, pages, err := testClient(t).FetchAll(context.Background(), types.DefaultFilters("q"))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, pages)
}

func TestFetchAll_RetriesServerErrors(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			var calls atomic.Int32
			useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(status)
					return
				}
				fmt.Fprint(w, worksPage(0, 3, ""))
			})

			var retries []int
			c := testClient(t, WithPolicy(httputil.Policy{
				MaxAttempts: 3,
				Sleep:       noSleep,
				OnRetry:     func(attempt int, _ time.Duration, _ error) { retries = append(retries, attempt) },
			}))

			f := types.DefaultFilters("q")
			f.Rows = 3
			items, _, err := c.FetchAll(context.Background(), f)
			require.NoError(t, err)
			assert.Len(t, items, 3)
			assert.Equal(t, int32(3), calls.Load())
			assert.Equal(t, []int{1, 2}, retries)
		})
	}
}

func TestFetchAll_ExhaustedRetriesKeepStatus(t *testing.T) {
	var calls atomic.Int32
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, _, err := testClient(t).FetchAll(context.Background(), types.DefaultFilters("q"))
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	se, ok := httputil.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestFetchAll_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	useWorksServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, _, err := testClient(t).FetchAll(context.Background(), types.DefaultFilters("q"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, httputil.IsClientError(err))
}

// --- Paginate ---

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		pageSizes []int
		rows      int
		max       int
		wantItems int
		wantPages int
	}{
		{"exact multiple", []int{10, 10, 10}, 10, 30, 30, 3},
		{"truncates last page", []int{10, 10, 10}, 10, 25, 25, 3},
		{"empty first page", []int{0}, 10, 30, 0, 1},
		{"short page then empty", []int{10, 4, 0}, 10, 100, 14, 3},
		{"single page cap", []int{10}, 10, 5, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetch := func(_ context.Context, pr PageRequest) (Page, error) {
				i, _ := strconv.Atoi(pr.Cursor)
				if pr.Cursor == StartCursor {
					i = 0
				}
				if i >= len(tt.pageSizes) {
					t.Fatalf("unexpected fetch for cursor %q", pr.Cursor)
				}
				items := make([]types.RawRecord, tt.pageSizes[i])
				return Page{Items: items, NextCursor: strconv.Itoa(i + 1)}, nil
			}

			items, pages, err := Paginate(context.Background(), fetch, PageRequest{Rows: tt.rows, Cursor: StartCursor}, tt.max)
			require.NoError(t, err)
			assert.Len(t, items, tt.wantItems)
			assert.Equal(t, tt.wantPages, pages)
		})
	}
}

func TestPaginate_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(context.Context, PageRequest) (Page, error) { return Page{}, boom }

	items, pages, err := Paginate(context.Background(), fetch, PageRequest{Cursor: StartCursor}, 10)
	assert.Same(t, boom, err)
	assert.Nil(t, items)
	assert.Equal(t, 0, pages)
}

// --- BibTeX ---

func useDOIServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	old := doiBase
	doiBase = ts.URL + "/"
	t.Cleanup(func() { doiBase = old })
}

func TestBibTeX_ContentNegotiation(t *testing.T) {
	var accept, path string
	useDOIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/10.1038/171737a0" {
			http.Redirect(w, r, "/resolved", http.StatusFound)
			return
		}
		accept = r.Header.Get("Accept")
		path = r.URL.Path
		fmt.Fprint(w, "@article{Watson_1953, title={Molecular Structure}}\n")
	})

	got, err := testClient(t).BibTeX(context.Background(), " 10.1038/171737a0 ")
	require.NoError(t, err)
	assert.Equal(t, "@article{Watson_1953, title={Molecular Structure}}\n", got)
	assert.Equal(t, BibTeXMediaType, accept)
	assert.Equal(t, "/resolved", path)
}

func TestBibTeX_NoRetry(t *testing.T) {
	var calls atomic.Int32
	useDOIServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := testClient(t).BibTeX(context.Background(), "10.1/x")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, httputil.IsServerError(err))
}

func TestBibTeX_EmptyDOI(t *testing.T) {
	_, err := testClient(t).BibTeX(context.Background(), "   ")
	assert.Error(t, err)
}

func TestEscapeDOI(t *testing.T) {
	assert.Equal(t, "10.1000/abc%20def/x", escapeDOI("10.1000/abc def/x"))
	assert.Equal(t, "10.1038/171737a0", escapeDOI("10.1038/171737a0"))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package articles

import (
	"bytes"
	"context"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// countingFetcher returns canned articles and counts network calls.
type countingFetcher struct {
	articles map[string]*types.Article
	errs     map[string]error
	calls    map[string]int
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		articles: map[string]*types.Article{},
		errs:     map[string]error{},
		calls:    map[string]int{},
	}
}

func (f *countingFetcher) ArticleInfo(_ context.Context, pmid string) (*types.Article, error) {
	f.calls[pmid]++
	if err, ok := f.errs[pmid]; ok {
		return nil, err
	}
	if a, ok := f.articles[pmid]; ok {
		return a, nil
	}
	return &types.Article{PMID: pmid}, nil
}

func TestGetOrFetch_Idempotent(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.articles["100"] = &types.Article{PMID: "100", Title: "first"}
	cache := New(fetcher, nil)

	first, err := cache.GetOrFetch(context.Background(), "100")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := cache.GetOrFetch(context.Background(), "100")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if fetcher.calls["100"] != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls["100"])
	}
	if first != second {
		t.Error("second call must return the identical cached value")
	}
}

func TestGetOrFetch_FailureCachedAsSkipMarker(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.errs["404"] = &mastermind.ServiceError{Endpoint: "article_info", Params: url.Values{}, Status: 404}
	var out bytes.Buffer
	cache := New(fetcher, &out)

	for i := 0; i < 3; i++ {
		article, err := cache.GetOrFetch(context.Background(), "404")
		if err != nil {
			t.Fatalf("skippable failure must not be an error, got %v", err)
		}
		if article != nil {
			t.Fatal("skip marker must yield a nil article")
		}
	}

	if fetcher.calls["404"] != 1 {
		t.Errorf("failed PMID fetched %d times, want 1", fetcher.calls["404"])
	}
	if want := []string{"404"}; !reflect.DeepEqual(cache.Skipped(), want) {
		t.Errorf("Skipped() = %v, want %v", cache.Skipped(), want)
	}
	if n := strings.Count(out.String(), "could not be analyzed"); n != 1 {
		t.Errorf("failure reported %d times, want once", n)
	}
}

func TestGetOrFetch_FatalErrorPropagates(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.errs["bad"] = &mastermind.ServiceError{Endpoint: "article_info", Params: url.Values{}, Status: 403}
	cache := New(fetcher, nil)

	if _, err := cache.GetOrFetch(context.Background(), "bad"); err == nil {
		t.Fatal("fatal service error must propagate")
	}
	if len(cache.Skipped()) != 0 {
		t.Errorf("fatal errors must not be cached as skips, got %v", cache.Skipped())
	}
}

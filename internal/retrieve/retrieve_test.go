// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"net/url"
	"reflect"
	"testing"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// fakeArticles serves canned pages and records which pages were requested.
// Page 0 (the first request, no page parameter) serves pages[0].
type fakeArticles struct {
	pages     []mastermind.ArticlesPage
	err       error
	requested []int
}

func (f *fakeArticles) Articles(_ context.Context, _ mastermind.Query, page int) (mastermind.ArticlesPage, error) {
	f.requested = append(f.requested, page)
	if f.err != nil {
		return mastermind.ArticlesPage{}, f.err
	}
	idx := page
	if idx > 0 {
		idx--
	}
	if idx >= len(f.pages) {
		return mastermind.ArticlesPage{}, nil
	}
	return f.pages[idx], nil
}

func refs(pmids ...string) []types.ArticleRef {
	out := make([]types.ArticleRef, len(pmids))
	for i, p := range pmids {
		out[i] = types.ArticleRef{PMID: p, MatchedDNA: true}
	}
	return out
}

func TestFetchArticles_PaginationCompleteness(t *testing.T) {
	svc := &fakeArticles{pages: []mastermind.ArticlesPage{
		{ArticleCount: 12, Pages: 3, Articles: refs("1", "2", "3", "4", "5")},
		{ArticleCount: 12, Pages: 3, Articles: refs("6", "7", "8", "9", "10")},
		{ArticleCount: 12, Pages: 3, Articles: refs("11", "12")},
	}}

	got, err := FetchArticles(context.Background(), svc, mastermind.Query{Variant: "BRAF:V600E"}, types.RetrievalConfig{}, false, nil)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	if !reflect.DeepEqual(got.PMIDs, want) {
		t.Errorf("PMIDs = %v, want %v", got.PMIDs, want)
	}
	if got.Count != 12 {
		t.Errorf("Count = %d, want 12", got.Count)
	}
	seen := map[string]bool{}
	for _, p := range got.PMIDs {
		if seen[p] {
			t.Errorf("duplicate PMID %s", p)
		}
		seen[p] = true
	}
}

func TestFetchArticles_CeilingEnforcement(t *testing.T) {
	page := mastermind.ArticlesPage{ArticleCount: 500, Pages: 100, Articles: refs("a", "b", "c", "d", "e")}
	svc := &fakeArticles{pages: make([]mastermind.ArticlesPage, 100)}
	for i := range svc.pages {
		svc.pages[i] = page
	}

	cfg := types.RetrievalConfig{Sensitivity: 10, PageSize: 5}
	_, err := FetchArticles(context.Background(), svc, mastermind.Query{Gene: "BRAF"}, cfg, false, nil)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(svc.requested) != 2 {
		t.Errorf("requested %d pages (%v), want 2", len(svc.requested), svc.requested)
	}
}

func TestFetchArticles_NotFoundIsEmptyResult(t *testing.T) {
	svc := &fakeArticles{err: &mastermind.ServiceError{Endpoint: "articles", Params: url.Values{}, Status: 404}}
	got, err := FetchArticles(context.Background(), svc, mastermind.Query{Gene: "NOSUCH"}, types.RetrievalConfig{}, false, nil)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if got.Count != 0 || len(got.PMIDs) != 0 {
		t.Errorf("got %+v, want empty result", got)
	}
}

func TestFetchArticles_SpecificityEarlyStop(t *testing.T) {
	nonSpecific := types.ArticleRef{PMID: "x", MatchedDNA: false}

	t.Run("stops after first page when its last record is non-specific", func(t *testing.T) {
		svc := &fakeArticles{pages: []mastermind.ArticlesPage{
			{ArticleCount: 20, Pages: 4, Articles: append(refs("1", "2"), nonSpecific)},
			{ArticleCount: 20, Pages: 4, Articles: refs("4", "5")},
		}}
		got, err := FetchArticles(context.Background(), svc, mastermind.Query{Variant: "BRCA1:c.68_69delAG"}, types.RetrievalConfig{}, true, nil)
		if err != nil {
			t.Fatalf("FetchArticles: %v", err)
		}
		if len(svc.requested) != 1 {
			t.Errorf("requested pages %v, want just the first", svc.requested)
		}
		if want := []string{"1", "2"}; !reflect.DeepEqual(got.PMIDs, want) {
			t.Errorf("PMIDs = %v, want %v (non-specific record filtered)", got.PMIDs, want)
		}
	})

	t.Run("stops mid-run when a later page goes non-specific", func(t *testing.T) {
		svc := &fakeArticles{pages: []mastermind.ArticlesPage{
			{ArticleCount: 20, Pages: 4, Articles: refs("1", "2")},
			{ArticleCount: 20, Pages: 4, Articles: append(refs("3"), nonSpecific)},
			{ArticleCount: 20, Pages: 4, Articles: refs("5", "6")},
		}}
		got, err := FetchArticles(context.Background(), svc, mastermind.Query{Variant: "BRCA1:c.68_69delAG"}, types.RetrievalConfig{}, true, nil)
		if err != nil {
			t.Fatalf("FetchArticles: %v", err)
		}
		if want := []int{0, 2}; !reflect.DeepEqual(svc.requested, want) {
			t.Errorf("requested pages %v, want %v", svc.requested, want)
		}
		if want := []string{"1", "2", "3"}; !reflect.DeepEqual(got.PMIDs, want) {
			t.Errorf("PMIDs = %v, want %v", got.PMIDs, want)
		}
	})
}

func TestFetchArticles_DefensivePageBound(t *testing.T) {
	svc := &fakeArticles{pages: []mastermind.ArticlesPage{
		{ArticleCount: 50, Pages: 10, Articles: refs("1")},
		{ArticleCount: 50, Pages: 3, Articles: refs("2")},
		{ArticleCount: 50, Pages: 3, Articles: refs("3")},
		{ArticleCount: 50, Pages: 3, Articles: refs("4")},
	}}
	got, err := FetchArticles(context.Background(), svc, mastermind.Query{Gene: "KRAS"}, types.RetrievalConfig{}, false, nil)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if want := []int{0, 2, 3}; !reflect.DeepEqual(svc.requested, want) {
		t.Errorf("requested pages %v, want %v (bound shrunk by page 2)", svc.requested, want)
	}
	if want := []string{"1", "2", "3"}; !reflect.DeepEqual(got.PMIDs, want) {
		t.Errorf("PMIDs = %v, want %v", got.PMIDs, want)
	}
}

func TestFetchArticles_ObserverSeesProgress(t *testing.T) {
	svc := &fakeArticles{pages: []mastermind.ArticlesPage{
		{ArticleCount: 10, Pages: 2, Articles: refs("1", "2", "3", "4", "5")},
		{ArticleCount: 10, Pages: 2, Articles: refs("6", "7", "8", "9", "10")},
	}}
	type tick struct{ done, total int }
	var ticks []tick
	obs := func(done, total int) { ticks = append(ticks, tick{done, total}) }

	if _, err := FetchArticles(context.Background(), svc, mastermind.Query{Gene: "BRAF"}, types.RetrievalConfig{}, false, obs); err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	want := []tick{{1, 2}, {2, 2}}
	if !reflect.DeepEqual(ticks, want) {
		t.Errorf("observer ticks = %v, want %v", ticks, want)
	}
}

type fakeVariants struct {
	pages     []mastermind.VariantsPage
	requested []int
}

func (f *fakeVariants) Variants(_ context.Context, _ mastermind.Query, page int) (mastermind.VariantsPage, error) {
	f.requested = append(f.requested, page)
	if page-1 >= len(f.pages) {
		return mastermind.VariantsPage{}, nil
	}
	return f.pages[page-1], nil
}

func TestFetchVariants_PagesToReportedBound(t *testing.T) {
	rec := func(key string) mastermind.VariantRecord {
		return mastermind.VariantRecord{Gene: "JAK1", Key: key, ArticleCount: 1}
	}
	svc := &fakeVariants{pages: []mastermind.VariantsPage{
		{VariantCount: 5, Pages: 3, Variants: []mastermind.VariantRecord{rec("V1"), rec("V2")}},
		{VariantCount: 5, Pages: 3, Variants: []mastermind.VariantRecord{rec("V3"), rec("V4")}},
		{VariantCount: 5, Pages: 3, Variants: []mastermind.VariantRecord{rec("V5")}},
	}}

	records, err := FetchVariants(context.Background(), svc, mastermind.Query{Gene: "JAK1"}, types.RetrievalConfig{}, nil)
	if err != nil {
		t.Fatalf("FetchVariants: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("got %d records, want 5", len(records))
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(svc.requested, want) {
		t.Errorf("requested pages %v, want %v", svc.requested, want)
	}
}

func TestFetchVariants_CapsPages(t *testing.T) {
	page := mastermind.VariantsPage{VariantCount: 1000, Pages: 500, Variants: []mastermind.VariantRecord{{Gene: "G", Key: "K"}}}
	svc := &fakeVariants{pages: make([]mastermind.VariantsPage, 500)}
	for i := range svc.pages {
		svc.pages[i] = page
	}

	cfg := types.RetrievalConfig{MaxVariantPages: 4}
	records, err := FetchVariants(context.Background(), svc, mastermind.Query{Gene: "G"}, cfg, nil)
	if err != nil {
		t.Fatalf("FetchVariants: %v", err)
	}
	if len(svc.requested) != 4 {
		t.Errorf("requested %d pages, want 4", len(svc.requested))
	}
	if len(records) != 4 {
		t.Errorf("got %d records, want 4", len(records))
	}
}

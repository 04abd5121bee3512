// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve fetches complete, order-preserving result sets from the
// evidence service's paginated endpoints.
// Implements: prd001-retrieval (R1-R4).
package retrieve

import (
	"context"

	"github.com/pdiddy/evidence-engine/internal/filter"
	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Observer receives fetch progress as a (done, total) page pair. The
// engine never renders progress itself; a collaborator may render the
// pair however it likes. A nil Observer is valid.
type Observer func(done, total int)

func (o Observer) report(done, total int) {
	if o != nil {
		o(done, total)
	}
}

// ArticleLister is the slice of the service client the article retriever
// needs.
type ArticleLister interface {
	Articles(ctx context.Context, q mastermind.Query, page int) (mastermind.ArticlesPage, error)
}

// VariantLister is the slice of the service client the variant retriever
// needs.
type VariantLister interface {
	Variants(ctx context.Context, q mastermind.Query, page int) (mastermind.VariantsPage, error)
}

// Result is the outcome of a full article retrieval: the total match count
// reported by the service and the PMIDs collected, in relevance order.
type Result struct {
	Count int
	PMIDs []string
}

// FetchArticles fetches every page of a filtered articles query up to the
// sensitivity ceiling, in order. dnaSpecific enables the
// nucleotide-specificity predicate; since the service rank-orders matches
// by specificity, retrieval stops early once the last record on a page
// fails it — no further page is worth fetching.
//
// HTTP 404 yields an empty result, not an error. The page bound is taken
// from the first response and recomputed defensively: if a later page
// reports a smaller bound, the smaller one wins.
func FetchArticles(ctx context.Context, svc ArticleLister, q mastermind.Query, cfg types.RetrievalConfig, dnaSpecific bool, obs Observer) (Result, error) {
	cfg = cfg.Normalize()

	first, err := svc.Articles(ctx, q, 0)
	if err != nil {
		if mastermind.IsNotFound(err) {
			return Result{}, nil
		}
		return Result{}, err
	}
	if len(first.Articles) == 0 {
		return Result{Count: first.ArticleCount}, nil
	}

	maxPages := cfg.Sensitivity / cfg.PageSize
	if maxPages < 1 {
		maxPages = 1
	}
	bound := first.Pages
	if bound < 1 {
		bound = 1
	}
	if bound > maxPages {
		bound = maxPages
	}

	result := Result{Count: first.ArticleCount, PMIDs: keepSpecific(dnaSpecific, first.Articles, nil)}
	obs.report(1, bound)

	if !filter.SpecificityMatch(dnaSpecific, first.Articles[len(first.Articles)-1]) {
		return result, nil
	}

	for page := 2; page <= bound; page++ {
		data, err := svc.Articles(ctx, q, page)
		if err != nil {
			return Result{}, err
		}
		if data.Pages > 0 && data.Pages < bound {
			bound = data.Pages
		}
		result.PMIDs = keepSpecific(dnaSpecific, data.Articles, result.PMIDs)
		obs.report(page, bound)

		if len(data.Articles) == 0 {
			break
		}
		if !filter.SpecificityMatch(dnaSpecific, data.Articles[len(data.Articles)-1]) {
			break
		}
	}
	return result, nil
}

func keepSpecific(dnaSpecific bool, refs []types.ArticleRef, pmids []string) []string {
	for _, ref := range refs {
		if filter.SpecificityMatch(dnaSpecific, ref) {
			pmids = append(pmids, ref.PMID)
		}
	}
	return pmids
}

// FetchVariants pages through a gene's variant listing. The page bound is
// re-read from each response, capped at cfg.MaxVariantPages.
func FetchVariants(ctx context.Context, svc VariantLister, q mastermind.Query, cfg types.RetrievalConfig, obs Observer) ([]mastermind.VariantRecord, error) {
	cfg = cfg.Normalize()

	var records []mastermind.VariantRecord
	bound := cfg.MaxVariantPages
	for page := 1; page <= bound; page++ {
		data, err := svc.Variants(ctx, q, page)
		if err != nil {
			return nil, err
		}
		if data.Pages < bound {
			bound = data.Pages
		}
		records = append(records, data.Variants...)
		obs.report(page, bound)
		if len(data.Variants) == 0 {
			break
		}
	}
	return records, nil
}

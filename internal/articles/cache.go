// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package articles caches article detail records for the process lifetime,
// so an article cited by several input entities is fetched exactly once.
// Implements: prd002-aggregation (article cache).
package articles

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Fetcher is the slice of the service client the cache needs.
type Fetcher interface {
	ArticleInfo(ctx context.Context, pmid string) (*types.Article, error)
}

// Cache is a process-lifetime PMID-keyed store of article detail records.
// A failed fetch is cached as a skip marker so a failing PMID is not
// retried by every subsequent entity that also cites it. Not safe for
// concurrent use; the aggregation pass is the sole owner.
type Cache struct {
	fetcher Fetcher
	entries map[string]*types.Article // nil value = fetch failed, skip
	skipped []string
	w       io.Writer
}

// New builds an empty cache around a fetcher. Fetch failures are reported
// once to w.
func New(fetcher Fetcher, w io.Writer) *Cache {
	if w == nil {
		w = io.Discard
	}
	return &Cache{
		fetcher: fetcher,
		entries: make(map[string]*types.Article),
		w:       w,
	}
}

// GetOrFetch returns the article for pmid, fetching it on first use. A hit
// performs no network access and returns the same value as the first call.
//
// A (nil, nil) return means the article could not be analyzed: the detail
// fetch failed with a skippable error (not found, or transient after
// retry) either now or earlier in the run. Callers must skip such PMIDs,
// not raise. Any other service failure is fatal and returned.
func (c *Cache) GetOrFetch(ctx context.Context, pmid string) (*types.Article, error) {
	if article, ok := c.entries[pmid]; ok {
		return article, nil
	}

	article, err := c.fetcher.ArticleInfo(ctx, pmid)
	if err != nil {
		if mastermind.IsNotFound(err) || mastermind.IsTransient(err) {
			c.entries[pmid] = nil
			c.skipped = append(c.skipped, pmid)
			fmt.Fprintf(c.w, "warning: article %s could not be analyzed: %v\n", pmid, err)
			return nil, nil
		}
		return nil, err
	}
	c.entries[pmid] = article
	return article, nil
}

// Len returns the number of cached entries, skip markers included.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Skipped lists the PMIDs whose detail fetch failed, in first-failure
// order, each exactly once.
func (c *Cache) Skipped() []string {
	return c.skipped
}

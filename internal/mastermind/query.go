// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mastermind

import (
	"net/url"
	"strconv"
	"time"
)

// Evidence categories accepted by the articles and counts endpoints.
const (
	CategoryFusion     = "fusion"
	CategoryBreakpoint = "breakpoint"
)

// Query restricts an evidence lookup to one entity plus optional filters.
// Exactly one of Gene, Variant, or Disease identifies the primary entity;
// the rest narrow the match set server-side.
type Query struct {
	Gene    string
	Variant string
	Disease string

	// Journals restricts matches to the given ISO 4 journal
	// abbreviations.
	Journals []string

	// Since restricts matches to articles first matched after the given
	// time.
	Since time.Time

	// Categories restricts matches to the given evidence categories
	// (e.g. fusion, breakpoint).
	Categories []string
}

// Values encodes the query as request parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Gene != "" {
		v.Set("gene", q.Gene)
	}
	if q.Variant != "" {
		v.Set("variant", q.Variant)
	}
	if q.Disease != "" {
		v.Set("disease", q.Disease)
	}
	for _, j := range q.Journals {
		v.Add("journals[]", j)
	}
	if !q.Since.IsZero() {
		v.Set("since", strconv.FormatInt(q.Since.Unix(), 10))
	}
	for _, c := range q.Categories {
		v.Add("categories[]", c)
	}
	return v
}

// Label names the primary entity for progress and status output.
func (q Query) Label() string {
	switch {
	case q.Variant != "":
		return q.Variant
	case q.Gene != "":
		return q.Gene
	default:
		return q.Disease
	}
}

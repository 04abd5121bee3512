// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Set is the composable article filter applied before an article counts
// toward an entity's evidence. Predicates combine by logical AND; a zero
// Set keeps everything.
type Set struct {
	cfg          types.FilterConfig
	journals     map[string]bool
	phenotypeIDs map[string]bool
}

// NewSet builds a filter from configuration. inputPhenotypeIDs are the
// canonical ontology IDs of the caller's input phenotypes, consulted only
// when RequirePhenotypes is enabled.
func NewSet(cfg types.FilterConfig, inputPhenotypeIDs []string) Set {
	s := Set{cfg: cfg}
	if len(cfg.Journals) > 0 {
		s.journals = make(map[string]bool, len(cfg.Journals))
		for _, j := range cfg.Journals {
			s.journals[j] = true
		}
	}
	if cfg.RequirePhenotypes {
		s.phenotypeIDs = make(map[string]bool, len(inputPhenotypeIDs))
		for _, id := range inputPhenotypeIDs {
			s.phenotypeIDs[id] = true
		}
	}
	return s
}

// Keep reports whether the article passes every enabled predicate.
func (s Set) Keep(a *types.Article) bool {
	if !s.cfg.MinDate.IsZero() && a.Date.Before(s.cfg.MinDate) {
		return false
	}
	if s.journals != nil && !s.journals[a.Journal] {
		return false
	}
	if s.cfg.RequirePhenotypes && !s.hasInputPhenotype(a) {
		return false
	}
	return true
}

func (s Set) hasInputPhenotype(a *types.Article) bool {
	for _, p := range a.Phenotypes {
		if s.phenotypeIDs[p.Key] {
			return true
		}
	}
	return false
}

// SpecificityMatch is the nucleotide-specificity predicate applied to the
// lightweight records of a paginated articles query. dnaSpecific is true
// when nucleotide-only mode is on and the queried identifier is itself
// nucleotide-level; only then does the matched_dna flag gate the record.
func SpecificityMatch(dnaSpecific bool, ref types.ArticleRef) bool {
	return !dnaSpecific || ref.MatchedDNA
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArticleRef is the minimal article record returned by a paginated articles
// query: the PMID plus the match-specificity flag the retriever's
// specificity predicate needs.
type ArticleRef struct {
	PMID string `json:"pmid" yaml:"pmid"`

	// MatchedDNA reports whether the service matched the queried variant
	// at the nucleotide (DNA/RNA coordinate) level rather than only at
	// the inferred protein-change level.
	MatchedDNA bool `json:"matched_dna" yaml:"matched_dna"`
}

// GeneMention is a gene cited by an article, with any variants of that gene
// the article cites.
type GeneMention struct {
	Symbol   string   `json:"symbol" yaml:"symbol"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Phenotype is a phenotype term cited by an article, with its ontology ID.
type Phenotype struct {
	Term string `json:"term" yaml:"term"`
	Key  string `json:"key" yaml:"key"`
}

// Article holds the full detail record for one publication. Immutable once
// fetched; cached for the process lifetime keyed by PMID.
type Article struct {
	PMID    string `json:"pmid" yaml:"pmid"`
	Journal string `json:"journal" yaml:"journal"`
	Title   string `json:"title" yaml:"title"`

	// Date is the publication date; zero when the service omitted it or
	// it could not be parsed.
	Date time.Time `json:"date" yaml:"date"`

	Genes      []GeneMention `json:"genes" yaml:"genes"`
	Diseases   []string      `json:"diseases,omitempty" yaml:"diseases,omitempty"`
	Phenotypes []Phenotype   `json:"phenotypes,omitempty" yaml:"phenotypes,omitempty"`
}

// VariantPairs returns every gene:variant pair the article cites, in
// citation order.
func (a *Article) VariantPairs() []string {
	var pairs []string
	for _, g := range a.Genes {
		for _, v := range g.Variants {
			pairs = append(pairs, g.Symbol+":"+v)
		}
	}
	return pairs
}

// GeneSymbols returns the cited gene symbols in citation order.
func (a *Article) GeneSymbols() []string {
	symbols := make([]string, len(a.Genes))
	for i, g := range a.Genes {
		symbols[i] = g.Symbol
	}
	return symbols
}

// PhenotypeTerms returns the cited phenotype terms in citation order.
func (a *Article) PhenotypeTerms() []string {
	terms := make([]string, len(a.Phenotypes))
	for i, p := range a.Phenotypes {
		terms[i] = p.Term
	}
	return terms
}

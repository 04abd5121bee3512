// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate builds cross-reference indexes and co-mention groups
// from the article evidence fetched for a set of input entities.
// Implements: prd002-aggregation (A1-A6).
package aggregate

import (
	"context"
	"sort"
	"strings"

	"github.com/pdiddy/evidence-engine/internal/articles"
	"github.com/pdiddy/evidence-engine/internal/filter"
	"github.com/pdiddy/evidence-engine/internal/retrieve"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Mode selects the aggregation shape: variant-centric runs group co-cited
// inputs, gene-centric runs build disease and phenotype cross-indexes.
type Mode int

const (
	VariantMode Mode = iota
	GeneMode
)

func (m Mode) String() string {
	if m == GeneMode {
		return "gene"
	}
	return "variant"
}

// Input pairs one resolved entity with the PMIDs retrieved for it, in
// relevance order.
type Input struct {
	Entity types.Entity
	Count  int
	PMIDs  []string
}

// EntityEvidence is the per-entity slice of the index: the articles that
// survived filtering and the association tables built from them.
type EntityEvidence struct {
	Entity types.Entity `json:"entity" yaml:"entity"`

	// Count is the total match count the service reported, before any
	// local filtering.
	Count int `json:"count" yaml:"count"`

	// PMIDs are the articles that passed every filter, in relevance
	// order.
	PMIDs []string `json:"pmids" yaml:"pmids"`

	Diseases   *Table `json:"-" yaml:"-"`
	Phenotypes *Table `json:"-" yaml:"-"`
	Genes      *Table `json:"-" yaml:"-"`
	Variants   *Table `json:"-" yaml:"-"`

	// MatchingPhenotypes are the input phenotype terms this entity's
	// articles cite, with the PMIDs and diseases of those citing
	// articles.
	MatchingPhenotypes         []string `json:"matching_phenotypes,omitempty" yaml:"matching_phenotypes,omitempty"`
	PMIDsMatchingPhenotypes    []string `json:"pmids_matching_phenotypes,omitempty" yaml:"pmids_matching_phenotypes,omitempty"`
	DiseasesMatchingPhenotypes []string `json:"diseases_matching_phenotypes,omitempty" yaml:"diseases_matching_phenotypes,omitempty"`
}

// Group is a co-mention group: two or more input entities cited together
// by at least one article. Key is the sorted member names joined by "; ",
// so the same combination always lands in the same group regardless of
// citation order.
type Group struct {
	Key        string   `json:"key" yaml:"key"`
	Members    []string `json:"members" yaml:"members"`
	PMIDs      []string `json:"pmids" yaml:"pmids"`
	Diseases   []string `json:"diseases,omitempty" yaml:"diseases,omitempty"`
	Phenotypes []string `json:"phenotypes,omitempty" yaml:"phenotypes,omitempty"`
	Variants   []string `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// CrossRow is one row of a disease- or phenotype-keyed cross-index: the
// key entity plus everything its citing articles also cite.
type CrossRow struct {
	Key        string   `json:"key" yaml:"key"`
	PMIDs      []string `json:"pmids" yaml:"pmids"`
	Genes      []string `json:"genes,omitempty" yaml:"genes,omitempty"`
	Variants   []string `json:"variants,omitempty" yaml:"variants,omitempty"`
	Diseases   []string `json:"diseases,omitempty" yaml:"diseases,omitempty"`
	Phenotypes []string `json:"phenotypes,omitempty" yaml:"phenotypes,omitempty"`
}

// Result is the finished index for one run. It is not mutated after Build
// returns.
type Result struct {
	Mode       Mode              `json:"-" yaml:"-"`
	Entities   []*EntityEvidence `json:"entities" yaml:"entities"`
	Phenotypes []types.Entity    `json:"phenotypes,omitempty" yaml:"phenotypes,omitempty"`

	// Articles holds every filtered article keyed by PMID; ArticleOrder
	// is the deterministic first-seen order for rendering.
	ArticleOrder []string                  `json:"-" yaml:"-"`
	Articles     map[string]*types.Article `json:"-" yaml:"-"`

	DiseaseRows   []*CrossRow `json:"disease_rows,omitempty" yaml:"disease_rows,omitempty"`
	PhenotypeRows []*CrossRow `json:"phenotype_rows,omitempty" yaml:"phenotype_rows,omitempty"`

	VariantGroups   []*Group `json:"variant_groups,omitempty" yaml:"variant_groups,omitempty"`
	PhenotypeGroups []*Group `json:"phenotype_groups,omitempty" yaml:"phenotype_groups,omitempty"`

	// Skipped lists PMIDs whose detail fetch failed, each once.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Progress produces a per-entity observer for the article-inspection
// loop; nil disables progress reporting.
type Progress func(label string) retrieve.Observer

func (p Progress) observer(label string) retrieve.Observer {
	if p == nil {
		return nil
	}
	return p(label)
}

type groupAcc struct {
	members    []string
	pmids      orderedSet
	diseases   orderedSet
	phenotypes orderedSet
	variants   orderedSet
}

type crossAcc struct {
	pmids      orderedSet
	genes      orderedSet
	variants   orderedSet
	diseases   orderedSet
	phenotypes orderedSet
}

type builder struct {
	cache   *articles.Cache
	filters filter.Set
	mode    Mode

	inputNames     []string        // canonical input names, input order
	inputByUpper   map[string]bool // variant mode co-mention lookup
	phenotypeTerms map[string]bool // input phenotype terms

	result *Result

	crossDiseases   map[string]*crossAcc
	crossPhenotypes map[string]*crossAcc
	crossDiseaseKey []string
	crossPhenoKey   []string

	variantGroups   map[string]*groupAcc
	phenotypeGroups map[string]*groupAcc
	variantGroupKey []string
	phenoGroupKey   []string
}

// Build fetches article detail for every input's PMIDs through the cache,
// applies the filters, and assembles the cross-reference index. For a
// fixed set of fetched articles the table contents do not depend on the
// order inputs are processed: every accumulator appends to a set, nothing
// overwrites.
func Build(ctx context.Context, cache *articles.Cache, filters filter.Set, mode Mode, inputs []Input, inputPhenotypes []types.Entity, progress Progress) (*Result, error) {
	b := &builder{
		cache:   cache,
		filters: filters,
		mode:    mode,

		inputByUpper:   make(map[string]bool, len(inputs)),
		phenotypeTerms: make(map[string]bool, len(inputPhenotypes)),

		result: &Result{
			Mode:       mode,
			Phenotypes: inputPhenotypes,
			Articles:   make(map[string]*types.Article),
		},

		crossDiseases:   make(map[string]*crossAcc),
		crossPhenotypes: make(map[string]*crossAcc),
		variantGroups:   make(map[string]*groupAcc),
		phenotypeGroups: make(map[string]*groupAcc),
	}
	for _, in := range inputs {
		b.inputNames = append(b.inputNames, in.Entity.Name)
		b.inputByUpper[strings.ToUpper(in.Entity.Name)] = true
	}
	for _, p := range inputPhenotypes {
		b.phenotypeTerms[p.Name] = true
	}

	for _, in := range inputs {
		if err := b.entity(ctx, in, progress.observer(in.Entity.Name)); err != nil {
			return nil, err
		}
	}

	b.finish()
	return b.result, nil
}

func (b *builder) entity(ctx context.Context, in Input, obs retrieve.Observer) error {
	ev := &EntityEvidence{
		Entity:     in.Entity,
		Count:      in.Count,
		Diseases:   NewTable(),
		Phenotypes: NewTable(),
		Genes:      NewTable(),
		Variants:   NewTable(),
	}
	var matching, matchingDiseases orderedSet

	total := len(in.PMIDs)
	for i, pmid := range in.PMIDs {
		if obs != nil {
			obs(i+1, total)
		}
		article, err := b.cache.GetOrFetch(ctx, pmid)
		if err != nil {
			return err
		}
		if article == nil || !b.filters.Keep(article) {
			continue
		}
		ev.PMIDs = append(ev.PMIDs, pmid)
		if _, seen := b.result.Articles[pmid]; !seen {
			b.result.Articles[pmid] = article
			b.result.ArticleOrder = append(b.result.ArticleOrder, pmid)
		}

		b.index(ev, article)
		if b.mode == VariantMode {
			b.groups(article)
		} else {
			b.cross(article)
		}

		if terms := b.citedInputPhenotypes(article); len(terms) > 0 {
			matching.addAll(terms)
			ev.PMIDsMatchingPhenotypes = append(ev.PMIDsMatchingPhenotypes, pmid)
			matchingDiseases.addAll(article.Diseases)
			for _, term := range terms {
				b.phenotypeCross(term, article)
			}
		}
	}

	ev.MatchingPhenotypes = matching.values()
	ev.DiseasesMatchingPhenotypes = matchingDiseases.values()
	b.result.Entities = append(b.result.Entities, ev)
	return nil
}

// index fills the entity's per-article association tables. In gene mode
// the entity's own symbol is excluded from its genes table: every article
// cites it and the row would drown the informative ones.
func (b *builder) index(ev *EntityEvidence, a *types.Article) {
	pmid := a.PMID
	for _, d := range a.Diseases {
		ev.Diseases.Add(d, pmid)
	}
	for _, p := range a.Phenotypes {
		ev.Phenotypes.Add(p.Term, pmid)
	}
	for _, g := range a.Genes {
		if b.mode != GeneMode || g.Symbol != ev.Entity.Name {
			ev.Genes.Add(g.Symbol, pmid)
		}
		for _, v := range g.Variants {
			ev.Variants.Add(g.Symbol+":"+v, pmid)
		}
	}
}

// groups detects co-mentions among the run's inputs. Variant matching is
// case-insensitive against the article's cited gene:variant pairs, so
// inputs differing only in case conflate into one group.
func (b *builder) groups(a *types.Article) {
	var present []string
	cited := make(map[string]bool)
	for _, pair := range a.VariantPairs() {
		cited[strings.ToUpper(pair)] = true
	}
	for _, name := range b.inputNames {
		if cited[strings.ToUpper(name)] {
			present = append(present, name)
		}
	}

	var presentTerms []string
	for _, term := range a.PhenotypeTerms() {
		if b.phenotypeTerms[term] {
			presentTerms = append(presentTerms, term)
		}
	}

	if len(present) > 1 {
		g := b.variantGroup(present)
		g.pmids.add(a.PMID)
		g.diseases.addAll(a.Diseases)
		g.phenotypes.addAll(presentTerms)
	}
	if len(presentTerms) > 1 {
		g := b.phenotypeGroup(presentTerms)
		g.pmids.add(a.PMID)
		g.diseases.addAll(a.Diseases)
		g.variants.addAll(present)
	}
}

func groupKey(members []string) (string, []string) {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, "; "), sorted
}

func (b *builder) variantGroup(members []string) *groupAcc {
	key, sorted := groupKey(members)
	g, ok := b.variantGroups[key]
	if !ok {
		g = &groupAcc{members: sorted}
		b.variantGroups[key] = g
		b.variantGroupKey = append(b.variantGroupKey, key)
	}
	return g
}

func (b *builder) phenotypeGroup(members []string) *groupAcc {
	key, sorted := groupKey(members)
	g, ok := b.phenotypeGroups[key]
	if !ok {
		g = &groupAcc{members: sorted}
		b.phenotypeGroups[key] = g
		b.phenoGroupKey = append(b.phenoGroupKey, key)
	}
	return g
}

// cross fills the gene-mode disease and phenotype cross-indexes from one
// article.
func (b *builder) cross(a *types.Article) {
	genes := a.GeneSymbols()
	pairs := a.VariantPairs()
	terms := a.PhenotypeTerms()

	for _, d := range a.Diseases {
		row := b.diseaseCross(d)
		row.pmids.add(a.PMID)
		row.genes.addAll(genes)
		row.variants.addAll(pairs)
		row.phenotypes.addAll(terms)
		for _, other := range a.Diseases {
			if other != d {
				row.diseases.add(other)
			}
		}
	}
	for _, term := range terms {
		row := b.phenotypeCrossAcc(term)
		row.pmids.add(a.PMID)
		row.genes.addAll(genes)
		row.variants.addAll(pairs)
		row.diseases.addAll(a.Diseases)
		for _, other := range terms {
			if other != term {
				row.phenotypes.add(other)
			}
		}
	}
}

// phenotypeCross records a variant-mode cross row for one cited input
// phenotype.
func (b *builder) phenotypeCross(term string, a *types.Article) {
	if b.mode != VariantMode {
		return
	}
	row := b.phenotypeCrossAcc(term)
	row.pmids.add(a.PMID)
	row.genes.addAll(a.GeneSymbols())
	row.variants.addAll(a.VariantPairs())
	row.diseases.addAll(a.Diseases)
}

func (b *builder) diseaseCross(key string) *crossAcc {
	row, ok := b.crossDiseases[key]
	if !ok {
		row = &crossAcc{}
		b.crossDiseases[key] = row
		b.crossDiseaseKey = append(b.crossDiseaseKey, key)
	}
	return row
}

func (b *builder) phenotypeCrossAcc(key string) *crossAcc {
	row, ok := b.crossPhenotypes[key]
	if !ok {
		row = &crossAcc{}
		b.crossPhenotypes[key] = row
		b.crossPhenoKey = append(b.crossPhenoKey, key)
	}
	return row
}

// citedInputPhenotypes returns the input phenotype terms cited by the
// article, in citation order.
func (b *builder) citedInputPhenotypes(a *types.Article) []string {
	if len(b.phenotypeTerms) == 0 {
		return nil
	}
	var terms []string
	for _, t := range a.PhenotypeTerms() {
		if b.phenotypeTerms[t] {
			terms = append(terms, t)
		}
	}
	return terms
}

func (b *builder) finish() {
	for _, key := range b.crossDiseaseKey {
		b.result.DiseaseRows = append(b.result.DiseaseRows, crossRow(key, b.crossDiseases[key]))
	}
	for _, key := range b.crossPhenoKey {
		b.result.PhenotypeRows = append(b.result.PhenotypeRows, crossRow(key, b.crossPhenotypes[key]))
	}
	for _, key := range b.variantGroupKey {
		b.result.VariantGroups = append(b.result.VariantGroups, group(key, b.variantGroups[key]))
	}
	for _, key := range b.phenoGroupKey {
		b.result.PhenotypeGroups = append(b.result.PhenotypeGroups, group(key, b.phenotypeGroups[key]))
	}
	b.result.Skipped = b.cache.Skipped()
}

func crossRow(key string, acc *crossAcc) *CrossRow {
	return &CrossRow{
		Key:        key,
		PMIDs:      acc.pmids.values(),
		Genes:      acc.genes.values(),
		Variants:   acc.variants.values(),
		Diseases:   acc.diseases.values(),
		Phenotypes: acc.phenotypes.values(),
	}
}

func group(key string, acc *groupAcc) *Group {
	return &Group{
		Key:        key,
		Members:    acc.members,
		PMIDs:      acc.pmids.values(),
		Diseases:   acc.diseases.values(),
		Phenotypes: acc.phenotypes.values(),
		Variants:   acc.variants.values(),
	}
}

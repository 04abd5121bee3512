// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/evidence-engine/internal/articles"
	"github.com/pdiddy/evidence-engine/internal/filter"
	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/internal/retrieve"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Service combines the client capabilities the evidence flows need.
// *mastermind.Client satisfies it; tests substitute fakes.
type Service interface {
	Suggest(ctx context.Context, kind, text string) ([]mastermind.Suggestion, error)
	ResolveVariant(ctx context.Context, input string) (string, error)
	Counts(ctx context.Context, q mastermind.Query) (mastermind.CountsResult, error)
	Articles(ctx context.Context, q mastermind.Query, page int) (mastermind.ArticlesPage, error)
	Variants(ctx context.Context, q mastermind.Query, page int) (mastermind.VariantsPage, error)
	ArticleInfo(ctx context.Context, pmid string) (*types.Article, error)
}

// VariantEvidence runs the variant/phenotype flow: normalize the inputs,
// fetch each variant's evidence articles, and build the cross-reference
// index with co-mention groups. Unresolvable inputs are reported to w and
// skipped; service failures abort.
func VariantEvidence(ctx context.Context, svc Service, variantInputs, phenotypeInputs []string, cfg types.EngineConfig, w io.Writer, progress Progress) (*Result, error) {
	if w == nil {
		w = io.Discard
	}
	if cfg.Filter.NucleotideOnly && !cfg.SkipNormalization {
		return nil, errors.New("nucleotide-only filtering requires skipping normalization: normalized variant names are protein effects")
	}

	phenotypes, err := resolvePhenotypes(ctx, svc, phenotypeInputs, w)
	if err != nil {
		return nil, err
	}

	var inputs []Input
	seen := make(map[string]bool)
	withArticles := 0
	for _, raw := range variantInputs {
		if cfg.StopAfter > 0 && withArticles >= cfg.StopAfter {
			fmt.Fprintf(w, "stopping after %d variants with evidence\n", withArticles)
			break
		}

		name := raw
		if !cfg.SkipNormalization {
			name, err = svc.ResolveVariant(ctx, raw)
			if err != nil {
				var unresolvable *mastermind.UnresolvableError
				if errors.As(err, &unresolvable) {
					fmt.Fprintf(w, "skipping %s: %v\n", raw, err)
					continue
				}
				return nil, err
			}
		}
		if seen[name] {
			fmt.Fprintf(w, "articles already fetched for %s\n", name)
			continue
		}
		seen[name] = true

		dnaSpecific := cfg.Filter.NucleotideOnly && filter.ClassifyNotation(name).Nucleotide()
		q := mastermind.Query{Variant: name, Journals: cfg.Filter.Journals, Since: cfg.Filter.MinDate}
		fmt.Fprintf(w, "fetching articles citing %s\n", name)
		res, err := retrieve.FetchArticles(ctx, svc, q, cfg.Retrieval, dnaSpecific, progress.observer(name))
		if err != nil {
			// A transient failure that survived the retry costs this
			// entity its data, not the run.
			if !mastermind.IsTransient(err) {
				return nil, err
			}
			fmt.Fprintf(w, "skipping data for %s: %v\n", name, err)
			res = retrieve.Result{}
		}
		if len(res.PMIDs) > 0 {
			withArticles++
		}
		inputs = append(inputs, Input{
			Entity: types.Entity{Kind: types.EntityVariant, Name: name, Input: raw},
			Count:  res.Count,
			PMIDs:  res.PMIDs,
		})
	}

	cache := articles.New(svc, w)
	filters := filter.NewSet(cfg.Filter, phenotypeIDs(phenotypes))
	return Build(ctx, cache, filters, VariantMode, inputs, phenotypes, progress)
}

// GeneEvidence runs the newly-matched gene flow: for each gene, fetch the
// articles matched inside the [since, until) window and build the
// disease/phenotype cross-indexes from them. A zero until leaves the
// window open-ended. onlyVariants skips genes with no variant-level
// evidence in the window.
func GeneEvidence(ctx context.Context, svc Service, geneInputs []string, since, until time.Time, onlyVariants bool, cfg types.EngineConfig, w io.Writer, progress Progress) (*Result, error) {
	if w == nil {
		w = io.Discard
	}

	var inputs []Input
	seen := make(map[string]bool)
	withEvidence := 0
	for _, raw := range geneInputs {
		if cfg.StopAfter > 0 && withEvidence >= cfg.StopAfter {
			fmt.Fprintf(w, "stopping after %d genes with evidence\n", withEvidence)
			break
		}

		suggestions, err := svc.Suggest(ctx, "gene", raw)
		if err != nil {
			return nil, err
		}
		if len(suggestions) == 0 {
			fmt.Fprintf(w, "skipping %s: no matching gene\n", raw)
			continue
		}
		gene := suggestions[0].Canonical
		if seen[gene] {
			fmt.Fprintf(w, "articles already fetched for %s\n", gene)
			continue
		}
		seen[gene] = true

		sinceQ := mastermind.Query{Gene: gene, Journals: cfg.Filter.Journals, Since: since}
		counts, err := svc.Counts(ctx, sinceQ)
		if err != nil {
			return nil, err
		}

		if onlyVariants {
			vp, err := svc.Variants(ctx, mastermind.Query{Gene: gene, Since: since}, 0)
			if err != nil {
				return nil, err
			}
			if vp.VariantCount == 0 {
				fmt.Fprintf(w, "skipping %s: no variant evidence in window\n", gene)
				continue
			}
		}

		fmt.Fprintf(w, "fetching articles citing %s\n", gene)
		res, err := retrieve.FetchArticles(ctx, svc, sinceQ, cfg.Retrieval, false, progress.observer(gene))
		if err != nil {
			// Same policy as the variant flow: a transient failure skips
			// the gene's data, not the batch.
			if !mastermind.IsTransient(err) {
				return nil, err
			}
			fmt.Fprintf(w, "skipping data for %s: %v\n", gene, err)
			inputs = append(inputs, Input{Entity: types.Entity{Kind: types.EntityGene, Name: gene, Input: raw}})
			continue
		}
		pmids := res.PMIDs
		count := counts.ArticleCount

		// A closed window is the difference of two open-ended fetches:
		// everything since the window start minus everything since its
		// end.
		if !until.IsZero() {
			untilQ := sinceQ
			untilQ.Since = until
			untilCounts, err := svc.Counts(ctx, untilQ)
			if err != nil {
				return nil, err
			}
			untilRes, err := retrieve.FetchArticles(ctx, svc, untilQ, cfg.Retrieval, false, progress.observer(gene))
			if err != nil {
				if !mastermind.IsTransient(err) {
					return nil, err
				}
				fmt.Fprintf(w, "skipping data for %s: %v\n", gene, err)
				inputs = append(inputs, Input{Entity: types.Entity{Kind: types.EntityGene, Name: gene, Input: raw}})
				continue
			}
			pmids = subtract(pmids, untilRes.PMIDs)
			count -= untilCounts.ArticleCount
			if count < 0 {
				count = 0
			}
		}

		if count > 0 || len(pmids) > 0 {
			withEvidence++
		}
		inputs = append(inputs, Input{
			Entity: types.Entity{Kind: types.EntityGene, Name: gene, Input: raw},
			Count:  count,
			PMIDs:  pmids,
		})
	}

	cache := articles.New(svc, w)
	filters := filter.NewSet(cfg.Filter, nil)
	return Build(ctx, cache, filters, GeneMode, inputs, nil, progress)
}

func resolvePhenotypes(ctx context.Context, svc Service, inputs []string, w io.Writer) ([]types.Entity, error) {
	var out []types.Entity
	for _, raw := range inputs {
		suggestions, err := svc.Suggest(ctx, "hpo", raw)
		if err != nil {
			return nil, err
		}
		if len(suggestions) == 0 {
			fmt.Fprintf(w, "skipping phenotype %s: no match\n", raw)
			continue
		}
		out = append(out, types.Entity{
			Kind:       types.EntityPhenotype,
			Name:       suggestions[0].Name,
			Input:      raw,
			OntologyID: suggestions[0].Canonical,
		})
	}
	return out, nil
}

func phenotypeIDs(phenotypes []types.Entity) []string {
	ids := make([]string, len(phenotypes))
	for i, p := range phenotypes {
		ids[i] = p.OntologyID
	}
	return ids
}

// subtract returns the members of pmids not present in exclude, order
// preserved.
func subtract(pmids, exclude []string) []string {
	drop := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		drop[p] = true
	}
	var kept []string
	for _, p := range pmids {
		if !drop[p] {
			kept = append(kept, p)
		}
	}
	return kept
}

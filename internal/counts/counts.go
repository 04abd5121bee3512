// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package counts runs the bulk citation-count surveys: per-gene article
// counts and the VCF-driven variant/disease survey.
// Implements: prd001-retrieval (counts operations).
package counts

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/internal/vcfio"
)

// Service is the slice of the evidence client the surveys need.
type Service interface {
	Suggest(ctx context.Context, kind, text string) ([]mastermind.Suggestion, error)
	Counts(ctx context.Context, q mastermind.Query) (mastermind.CountsResult, error)
	Diseases(ctx context.Context, q mastermind.Query) ([]mastermind.DiseaseCount, error)
}

// WriteGeneCounts fetches the citation count for every gene and writes
// gene,count CSV rows to w. Genes the service cannot count are reported
// to errw and skipped; status goes to errw as well. Unknown genes count
// as zero, mirroring the service's 404 semantics.
func WriteGeneCounts(ctx context.Context, svc Service, genes []string, w, errw io.Writer) error {
	if errw == nil {
		errw = io.Discard
	}
	cw := csv.NewWriter(w)
	for _, raw := range genes {
		gene := strings.TrimSpace(raw)
		if gene == "" {
			continue
		}
		fmt.Fprintf(errw, "%s: querying article count\n", gene)
		result, err := svc.Counts(ctx, mastermind.Query{Gene: gene})
		if err != nil {
			if mastermind.IsTransient(err) {
				fmt.Fprintf(errw, "skipping %s: %v\n", gene, err)
				continue
			}
			return err
		}
		if err := cw.Write([]string{gene, strconv.Itoa(result.ArticleCount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// diseaseSurveyHeader builds the column header for one disease.
func diseaseSurveyHeader(disease string) []string {
	return []string{
		"SYMBOL",
		"Variant",
		"Code",
		"Variant Link",
		fmt.Sprintf("Variant %q Article Count", disease),
		"Variant Article Count",
		"Variant Diseases (Article Count)",
		"Gene Link",
		fmt.Sprintf("Gene %q Article Count", disease),
		"Gene Article Count",
		"Gene Diseases (Article Count)",
	}
}

// WriteDiseaseSurvey converts each VCF record to a genomic HGVS
// description, resolves it, and writes one CSV row per matching variant
// with citation counts for the variant, its gene, and the focus disease.
// Unresolvable variants are reported to errw and skipped.
func WriteDiseaseSurvey(ctx context.Context, svc Service, records []vcfio.Record, disease string, w, errw io.Writer) error {
	if errw == nil {
		errw = io.Discard
	}

	suggestions, err := svc.Suggest(ctx, "disease", disease)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		return fmt.Errorf("disease %q not recognized", disease)
	}
	canonicalDisease := suggestions[0].Canonical

	cw := csv.NewWriter(w)
	if err := cw.Write(diseaseSurveyHeader(canonicalDisease)); err != nil {
		return err
	}

	for _, rec := range records {
		variant := rec.HGVS()
		matches, err := svc.Suggest(ctx, "variant", variant)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintf(errw, "variant %s not found, skipping\n", variant)
			continue
		}
		for _, match := range matches {
			row, err := surveyRow(ctx, svc, match, canonicalDisease)
			if err != nil {
				return err
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func surveyRow(ctx context.Context, svc Service, match mastermind.Suggestion, disease string) ([]string, error) {
	gene, change := splitPair(match.Canonical)

	variantDisease, err := svc.Counts(ctx, mastermind.Query{Variant: match.Canonical, Disease: disease})
	if err != nil {
		return nil, err
	}
	variantTotal, err := svc.Counts(ctx, mastermind.Query{Variant: match.Canonical})
	if err != nil {
		return nil, err
	}
	variantDiseases, err := svc.Diseases(ctx, mastermind.Query{Variant: match.Canonical})
	if err != nil {
		return nil, err
	}
	geneTotal, err := svc.Counts(ctx, mastermind.Query{Gene: gene})
	if err != nil {
		return nil, err
	}
	geneDisease, err := svc.Counts(ctx, mastermind.Query{Gene: gene, Disease: disease})
	if err != nil {
		return nil, err
	}
	geneDiseases, err := svc.Diseases(ctx, mastermind.Query{Gene: gene})
	if err != nil {
		return nil, err
	}

	return []string{
		gene,
		change,
		match.Canonical,
		match.URL,
		strconv.Itoa(variantDisease.ArticleCount),
		strconv.Itoa(variantTotal.ArticleCount),
		joinDiseaseCounts(variantDiseases),
		geneTotal.URL,
		strconv.Itoa(geneDisease.ArticleCount),
		strconv.Itoa(geneTotal.ArticleCount),
		joinDiseaseCounts(geneDiseases),
	}, nil
}

func joinDiseaseCounts(diseases []mastermind.DiseaseCount) string {
	parts := make([]string, len(diseases))
	for i, d := range diseases {
		parts[i] = fmt.Sprintf("%s(%d)", d.Key, d.ArticleCount)
	}
	return strings.Join(parts, "|")
}

func splitPair(canonical string) (gene, change string) {
	if i := strings.IndexByte(canonical, ':'); i >= 0 {
		return canonical[:i], canonical[i+1:]
	}
	return canonical, ""
}

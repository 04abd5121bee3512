// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// WriteArticlesCSV writes one row per filtered article, in first-seen
// order.
func WriteArticlesCSV(w io.Writer, result *aggregate.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pmid", "date", "journal", "title", "genes", "variants", "diseases", "phenotypes"}); err != nil {
		return err
	}
	for _, pmid := range result.ArticleOrder {
		a := result.Articles[pmid]
		date := ""
		if !a.Date.IsZero() {
			date = a.Date.Format("2006-01-02")
		}
		row := []string{
			a.PMID,
			date,
			a.Journal,
			a.Title,
			strings.Join(a.GeneSymbols(), "; "),
			strings.Join(a.VariantPairs(), "; "),
			strings.Join(a.Diseases, "; "),
			strings.Join(a.PhenotypeTerms(), "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDiseasesCSV writes the ranked per-entity disease tables.
func WriteDiseasesCSV(w io.Writer, result *aggregate.Result, cfg types.ReportConfig) error {
	return writeTableCSV(w, result, cfg, "disease", func(ev *aggregate.EntityEvidence) *aggregate.Table {
		return ev.Diseases
	})
}

// WritePhenotypesCSV writes the ranked per-entity phenotype tables.
func WritePhenotypesCSV(w io.Writer, result *aggregate.Result, cfg types.ReportConfig) error {
	return writeTableCSV(w, result, cfg, "phenotype", func(ev *aggregate.EntityEvidence) *aggregate.Table {
		return ev.Phenotypes
	})
}

// WriteGenesCSV writes the ranked per-entity gene tables.
func WriteGenesCSV(w io.Writer, result *aggregate.Result, cfg types.ReportConfig) error {
	return writeTableCSV(w, result, cfg, "gene", func(ev *aggregate.EntityEvidence) *aggregate.Table {
		return ev.Genes
	})
}

// WriteVariantsCSV writes the ranked per-entity variant tables.
func WriteVariantsCSV(w io.Writer, result *aggregate.Result, cfg types.ReportConfig) error {
	return writeTableCSV(w, result, cfg, "variant", func(ev *aggregate.EntityEvidence) *aggregate.Table {
		return ev.Variants
	})
}

// writeTableCSV emits entity,key,article_count,pmids rows. Keys stay in
// their raw service form; display casing is a text-rendering concern.
func writeTableCSV(w io.Writer, result *aggregate.Result, cfg types.ReportConfig, kind string, pick func(*aggregate.EntityEvidence) *aggregate.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"entity", kind, "article_count", "pmids"}); err != nil {
		return err
	}
	for _, ev := range result.Entities {
		rows, _ := Truncate(Ranked(pick(ev)), cfg.OmitSingletons)
		for _, row := range rows {
			record := []string{
				ev.Entity.Name,
				row.Key,
				strconv.Itoa(len(row.PMIDs)),
				strings.Join(row.PMIDs, "; "),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/internal/retrieve"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

var geneVariantsCmd = &cobra.Command{
	Use:   "gene-variants [gene...]",
	Short: "List every variant of a gene with its citation count",
	Long: `Gene-variants pages through the full variant listing of each gene and
writes one row per variant with its citation count and service link.
Output is CSV by default; --json writes a JSON document instead.`,
	RunE: runGeneVariants,
}

func init() {
	geneVariantsCmd.Flags().String("genes-file", "", "file with one gene symbol per line")
	geneVariantsCmd.Flags().String("out", "", "output file (default stdout)")
	geneVariantsCmd.Flags().Bool("json", false, "output as JSON instead of CSV")
	geneVariantsCmd.Flags().Int("max-pages", 0, "cap on variant listing pages per gene (default 1000)")

	rootCmd.AddCommand(geneVariantsCmd)
}

func runGeneVariants(cmd *cobra.Command, args []string) error {
	genes, err := gatherInputs(cmd, args, "genes-file")
	if err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	maxPages, _ := cmd.Flags().GetInt("max-pages")
	cfg := types.RetrievalConfig{MaxVariantPages: maxPages}

	var records []mastermind.VariantRecord
	for _, gene := range genes {
		fmt.Fprintf(os.Stderr, "fetching variants of %s\n", gene)
		bar := progressFunc(cmd)
		var obs retrieve.Observer
		if bar != nil {
			obs = bar(gene)
		}
		geneRecords, err := retrieve.FetchVariants(cmd.Context(), svc, mastermind.Query{Gene: gene}, cfg, obs)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "got %d variants for %s\n", len(geneRecords), gene)
		records = append(records, geneRecords...)
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"gene", "variant", "article_count", "url"}); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Gene, rec.Key, strconv.Itoa(rec.ArticleCount), rec.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

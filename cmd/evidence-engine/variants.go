// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/internal/report"
	"github.com/pdiddy/evidence-engine/internal/store"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

var variantsCmd = &cobra.Command{
	Use:   "variants [gene:change...]",
	Short: "Cross-reference the evidence articles citing a set of variants",
	Long: `Variants fetches the evidence articles citing each input variant, builds
per-variant association tables (diseases, phenotypes, co-cited genes and
variants), and detects variants the literature mentions together. Optional
input phenotypes are matched against each article's phenotype citations.

Inputs are gene:change pairs ("BRCA1:c.68_69delAG"). They are normalized
through the service's suggestion lookup unless --skip-normalization is set.`,
	RunE: runVariants,
}

func init() {
	variantsCmd.Flags().String("variants-file", "", "file with one variant per line")
	variantsCmd.Flags().String("phenotypes", "", "comma-separated input phenotypes")
	variantsCmd.Flags().String("phenotypes-file", "", "file with one phenotype per line")
	variantsCmd.Flags().String("out", "evidence", "output directory")
	variantsCmd.Flags().String("db", "", "also persist the run to this SQLite database")

	addEngineFlags(variantsCmd)
	rootCmd.AddCommand(variantsCmd)
}

// addEngineFlags registers the retrieval/filter/report flags shared by
// the evidence workflows.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("sensitivity", 0, fmt.Sprintf("ranked-article ceiling per query (default %d, max %d)", types.DefaultSensitivity, types.MaxSensitivity))
	cmd.Flags().Int("page-size", 0, fmt.Sprintf("article records per page (default %d)", types.DefaultPageSize))
	cmd.Flags().String("min-date", "", "discard articles published before this date (YYYY-MM-DD)")
	cmd.Flags().String("journals", "", "comma-separated journal allowlist (ISO 4 abbreviations)")
	cmd.Flags().Bool("nucleotide-only", false, "keep only nucleotide-level matches for nucleotide-level inputs")
	cmd.Flags().Bool("require-phenotypes", false, "keep only articles citing at least one input phenotype")
	cmd.Flags().Bool("omit-singletons", false, "truncate association tables at the first single-article row")
	cmd.Flags().Bool("skip-normalization", false, "use inputs verbatim instead of normalizing them")
	cmd.Flags().Int("stop-after", 0, "stop fetching after this many inputs with evidence")
}

func engineConfig(cmd *cobra.Command) (types.EngineConfig, error) {
	var cfg types.EngineConfig
	cfg.Retrieval.Sensitivity, _ = cmd.Flags().GetInt("sensitivity")
	cfg.Retrieval.PageSize, _ = cmd.Flags().GetInt("page-size")

	minDate, _ := cmd.Flags().GetString("min-date")
	t, err := parseDate(minDate)
	if err != nil {
		return cfg, err
	}
	cfg.Filter.MinDate = t

	if journals, _ := cmd.Flags().GetString("journals"); journals != "" {
		for _, j := range strings.Split(journals, ",") {
			if j = strings.TrimSpace(j); j != "" {
				cfg.Filter.Journals = append(cfg.Filter.Journals, j)
			}
		}
	}
	cfg.Filter.NucleotideOnly, _ = cmd.Flags().GetBool("nucleotide-only")
	cfg.Filter.RequirePhenotypes, _ = cmd.Flags().GetBool("require-phenotypes")
	cfg.Report.OmitSingletons, _ = cmd.Flags().GetBool("omit-singletons")
	cfg.SkipNormalization, _ = cmd.Flags().GetBool("skip-normalization")
	cfg.StopAfter, _ = cmd.Flags().GetInt("stop-after")
	return cfg, nil
}

// writeRun renders the result set and optionally persists it.
func writeRun(cmd *cobra.Command, result *aggregate.Result, cfg types.EngineConfig) error {
	outDir, _ := cmd.Flags().GetString("out")
	reporter, err := report.NewReporter(outDir, cfg.Report)
	if err != nil {
		return err
	}
	runID, err := reporter.Write(result)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote run %s to %s\n", runID, outDir)

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		s, err := store.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveRun(cmd.Context(), runID, result); err != nil {
			return fmt.Errorf("persisting run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "persisted run %s to %s\n", runID, dbPath)
	}

	return report.WriteSummary(os.Stdout, result)
}

func runVariants(cmd *cobra.Command, args []string) error {
	variants, err := gatherInputs(cmd, args, "variants-file")
	if err != nil {
		return err
	}

	var phenotypes []string
	if list, _ := cmd.Flags().GetString("phenotypes"); list != "" {
		for _, p := range strings.Split(list, ",") {
			if p = strings.TrimSpace(p); p != "" {
				phenotypes = append(phenotypes, p)
			}
		}
	}
	if path, _ := cmd.Flags().GetString("phenotypes-file"); path != "" {
		fromFile, err := readLines(path)
		if err != nil {
			return err
		}
		phenotypes = append(phenotypes, fromFile...)
	}

	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	result, err := aggregate.VariantEvidence(cmd.Context(), svc, variants, phenotypes, cfg, os.Stderr, progressFunc(cmd))
	if err != nil {
		return err
	}
	if len(result.Entities) == 0 {
		return fmt.Errorf("no input variant could be resolved")
	}
	return writeRun(cmd, result, cfg)
}

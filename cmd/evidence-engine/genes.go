// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
)

var genesCmd = &cobra.Command{
	Use:   "genes [gene...]",
	Short: "Survey newly matched evidence for a set of genes",
	Long: `Genes fetches the evidence articles matched for each gene inside a time
window and builds disease and phenotype cross-indexes from them: which
diseases and phenotypes the window's literature associates with each gene,
and through which articles.

The window starts at --since and optionally ends at --until; without --until
it extends to the present.`,
	RunE: runGenes,
}

func init() {
	genesCmd.Flags().String("genes-file", "", "file with one gene symbol per line")
	genesCmd.Flags().String("since", "", "window start (YYYY-MM-DD, required)")
	genesCmd.Flags().String("until", "", "window end (YYYY-MM-DD, open-ended when omitted)")
	genesCmd.Flags().Bool("only-variants", false, "skip genes with no variant-level evidence in the window")
	genesCmd.Flags().String("out", "evidence", "output directory")
	genesCmd.Flags().String("db", "", "also persist the run to this SQLite database")

	addEngineFlags(genesCmd)
	rootCmd.AddCommand(genesCmd)
}

func runGenes(cmd *cobra.Command, args []string) error {
	genes, err := gatherInputs(cmd, args, "genes-file")
	if err != nil {
		return err
	}

	sinceStr, _ := cmd.Flags().GetString("since")
	if sinceStr == "" {
		return fmt.Errorf("--since is required")
	}
	since, err := parseDate(sinceStr)
	if err != nil {
		return err
	}
	untilStr, _ := cmd.Flags().GetString("until")
	until, err := parseDate(untilStr)
	if err != nil {
		return err
	}
	if !until.IsZero() && !until.After(since) {
		return fmt.Errorf("--until must be after --since")
	}
	onlyVariants, _ := cmd.Flags().GetBool("only-variants")

	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	result, err := aggregate.GeneEvidence(cmd.Context(), svc, genes, since, until, onlyVariants, cfg, os.Stderr, progressFunc(cmd))
	if err != nil {
		return err
	}
	if len(result.Entities) == 0 {
		return fmt.Errorf("no input gene had evidence in the window")
	}
	return writeRun(cmd, result, cfg)
}

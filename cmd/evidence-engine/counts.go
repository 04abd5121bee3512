// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/counts"
)

var countsCmd = &cobra.Command{
	Use:   "counts [gene...]",
	Short: "Fetch citation counts for a list of genes",
	Long: `Counts queries the citation count for each gene and writes gene,count CSV
rows. Genes unknown to the service count as zero. One request per gene.`,
	RunE: runCounts,
}

func init() {
	countsCmd.Flags().String("genes-file", "", "file with one gene symbol per line")
	countsCmd.Flags().String("out", "", "output CSV file (default stdout)")

	rootCmd.AddCommand(countsCmd)
}

func runCounts(cmd *cobra.Command, args []string) error {
	genes, err := gatherInputs(cmd, args, "genes-file")
	if err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
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
	return counts.WriteGeneCounts(cmd.Context(), svc, genes, out, os.Stderr)
}

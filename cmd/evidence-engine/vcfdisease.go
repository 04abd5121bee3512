// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/counts"
	"github.com/pdiddy/evidence-engine/internal/vcfio"
)

var vcfDiseaseCmd = &cobra.Command{
	Use:   "vcf-disease <input.vcf> <disease>",
	Short: "Survey disease evidence for the variants of a VCF file",
	Long: `Vcf-disease converts each VCF record to a genomic HGVS description against
GRCh37, resolves it through the service, and writes one CSV row per matching
variant: citation counts for the variant, its gene, and the focus disease,
plus each one's most associated diseases.`,
	Args: cobra.ExactArgs(2),
	RunE: runVCFDisease,
}

func init() {
	vcfDiseaseCmd.Flags().String("out", "", "output CSV file (default stdout)")

	rootCmd.AddCommand(vcfDiseaseCmd)
}

func runVCFDisease(cmd *cobra.Command, args []string) error {
	inputPath, disease := args[0], args[1]

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening VCF: %w", err)
	}
	records, parseErr := vcfio.Parse(f)
	f.Close()
	if parseErr != nil {
		return parseErr
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no variant records", inputPath)
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		outFile, err := os.Create(path)
		if err != nil {
			return err
		}
		defer outFile.Close()
		out = outFile
	}
	return counts.WriteDiseaseSurvey(cmd.Context(), svc, records, disease, out, os.Stderr)
}

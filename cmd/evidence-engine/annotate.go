// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/evidence-engine/internal/annotate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <input.vcf.gz>",
	Short: "Annotate a compressed VCF file with citation counts",
	Long: `Annotate runs a file-annotation job: create the job, upload the
gzip-compressed VCF, poll until the service finishes, and download the
annotated result next to the input file.

A previously created job can be resumed with --job-id; the upload is
skipped when the job is already past its created state.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().String("job-id", "", "resume an existing annotation job")
	annotateCmd.Flags().String("assembly", "grch37", "reference assembly (grch37 or grch38)")
	annotateCmd.Flags().Duration("poll-interval", 5*time.Second, "delay between job state checks")

	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	jobID, _ := cmd.Flags().GetString("job-id")
	assembly, _ := cmd.Flags().GetString("assembly")
	if assembly != "grch37" && assembly != "grch38" {
		return fmt.Errorf("unsupported assembly %q", assembly)
	}
	pollInterval, _ := cmd.Flags().GetDuration("poll-interval")

	if jobID == "" {
		if _, err := os.Stat(inputPath); err != nil {
			return fmt.Errorf("input file: %w", err)
		}
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	runner := annotate.NewRunner(svc, types.AnnotateConfig{
		Assembly:     assembly,
		PollInterval: pollInterval,
	}, os.Stderr)

	outputPath, err := runner.Annotate(cmd.Context(), inputPath, jobID)
	if err != nil {
		return err
	}
	fmt.Println(outputPath)
	return nil
}

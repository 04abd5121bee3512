// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/evidence-engine/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and inspect runs persisted with --db",
	Long: `Runs reads a SQLite database written by a previous evidence run. Without
further flags it lists the stored runs, newest first. --run prints one run's
association rows of a kind, and --pmid prints a stored article detail
record.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("db", "", "SQLite database written by a previous run")
	runsCmd.Flags().String("run", "", "run ID whose associations to print")
	runsCmd.Flags().String("kind", "disease", "association kind: disease, phenotype, gene, variant, variant_group, phenotype_group")
	runsCmd.Flags().String("pmid", "", "PMID of a stored article to print")
	runsCmd.MarkFlagRequired("db")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	s, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if pmid, _ := cmd.Flags().GetString("pmid"); pmid != "" {
		return writeStoredArticle(cmd.Context(), s, os.Stdout, pmid)
	}
	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		kind, _ := cmd.Flags().GetString("kind")
		return writeRunAssociations(cmd.Context(), s, os.Stdout, runID, kind)
	}
	return writeRunsList(cmd.Context(), s, os.Stdout)
}

func writeRunsList(ctx context.Context, s *store.Store, w io.Writer) error {
	runs, err := s.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no stored runs")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  %s\n", run.ID, run.Mode, run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func writeRunAssociations(ctx context.Context, s *store.Store, w io.Writer, runID, kind string) error {
	rows, err := s.Associations(ctx, runID, kind)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no %s associations", runID, kind)
	}
	for _, row := range rows {
		if row.Entity != "" {
			fmt.Fprintf(w, "%s: ", row.Entity)
		}
		fmt.Fprintf(w, "%s (%d): %s\n", row.Key, row.ArticleCount, strings.Join(row.PMIDs, ", "))
	}
	return nil
}

func writeStoredArticle(ctx context.Context, s *store.Store, w io.Writer, pmid string) error {
	article, err := s.Article(ctx, pmid)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("article %s is not stored", pmid)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(article); err != nil {
		return err
	}
	return enc.Close()
}

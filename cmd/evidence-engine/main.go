// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the evidence-engine CLI.
// Implements: prd001-retrieval, prd002-aggregation, prd003-reporting,
//             prd004-annotation (CLI surface).
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/internal/progress"
	"github.com/pdiddy/evidence-engine/internal/retrieve"
	"github.com/pdiddy/evidence-engine/internal/secrets"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "evidence-engine/0.1"

// rootCmd is the base command for the evidence-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "evidence-engine",
	Short: "Aggregate literature evidence for genomic entities",
	Long: `evidence-engine queries a genomic evidence service for the articles citing
genes, variants, diseases, and phenotypes, then cross-references the results:
which diseases, phenotypes, and other variants each entity's literature also
cites, and which inputs the literature mentions together.

Each workflow is a subcommand: variants, genes, counts, gene-variants,
vcf-disease, and annotate. Persisted runs are inspected with runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./evidence-engine.yaml or XDG config dir)")
	rootCmd.PersistentFlags().String("base-url", "", "evidence service API root")
	rootCmd.PersistentFlags().String("token", "", "API token (overrides secrets and environment)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of credential key files")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress progress bars")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("evidence-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "evidence-engine"))
	}

	viper.SetEnvPrefix("EVIDENCE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newService builds the API client from flags, config, and secrets.
func newService(cmd *cobra.Command) (*mastermind.Client, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = viper.GetString("token")
	}
	if token == "" {
		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		t, err := secrets.Token(secretsDir)
		if err != nil {
			return nil, err
		}
		token = t
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("base_url")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("timeout")
	}

	return mastermind.NewClient(types.ServiceConfig{
		BaseURL:   baseURL,
		Token:     token,
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}), nil
}

// progressFunc returns the per-entity progress renderer, or nil with
// --quiet.
func progressFunc(cmd *cobra.Command) aggregate.Progress {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	return func(label string) retrieve.Observer {
		return progress.NewBar(os.Stderr, label).Observer()
	}
}

// readLines reads one entry per line, skipping blanks and '#' comments.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return lines, nil
}

// gatherInputs merges positional arguments with an optional input file.
func gatherInputs(cmd *cobra.Command, args []string, fileFlag string) ([]string, error) {
	inputs := append([]string(nil), args...)
	if path, _ := cmd.Flags().GetString(fileFlag); path != "" {
		fromFile, err := readLines(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, fromFile...)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("provide inputs as arguments or via --%s", fileFlag)
	}
	return inputs, nil
}

// parseDate parses a YYYY-MM-DD flag value; empty is the zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Reporter writes the full output set of a run into one directory.
type Reporter struct {
	dir string
	cfg types.ReportConfig
}

// NewReporter builds a reporter targeting dir, creating it if needed.
func NewReporter(dir string, cfg types.ReportConfig) (*Reporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &Reporter{dir: dir, cfg: cfg}, nil
}

// Write renders every output file for the result and returns the run ID
// of the written bundle.
func (r *Reporter) Write(result *aggregate.Result) (string, error) {
	bundle := NewBundle(result)

	files := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"evidence.yaml", func(f *os.File) error { return bundle.WriteYAML(f) }},
		{"articles.csv", func(f *os.File) error { return WriteArticlesCSV(f, result) }},
		{"diseases.csv", func(f *os.File) error { return WriteDiseasesCSV(f, result, r.cfg) }},
		{"phenotypes.csv", func(f *os.File) error { return WritePhenotypesCSV(f, result, r.cfg) }},
		{"genes.csv", func(f *os.File) error { return WriteGenesCSV(f, result, r.cfg) }},
		{"variants.csv", func(f *os.File) error { return WriteVariantsCSV(f, result, r.cfg) }},
		{"associations.txt", func(f *os.File) error { return WriteAssociations(f, result, r.cfg) }},
		{"associations-summary.txt", func(f *os.File) error { return WriteSummary(f, result) }},
	}
	for _, out := range files {
		if err := r.writeFile(out.name, out.write); err != nil {
			return "", err
		}
	}
	return bundle.RunID, nil
}

func (r *Reporter) writeFile(name string, write func(f *os.File) error) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

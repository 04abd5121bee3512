// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Bundle is the machine-readable record of one run: every entity's
// ranked tables plus the cross-indexes and groups, under a unique run
// ID.
type Bundle struct {
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`

	Entities   []EntityDoc    `yaml:"entities"`
	Phenotypes []types.Entity `yaml:"phenotypes,omitempty"`

	DiseaseRows   []*aggregate.CrossRow `yaml:"disease_rows,omitempty"`
	PhenotypeRows []*aggregate.CrossRow `yaml:"phenotype_rows,omitempty"`

	VariantGroups   []*aggregate.Group `yaml:"variant_groups,omitempty"`
	PhenotypeGroups []*aggregate.Group `yaml:"phenotype_groups,omitempty"`

	Skipped []string `yaml:"skipped,omitempty"`
}

// EntityDoc is the bundle form of one entity's evidence, tables ranked.
type EntityDoc struct {
	Entity types.Entity `yaml:"entity"`
	Count  int          `yaml:"count"`
	PMIDs  []string     `yaml:"pmids"`

	Diseases   []aggregate.Row `yaml:"diseases,omitempty"`
	Phenotypes []aggregate.Row `yaml:"phenotypes,omitempty"`
	Genes      []aggregate.Row `yaml:"genes,omitempty"`
	Variants   []aggregate.Row `yaml:"variants,omitempty"`

	MatchingPhenotypes         []string `yaml:"matching_phenotypes,omitempty"`
	PMIDsMatchingPhenotypes    []string `yaml:"pmids_matching_phenotypes,omitempty"`
	DiseasesMatchingPhenotypes []string `yaml:"diseases_matching_phenotypes,omitempty"`
}

// NewBundle freezes a result into bundle form under a fresh run ID.
func NewBundle(result *aggregate.Result) *Bundle {
	b := &Bundle{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),

		Phenotypes:      result.Phenotypes,
		DiseaseRows:     result.DiseaseRows,
		PhenotypeRows:   result.PhenotypeRows,
		VariantGroups:   result.VariantGroups,
		PhenotypeGroups: result.PhenotypeGroups,
		Skipped:         result.Skipped,
	}
	for _, ev := range result.Entities {
		b.Entities = append(b.Entities, EntityDoc{
			Entity:                     ev.Entity,
			Count:                      ev.Count,
			PMIDs:                      ev.PMIDs,
			Diseases:                   Ranked(ev.Diseases),
			Phenotypes:                 Ranked(ev.Phenotypes),
			Genes:                      Ranked(ev.Genes),
			Variants:                   Ranked(ev.Variants),
			MatchingPhenotypes:         ev.MatchingPhenotypes,
			PMIDsMatchingPhenotypes:    ev.PMIDsMatchingPhenotypes,
			DiseasesMatchingPhenotypes: ev.DiseasesMatchingPhenotypes,
		})
	}
	return b
}

// WriteYAML serializes the bundle.
func (b *Bundle) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"testing"
	"time"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

func TestClassifyNotation(t *testing.T) {
	tests := []struct {
		variant string
		want    NotationKind
	}{
		{"BRCA1:c.68_69delAG", NotationCoding},
		{"PKHD1:c.10036T>C", NotationCoding},
		{"c.181T>G", NotationCoding},
		{"NC_000012.11:g.57489193T>C", NotationGenomic},
		{"NC_000001.10:g.100delinsAT", NotationGenomic},
		{"rs113488022", NotationRSID},
		{"BRAF:rs113488022", NotationRSID},
		{"CFTR:IVS8-5T", NotationIntronic},
		{"BRAF:V600E", NotationProtein},
		{"acads:p.R330C", NotationProtein},
		{"lrig2:p.Ile852Phe", NotationProtein},
		{"npc1:A927V", NotationProtein},
		{"", NotationProtein},
		// "c." with no position stays protein-level.
		{"GENE:c.x", NotationProtein},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			if got := ClassifyNotation(tt.variant); got != tt.want {
				t.Errorf("ClassifyNotation(%q) = %v, want %v", tt.variant, got, tt.want)
			}
		})
	}
}

func TestNotationKindNucleotide(t *testing.T) {
	nucleotide := []NotationKind{NotationCoding, NotationGenomic, NotationRSID, NotationIntronic}
	for _, k := range nucleotide {
		if !k.Nucleotide() {
			t.Errorf("%v.Nucleotide() = false, want true", k)
		}
	}
	if NotationProtein.Nucleotide() {
		t.Error("NotationProtein.Nucleotide() = true, want false")
	}
}

func article(journal string, date time.Time, hpoKeys ...string) *types.Article {
	a := &types.Article{PMID: "1", Journal: journal, Date: date}
	for _, key := range hpoKeys {
		a.Phenotypes = append(a.Phenotypes, types.Phenotype{Term: "term-" + key, Key: key})
	}
	return a
}

func TestSetKeep(t *testing.T) {
	cutoff := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	old := article("Nat. Genet.", time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), "HP:0000001")
	recent := article("Nat. Genet.", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), "HP:0000001")

	tests := []struct {
		name    string
		cfg     types.FilterConfig
		hpoIDs  []string
		article *types.Article
		want    bool
	}{
		{"zero set keeps everything", types.FilterConfig{}, nil, old, true},
		{"date cutoff discards older", types.FilterConfig{MinDate: cutoff}, nil, old, false},
		{"date cutoff keeps newer", types.FilterConfig{MinDate: cutoff}, nil, recent, true},
		{"journal allowlist match", types.FilterConfig{Journals: []string{"Nat. Genet."}}, nil, recent, true},
		{"journal allowlist miss", types.FilterConfig{Journals: []string{"Hum. Mutat."}}, nil, recent, false},
		{"phenotype presence match", types.FilterConfig{RequirePhenotypes: true}, []string{"HP:0000001"}, recent, true},
		{"phenotype presence miss", types.FilterConfig{RequirePhenotypes: true}, []string{"HP:0999999"}, recent, false},
		{
			"date rejection wins even when other filters pass",
			types.FilterConfig{MinDate: cutoff, Journals: []string{"Nat. Genet."}, RequirePhenotypes: true},
			[]string{"HP:0000001"},
			old,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet(tt.cfg, tt.hpoIDs)
			if got := s.Keep(tt.article); got != tt.want {
				t.Errorf("Keep() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpecificityMatch(t *testing.T) {
	dna := types.ArticleRef{PMID: "1", MatchedDNA: true}
	protein := types.ArticleRef{PMID: "2", MatchedDNA: false}

	if !SpecificityMatch(false, protein) {
		t.Error("inactive predicate must keep protein-level matches")
	}
	if !SpecificityMatch(true, dna) {
		t.Error("active predicate must keep nucleotide-level matches")
	}
	if SpecificityMatch(true, protein) {
		t.Error("active predicate must discard protein-only matches")
	}
}

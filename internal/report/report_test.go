// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

func tableOf(rows map[string][]string, order []string) *aggregate.Table {
	t := aggregate.NewTable()
	for _, key := range order {
		for _, pmid := range rows[key] {
			t.Add(key, pmid)
		}
	}
	return t
}

func TestRanked_StableDescending(t *testing.T) {
	tbl := tableOf(map[string][]string{
		"melanoma":          {"1", "2"},
		"colorectal cancer": {"3", "4", "5"},
		"lung cancer":       {"6", "7"},
		"glioma":            {"8"},
	}, []string{"melanoma", "colorectal cancer", "lung cancer", "glioma"})

	rows := Ranked(tbl)
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"colorectal cancer", "melanoma", "lung cancer", "glioma"}, keys,
		"ties keep insertion order")
}

func TestTruncate(t *testing.T) {
	rows := []aggregate.Row{
		{Key: "a", PMIDs: []string{"1", "2"}},
		{Key: "b", PMIDs: []string{"3"}},
		{Key: "c", PMIDs: []string{"4"}},
	}

	kept, truncated := Truncate(rows, false)
	assert.Len(t, kept, 3)
	assert.False(t, truncated)

	kept, truncated = Truncate(rows, true)
	assert.Len(t, kept, 1)
	assert.True(t, truncated)

	kept, truncated = Truncate(rows[:1], true)
	assert.Len(t, kept, 1)
	assert.False(t, truncated, "nothing cut, no marker")
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Breast-Ovarian Cancer", DisplayTitle("breast-ovarian cancer"))
	assert.Equal(t, "Noonan Syndrome", DisplayTitle("noonan syndrome"))
	assert.Equal(t, "BRCA1 Deficiency", DisplayTitle("BRCA1 deficiency"),
		"already-capitalized letters survive")
}

func sampleResult() *aggregate.Result {
	ev := &aggregate.EntityEvidence{
		Entity:     types.Entity{Kind: types.EntityVariant, Name: "BRCA1:c.181T>G"},
		Count:      2,
		PMIDs:      []string{"1000001", "1000002"},
		Diseases:   tableOf(map[string][]string{"breast-ovarian cancer": {"1000001", "1000002"}, "pancreatic cancer": {"1000002"}}, []string{"breast-ovarian cancer", "pancreatic cancer"}),
		Phenotypes: tableOf(map[string][]string{"Breast carcinoma": {"1000001"}}, []string{"Breast carcinoma"}),
		Genes:      tableOf(map[string][]string{"BRCA1": {"1000001", "1000002"}}, []string{"BRCA1"}),
		Variants:   tableOf(map[string][]string{"BRCA1:c.181T>G": {"1000001", "1000002"}}, []string{"BRCA1:c.181T>G"}),
	}
	return &aggregate.Result{
		Entities: []*aggregate.EntityEvidence{ev},
		Articles: map[string]*types.Article{
			"1000001": {
				PMID:     "1000001",
				Journal:  "Nat Genet",
				Title:    "founder mutations",
				Genes:    []types.GeneMention{{Symbol: "BRCA1", Variants: []string{"c.181T>G"}}},
				Diseases: []string{"breast-ovarian cancer"},
			},
			"1000002": {PMID: "1000002"},
		},
		ArticleOrder: []string{"1000001", "1000002"},
		VariantGroups: []*aggregate.Group{{
			Key:     "BRCA1:c.181T>G; BRCA1:c.68_69delAG",
			Members: []string{"BRCA1:c.181T>G", "BRCA1:c.68_69delAG"},
			PMIDs:   []string{"1000001"},
		}},
	}
}

func TestWriteAssociations_TruncatesSingletons(t *testing.T) {
	var out bytes.Buffer
	err := WriteAssociations(&out, sampleResult(), types.ReportConfig{OmitSingletons: true})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Breast-Ovarian Cancer (2)")
	assert.NotContains(t, text, "Pancreatic Cancer", "singleton rows are cut")
	assert.Contains(t, text, TruncationMarker)
	assert.Contains(t, text, "BRCA1:c.181T>G; BRCA1:c.68_69delAG (1)")
}

func TestWriteSummary_GroupsOrderedByMatchedPhenotypes(t *testing.T) {
	result := sampleResult()
	result.VariantGroups = []*aggregate.Group{
		{Key: "first; pair", PMIDs: []string{"1"}},
		{Key: "second; pair", PMIDs: []string{"2"}, Phenotypes: []string{"Breast carcinoma", "Ovarian carcinoma"}},
		{Key: "third; pair", PMIDs: []string{"3"}, Phenotypes: []string{"Breast carcinoma"}},
	}

	var out bytes.Buffer
	require.NoError(t, WriteSummary(&out, result))

	text := out.String()
	second := strings.Index(text, "second; pair")
	third := strings.Index(text, "third; pair")
	first := strings.Index(text, "first; pair")
	require.True(t, second >= 0 && third >= 0 && first >= 0)
	assert.Less(t, second, third)
	assert.Less(t, third, first)
	assert.Equal(t, []*aggregate.Group{
		{Key: "first; pair", PMIDs: []string{"1"}},
		{Key: "second; pair", PMIDs: []string{"2"}, Phenotypes: []string{"Breast carcinoma", "Ovarian carcinoma"}},
		{Key: "third; pair", PMIDs: []string{"3"}, Phenotypes: []string{"Breast carcinoma"}},
	}, result.VariantGroups, "caller's slice keeps accumulation order")
}

func TestWriteArticlesCSV(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteArticlesCSV(&out, sampleResult()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "pmid,date,journal,title,genes,variants,diseases,phenotypes", lines[0])
	assert.Contains(t, lines[1], "1000001")
	assert.Contains(t, lines[1], "BRCA1:c.181T>G")
	assert.Contains(t, lines[1], "breast-ovarian cancer")
}

func TestWriteDiseasesCSV_KeysStayRaw(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteDiseasesCSV(&out, sampleResult(), types.ReportConfig{}))

	text := out.String()
	assert.Contains(t, text, "breast-ovarian cancer")
	assert.NotContains(t, text, "Breast-Ovarian Cancer")
}

func TestReporter_WritesEveryFile(t *testing.T) {
	dir := t.TempDir()
	r, err := NewReporter(dir, types.ReportConfig{})
	require.NoError(t, err)

	runID, err := r.Write(sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	for _, name := range []string{
		"evidence.yaml", "articles.csv", "diseases.csv", "phenotypes.csv",
		"genes.csv", "variants.csv", "associations.txt", "associations-summary.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "evidence.yaml"))
	require.NoError(t, err)
	var bundle Bundle
	require.NoError(t, yaml.Unmarshal(raw, &bundle))
	assert.Equal(t, runID, bundle.RunID)
	require.Len(t, bundle.Entities, 1)
	assert.Equal(t, "BRCA1:c.181T>G", bundle.Entities[0].Entity.Name)
	assert.Equal(t, "breast-ovarian cancer", bundle.Entities[0].Diseases[0].Key)
}

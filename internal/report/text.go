// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// WriteAssociations renders the full per-entity association tables, the
// cross-indexes, and the co-mention groups as indented text.
func WriteAssociations(w io.Writer, result *aggregate.Result, cfg types.ReportConfig) error {
	for _, ev := range result.Entities {
		fmt.Fprintf(w, "%s %s\n", ev.Entity.Kind, ev.Entity.Name)
		fmt.Fprintf(w, "  articles: %d matched, %d analyzed\n", ev.Count, len(ev.PMIDs))

		writeTable(w, "diseases", ev.Diseases, cfg, true)
		writeTable(w, "phenotypes", ev.Phenotypes, cfg, false)
		writeTable(w, "genes", ev.Genes, cfg, false)
		writeTable(w, "variants", ev.Variants, cfg, false)

		if len(ev.MatchingPhenotypes) > 0 {
			fmt.Fprintf(w, "  matching phenotypes: %s\n", strings.Join(ev.MatchingPhenotypes, ", "))
			fmt.Fprintf(w, "    articles: %s\n", strings.Join(ev.PMIDsMatchingPhenotypes, ", "))
			if len(ev.DiseasesMatchingPhenotypes) > 0 {
				fmt.Fprintf(w, "    diseases: %s\n", displayAll(ev.DiseasesMatchingPhenotypes))
			}
		}
		fmt.Fprintln(w)
	}

	writeCrossRows(w, "diseases cross-reference", result.DiseaseRows, true)
	writeCrossRows(w, "phenotypes cross-reference", result.PhenotypeRows, false)
	writeGroups(w, "co-mentioned variants", result.VariantGroups)
	writeGroups(w, "co-mentioned phenotypes", result.PhenotypeGroups)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "articles that could not be analyzed: %s\n", strings.Join(result.Skipped, ", "))
	}
	return nil
}

// WriteSummary renders the one-line-per-entity digest.
func WriteSummary(w io.Writer, result *aggregate.Result) error {
	for _, ev := range result.Entities {
		fmt.Fprintf(w, "%s: %d matched, %d analyzed", ev.Entity.Name, ev.Count, len(ev.PMIDs))
		if len(ev.MatchingPhenotypes) > 0 {
			fmt.Fprintf(w, ", phenotypes: %s", strings.Join(ev.MatchingPhenotypes, "; "))
		}
		fmt.Fprintln(w)
	}
	for _, g := range byMatchCount(result.VariantGroups, func(g *aggregate.Group) int { return len(g.Phenotypes) }) {
		fmt.Fprintf(w, "co-mentioned: %s (%d articles)\n", g.Key, len(g.PMIDs))
	}
	for _, g := range byMatchCount(result.PhenotypeGroups, func(g *aggregate.Group) int { return len(g.Variants) }) {
		fmt.Fprintf(w, "co-cited phenotypes: %s (%d articles)\n", g.Key, len(g.PMIDs))
	}
	return nil
}

// byMatchCount orders groups by descending matched-input count without
// disturbing the caller's slice. Ties keep accumulation order.
func byMatchCount(groups []*aggregate.Group, count func(*aggregate.Group) int) []*aggregate.Group {
	out := make([]*aggregate.Group, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return count(out[i]) > count(out[j]) })
	return out
}

func writeTable(w io.Writer, label string, t *aggregate.Table, cfg types.ReportConfig, titled bool) {
	if t == nil || t.Len() == 0 {
		return
	}
	rows, truncated := Truncate(Ranked(t), cfg.OmitSingletons)
	fmt.Fprintf(w, "  %s:\n", label)
	for _, row := range rows {
		key := row.Key
		if titled {
			key = DisplayTitle(key)
		}
		fmt.Fprintf(w, "    %s (%d): %s\n", key, len(row.PMIDs), strings.Join(row.PMIDs, ", "))
	}
	if truncated {
		fmt.Fprintf(w, "    %s\n", TruncationMarker)
	}
}

func writeCrossRows(w io.Writer, label string, rows []*aggregate.CrossRow, titled bool) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", label)
	for _, row := range rows {
		key := row.Key
		if titled {
			key = DisplayTitle(key)
		}
		fmt.Fprintf(w, "  %s (%d): %s\n", key, len(row.PMIDs), strings.Join(row.PMIDs, ", "))
		writeMembers(w, "genes", row.Genes, false)
		writeMembers(w, "variants", row.Variants, false)
		writeMembers(w, "diseases", row.Diseases, true)
		writeMembers(w, "phenotypes", row.Phenotypes, false)
	}
	fmt.Fprintln(w)
}

func writeGroups(w io.Writer, label string, groups []*aggregate.Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", label)
	for _, g := range groups {
		fmt.Fprintf(w, "  %s (%d): %s\n", g.Key, len(g.PMIDs), strings.Join(g.PMIDs, ", "))
		writeMembers(w, "diseases", g.Diseases, true)
		writeMembers(w, "phenotypes", g.Phenotypes, false)
		writeMembers(w, "variants", g.Variants, false)
	}
	fmt.Fprintln(w)
}

func writeMembers(w io.Writer, label string, members []string, titled bool) {
	if len(members) == 0 {
		return
	}
	if titled {
		members = displaySlice(members)
	}
	fmt.Fprintf(w, "    %s: %s\n", label, strings.Join(members, ", "))
}

func displaySlice(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = DisplayTitle(k)
	}
	return out
}

func displayAll(keys []string) string {
	return strings.Join(displaySlice(keys), ", ")
}

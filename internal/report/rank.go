// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report ranks association tables and renders a finished
// evidence run as text, CSV, and a YAML bundle.
// Implements: prd003-reporting (T1-T4).
package report

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
)

// TruncationMarker is written in place of the omitted rows when a table
// is cut at its first single-PMID row.
const TruncationMarker = "(Truncated associations with only one PMID)"

// Ranked returns the table's rows sorted by descending support count.
// The sort is stable: rows with equal counts keep their table order, so
// repeated runs over the same data render identically.
func Ranked(t *aggregate.Table) []aggregate.Row {
	rows := t.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].PMIDs) > len(rows[j].PMIDs)
	})
	return rows
}

// Truncate cuts ranked rows at the first row supported by a single PMID.
// With omit unset the rows pass through untouched. The second return
// reports whether anything was cut, so renderers know to write the
// marker.
func Truncate(rows []aggregate.Row, omit bool) ([]aggregate.Row, bool) {
	if !omit {
		return rows, false
	}
	for i, row := range rows {
		if len(row.PMIDs) < 2 {
			return rows[:i], true
		}
	}
	return rows, false
}

// DisplayTitle renders a stored lowercase key for display. Storage and
// matching always use the raw service key; casing is applied at render
// time only, and never lowercases letters already capitalized (gene
// symbols, HPO terms).
func DisplayTitle(key string) string {
	return cases.Title(language.English, cases.NoLower).String(key)
}

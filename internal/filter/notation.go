// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter holds the post-fetch article predicates and the variant
// notation classifier.
// Implements: prd002-aggregation (specificity/recency filter).
package filter

import "regexp"

// NotationKind classifies how a variant identifier describes its change.
type NotationKind int

const (
	// NotationProtein covers protein-effect and any other notation that
	// does not pin a nucleotide coordinate.
	NotationProtein NotationKind = iota
	NotationCoding
	NotationGenomic
	NotationRSID
	NotationIntronic
)

func (k NotationKind) String() string {
	switch k {
	case NotationCoding:
		return "coding"
	case NotationGenomic:
		return "genomic"
	case NotationRSID:
		return "rsid"
	case NotationIntronic:
		return "intronic"
	default:
		return "protein"
	}
}

// Nucleotide reports whether the notation cites a DNA/RNA coordinate
// rather than only a protein change.
func (k NotationKind) Nucleotide() bool {
	return k != NotationProtein
}

// The service treats these notations as nucleotide-level. Matching is a
// substring search, not an anchor, since inputs carry gene prefixes and
// accession numbers ("NC_000012.11:g.57489193T>C", "BRCA1:c.68_69delAG").
var (
	codingPattern   = regexp.MustCompile(`c\.\d+`)
	genomicPattern  = regexp.MustCompile(`g\.\d+`)
	rsidPattern     = regexp.MustCompile(`rs\d+`)
	intronicPattern = regexp.MustCompile(`IVS\d`)
)

// ClassifyNotation returns the notation kind of a variant identifier.
func ClassifyNotation(variant string) NotationKind {
	switch {
	case codingPattern.MatchString(variant):
		return NotationCoding
	case genomicPattern.MatchString(variant):
		return NotationGenomic
	case rsidPattern.MatchString(variant):
		return NotationRSID
	case intronicPattern.MatchString(variant):
		return NotationIntronic
	default:
		return NotationProtein
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the evidence-engine pipeline.
// Implements: prd001-retrieval (Entity, Article);
//
//	prd002-aggregation (EngineConfig, FilterConfig);
//	prd004-annotation (AnnotateConfig).
package types

// EntityKind tags the kind of genomic entity a query targets.
type EntityKind int

const (
	EntityGene EntityKind = iota
	EntityVariant
	EntityDisease
	EntityPhenotype
)

func (k EntityKind) String() string {
	switch k {
	case EntityGene:
		return "gene"
	case EntityVariant:
		return "variant"
	case EntityDisease:
		return "disease"
	case EntityPhenotype:
		return "phenotype"
	default:
		return "unknown"
	}
}

// Entity is a genomic entity as canonicalized by the evidence service's
// suggestion lookup. Immutable once resolved.
type Entity struct {
	Kind EntityKind `json:"kind" yaml:"kind"`

	// Name is the canonical identifier: a gene symbol ("BRAF"), a
	// gene:change pair ("BRCA1:c.68_69delAG"), a disease key, or a
	// phenotype term.
	Name string `json:"name" yaml:"name"`

	// Input is the raw text the entity was resolved from.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// OntologyID is the canonical ontology identifier for phenotypes
	// (an HPO ID); empty for other kinds.
	OntologyID string `json:"ontology_id,omitempty" yaml:"ontology_id,omitempty"`
}

// Gene returns the gene portion of a variant entity's name, or the full
// name for other kinds.
func (e Entity) Gene() string {
	if e.Kind != EntityVariant {
		return e.Name
	}
	for i := 0; i < len(e.Name); i++ {
		if e.Name[i] == ':' {
			return e.Name[:i]
		}
	}
	return e.Name
}

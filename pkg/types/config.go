package types

import "time"

// ServiceConfig holds settings for the evidence-service client.
type ServiceConfig struct {
	// BaseURL is the evidence-service API root.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Token is the API token sent with every request.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "evidence-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Retrieval ceiling bounds. The service ranks matches by relevance, so
// pages past the ceiling are not worth the request cost.
const (
	DefaultSensitivity = 1000
	MaxSensitivity     = 10000
	DefaultPageSize    = 5
)

// RetrievalConfig holds settings for the paginated retriever.
type RetrievalConfig struct {
	// Sensitivity caps the number of ranked articles considered per
	// query (default 1000, maximum 10000).
	Sensitivity int `json:"sensitivity" yaml:"sensitivity"`

	// PageSize is the number of article records the service returns per
	// page (default 5); pages fetched = Sensitivity / PageSize.
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxVariantPages caps pagination of the per-gene variants listing
	// (default 1000 pages).
	MaxVariantPages int `json:"max_variant_pages" yaml:"max_variant_pages"`
}

// Normalize returns a copy with defaults applied and the sensitivity
// clamped to its maximum.
func (c RetrievalConfig) Normalize() RetrievalConfig {
	if c.Sensitivity <= 0 {
		c.Sensitivity = DefaultSensitivity
	}
	if c.Sensitivity > MaxSensitivity {
		c.Sensitivity = MaxSensitivity
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxVariantPages <= 0 {
		c.MaxVariantPages = 1000
	}
	return c
}

// FilterConfig toggles the post-fetch article predicates. All filters
// combine by logical AND; each defaults to off.
type FilterConfig struct {
	// MinDate discards articles published before it; zero disables.
	MinDate time.Time `json:"min_date,omitempty" yaml:"min_date,omitempty"`

	// Journals is an allowlist of ISO 4 journal abbreviations; empty
	// disables.
	Journals []string `json:"journals,omitempty" yaml:"journals,omitempty"`

	// NucleotideOnly keeps only nucleotide-level matches for
	// nucleotide-level query notations.
	NucleotideOnly bool `json:"nucleotide_only" yaml:"nucleotide_only"`

	// RequirePhenotypes keeps only articles citing at least one of the
	// input phenotypes.
	RequirePhenotypes bool `json:"require_phenotypes" yaml:"require_phenotypes"`
}

// ReportConfig holds settings for the ranker/reporter.
type ReportConfig struct {
	// OmitSingletons truncates an association table once a row's
	// support count drops to one, writing an explicit marker instead of
	// the remaining rows.
	OmitSingletons bool `json:"omit_singletons" yaml:"omit_singletons"`
}

// EngineConfig groups the immutable configuration passed into the
// aggregation engine at construction.
type EngineConfig struct {
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Filter    FilterConfig    `json:"filter" yaml:"filter"`
	Report    ReportConfig    `json:"report" yaml:"report"`

	// SkipNormalization bypasses the suggestion lookup and uses variant
	// inputs verbatim. Required when NucleotideOnly is set, since
	// normalization converts nucleotide-level names to protein effects.
	SkipNormalization bool `json:"skip_normalization" yaml:"skip_normalization"`

	// StopAfter exits the fetch loop after this many entities with
	// non-zero results; zero disables. Entities returning no data do
	// not count.
	StopAfter int `json:"stop_after,omitempty" yaml:"stop_after,omitempty"`
}

// AnnotateConfig holds settings for the file-annotation job workflow.
type AnnotateConfig struct {
	// Assembly is the reference assembly for annotation jobs
	// ("grch37" or "grch38").
	Assembly string `json:"assembly" yaml:"assembly"`

	// PollInterval is the delay between job state checks.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`
}

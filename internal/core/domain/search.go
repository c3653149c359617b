package domain

import "time"

// SearchOptions configures a ranked hook search.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Kind filters to one hook kind when non-empty.
	Kind string

	// SourceName filters to one source when non-empty.
	SourceName string

	// DynamicOnly restricts results to dynamically named hooks.
	DynamicOnly bool

	// IncludeRemoved includes records with removed status.
	IncludeRemoved bool
}

// SearchResult represents a single ranked search hit.
type SearchResult struct {
	Hook Hook

	// SourceName is the display name of the owning source.
	SourceName string

	// Score is the relevance score, larger is more relevant.
	Score float64
}

// RegistrationResult is a hit from a registration sub-search.
type RegistrationResult struct {
	Registration Registration
	SourceName   string
	Score        float64
}

// APIUsageResult is a hit from an API usage sub-search.
type APIUsageResult struct {
	Usage      APIUsage
	SourceName string
	Score      float64
}

// DocResult is a hit from a documentation search.
type DocResult struct {
	Page       DocPage
	SourceName string
	Score      float64
}

// ValidationStatus is the outcome of validating a candidate hook name.
type ValidationStatus string

const (
	// ValidationValid means at least one active hook carries the exact name.
	ValidationValid ValidationStatus = "VALID"

	// ValidationRemoved means the name matched only removed hooks.
	ValidationRemoved ValidationStatus = "REMOVED"

	// ValidationNotFound means no hook ever carried the name.
	ValidationNotFound ValidationStatus = "NOT_FOUND"
)

// Location identifies one place a hook name is declared.
type Location struct {
	SourceName string
	FilePath   string
	LineNumber int
	Kind       HookKind
}

// ValidationResult is the answer to an exact-name validation.
type ValidationResult struct {
	Name   string
	Status ValidationStatus

	// Locations lists every declaration of the name. Multiple locations
	// are legitimate and expected.
	Locations []Location

	// RemovedAt is set for REMOVED answers.
	RemovedAt *time.Time

	// Suggestions holds up to five fuzzy alternatives for NOT_FOUND.
	Suggestions []SearchResult
}

// IndexStats aggregates counts across the whole index.
type IndexStats struct {
	Sources       int
	Hooks         int
	HooksRemoved  int
	Registrations int
	APIUsages     int
	DocPages      int
	HooksByKind   map[string]int
	HooksBySource map[string]int
}

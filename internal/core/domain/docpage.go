package domain

import "time"

// DocPage is one parsed documentation page.
// Same lifecycle and change-detection contract as declarations, keyed by
// (source, file path).
type DocPage struct {
	ID       int64
	SourceID string
	FilePath string

	Title       string
	Category    string
	Subcategory string

	// Summary is the leading prose extracted from the page.
	Summary string

	// CodeSamples holds fenced code blocks found in the page.
	CodeSamples []string

	// Metadata carries free-form key/value pairs from front matter.
	Metadata map[string]string

	ContentHash string

	Status      Status
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	RemovedAt   *time.Time
}

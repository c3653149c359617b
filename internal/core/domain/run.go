package domain

import "time"

// RecordCounts tallies reconciliation outcomes for one record kind.
type RecordCounts struct {
	Inserted  int
	Updated   int
	Unchanged int
	Removed   int
}

// Add accumulates another set of counts.
func (c *RecordCounts) Add(o RecordCounts) {
	c.Inserted += o.Inserted
	c.Updated += o.Updated
	c.Unchanged += o.Unchanged
	c.Removed += o.Removed
}

// Total returns the number of records touched or swept.
func (c RecordCounts) Total() int {
	return c.Inserted + c.Updated + c.Unchanged + c.Removed
}

// ReconcileCounts groups the per-kind outcomes of reconciling one file.
type ReconcileCounts struct {
	Hooks         RecordCounts
	Registrations RecordCounts
	APIUsages     RecordCounts
}

// RunSummary is the best-effort result of an indexing run. Partial
// failures land in Errors; a run never aborts on the first bad file.
type RunSummary struct {
	SourcesProcessed int
	FilesScanned     int
	FilesSkipped     int

	Hooks         RecordCounts
	Registrations RecordCounts
	APIUsages     RecordCounts
	DocPages      RecordCounts

	// Errors holds one message per failed file or source.
	Errors []string

	StartedAt time.Time
	Duration  time.Duration
}

// Merge folds a per-source summary into an aggregate one.
func (s *RunSummary) Merge(o *RunSummary) {
	s.SourcesProcessed += o.SourcesProcessed
	s.FilesScanned += o.FilesScanned
	s.FilesSkipped += o.FilesSkipped
	s.Hooks.Add(o.Hooks)
	s.Registrations.Add(o.Registrations)
	s.APIUsages.Add(o.APIUsages)
	s.DocPages.Add(o.DocPages)
	s.Errors = append(s.Errors, o.Errors...)
}

package driving

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// IndexOptions configures an indexing run.
type IndexOptions struct {
	// SourceName limits the run to one source. Empty runs every enabled
	// source.
	SourceName string

	// Force bypasses the file-level change cache so every file is
	// rescanned and reconciled.
	Force bool
}

// IndexService drives incremental index runs.
type IndexService interface {
	// Run executes an indexing run and returns a best-effort summary.
	// Per-file and per-source failures are recorded in the summary's
	// error list; Run itself fails only on configuration or storage
	// errors that prevent the run from proceeding at all.
	Run(ctx context.Context, opts IndexOptions) (*domain.RunSummary, error)

	// Watch re-runs the indexer for a local source whenever files under
	// its directory change. Blocks until the context is cancelled.
	Watch(ctx context.Context, sourceName string) error
}

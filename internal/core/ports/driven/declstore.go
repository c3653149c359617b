package driven

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// DeclarationStore reconciles extraction output into the index.
type DeclarationStore interface {
	// ReconcileFile merges one file's freshly extracted records with the
	// stored state, all inside a single transaction: new natural keys
	// are inserted active, unchanged hashes bump last-seen, changed
	// hashes update in place, and previously active records absent from
	// the extraction are swept to removed status. The shadow search rows
	// are maintained in the same transaction.
	ReconcileFile(
		ctx context.Context,
		sourceID, filePath string,
		hooks []domain.Hook,
		registrations []domain.Registration,
		usages []domain.APIUsage,
	) (domain.ReconcileCounts, error)

	// MarkFileRemoved sweeps every active record of a file that no
	// longer exists on disk. Equivalent to reconciling an empty
	// extraction.
	MarkFileRemoved(ctx context.Context, sourceID, filePath string) (domain.ReconcileCounts, error)
}

// DocPageStore reconciles parsed documentation pages.
type DocPageStore interface {
	// ReconcilePage upserts one page by its (source, file path) key and
	// returns which outcome applied.
	ReconcilePage(ctx context.Context, page *domain.DocPage) (domain.RecordCounts, error)

	// MarkPageRemoved sweeps the page for a file that no longer exists.
	MarkPageRemoved(ctx context.Context, sourceID, filePath string) (domain.RecordCounts, error)
}

// FileCacheStore persists the per-file change-detection cache.
type FileCacheStore interface {
	// Get returns the cache row for a file, or domain.ErrNotFound.
	Get(ctx context.Context, sourceID, filePath string) (*domain.IndexedFile, error)

	// Put inserts or refreshes a cache row.
	Put(ctx context.Context, file domain.IndexedFile) error

	// ListPaths returns every cached file path for a source. The indexer
	// uses it to detect files deleted since the previous run.
	ListPaths(ctx context.Context, sourceID string) ([]string, error)

	// Delete drops the cache row for a vanished file.
	Delete(ctx context.Context, sourceID, filePath string) error
}

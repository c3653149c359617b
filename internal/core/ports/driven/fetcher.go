package driven

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// Fetcher materialises a source as a local directory of files to scan.
type Fetcher interface {
	// Fetch returns the directory for the source. Implementations may
	// fall back to a previously fetched copy on transient failures;
	// otherwise they fail with a typed error (domain.ErrMissingConfig,
	// domain.ErrFetchFailed).
	Fetch(ctx context.Context, source *domain.Source) (string, error)
}

// FetcherFactory resolves the fetcher for a source's type.
type FetcherFactory interface {
	// Create returns a fetcher for the source, or
	// domain.ErrUnsupportedType for an unknown source type.
	Create(source *domain.Source) (Fetcher, error)
}

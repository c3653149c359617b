package driving

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// SourceService manages source registrations.
type SourceService interface {
	// Add registers a new source. Fails with domain.ErrAlreadyExists
	// when the name is taken and domain.ErrMissingConfig when the
	// fetcher-specific configuration is incomplete.
	Add(ctx context.Context, source domain.Source) error

	// Get retrieves a source by name.
	Get(ctx context.Context, name string) (*domain.Source, error)

	// List returns all registered sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source and all of its indexed data.
	Remove(ctx context.Context, name string) error
}

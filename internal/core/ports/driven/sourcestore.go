package driven

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// SourceStore persists source registrations.
type SourceStore interface {
	// Save stores or updates a source. Source names are unique; saving a
	// new source under an existing name fails with domain.ErrAlreadyExists.
	Save(ctx context.Context, source domain.Source) error

	// GetByName retrieves a source by its unique name.
	GetByName(ctx context.Context, name string) (*domain.Source, error)

	// List returns all registered sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Delete removes a source and, by cascade, every declaration, doc
	// page and file-cache row it owns.
	Delete(ctx context.Context, id string) error
}

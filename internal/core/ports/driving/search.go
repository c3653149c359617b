package driving

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// SearchService exposes search and validation to the driving adapters.
type SearchService interface {
	SearchHooks(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
	SearchRegistrations(ctx context.Context, query string, limit int) ([]domain.RegistrationResult, error)
	SearchAPIUsages(ctx context.Context, query string, limit int) ([]domain.APIUsageResult, error)
	SearchDocs(ctx context.Context, query string, limit int) ([]domain.DocResult, error)
	Validate(ctx context.Context, name string) (*domain.ValidationResult, error)
	Lookup(ctx context.Context, idOrName string) (*domain.Hook, string, error)
	Stats(ctx context.Context) (*domain.IndexStats, error)
	RebuildFTS(ctx context.Context) error
}

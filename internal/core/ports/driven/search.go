package driven

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// SearchStore serves ranked search, exact validation and structured
// sub-searches over the index. Read-only: safe to call concurrently
// with an in-progress indexing run.
type SearchStore interface {
	// SearchHooks runs a ranked full-text query over hook declarations.
	// An empty-after-sanitisation query returns an empty result set.
	SearchHooks(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// SearchRegistrations matches only the structured name/title/category
	// fields, never the raw code context.
	SearchRegistrations(ctx context.Context, query string, limit int) ([]domain.RegistrationResult, error)

	// SearchAPIUsages matches the dotted namespace/method fields.
	SearchAPIUsages(ctx context.Context, query string, limit int) ([]domain.APIUsageResult, error)

	// SearchDocs runs a ranked query over documentation pages.
	SearchDocs(ctx context.Context, query string, limit int) ([]domain.DocResult, error)

	// Validate checks a candidate hook name exactly (case-sensitive),
	// falling back to fuzzy suggestions for NOT_FOUND answers.
	Validate(ctx context.Context, name string) (*domain.ValidationResult, error)

	// Lookup fetches one hook by numeric id or exact name. Numeric input
	// takes priority; an ambiguous name returns the most recently seen
	// active match. The source display name is returned alongside.
	Lookup(ctx context.Context, idOrName string) (*domain.Hook, string, error)

	// Stats aggregates index-wide counts.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// RebuildFTS drops and repopulates every shadow search table from
	// its primary table. Safe to run at any time.
	RebuildFTS(ctx context.Context) error
}

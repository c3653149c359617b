package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

// Default and ceiling for result list sizes.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 200
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService validates queries and delegates to the search store.
type SearchService struct {
	store driven.SearchStore
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.SearchStore) *SearchService {
	return &SearchService{store: store}
}

// SearchHooks runs a ranked query over hook declarations.
func (s *SearchService) SearchHooks(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	opts.Limit = clampLimit(opts.Limit)
	return s.store.SearchHooks(ctx, query, opts)
}

// SearchRegistrations matches registered component names and settings.
func (s *SearchService) SearchRegistrations(ctx context.Context, query string, limit int) ([]domain.RegistrationResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	return s.store.SearchRegistrations(ctx, query, clampLimit(limit))
}

// SearchAPIUsages matches recorded namespaced API call sites.
func (s *SearchService) SearchAPIUsages(ctx context.Context, query string, limit int) ([]domain.APIUsageResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	return s.store.SearchAPIUsages(ctx, query, clampLimit(limit))
}

// SearchDocs runs a ranked query over documentation pages.
func (s *SearchService) SearchDocs(ctx context.Context, query string, limit int) ([]domain.DocResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	return s.store.SearchDocs(ctx, query, clampLimit(limit))
}

// Validate checks a hook name against the index, exactly.
func (s *SearchService) Validate(ctx context.Context, name string) (*domain.ValidationResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty hook name", domain.ErrInvalidInput)
	}
	return s.store.Validate(ctx, name)
}

// Lookup fetches one hook by numeric id or exact name.
func (s *SearchService) Lookup(ctx context.Context, idOrName string) (*domain.Hook, string, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, "", fmt.Errorf("%w: empty identifier", domain.ErrInvalidInput)
	}
	return s.store.Lookup(ctx, idOrName)
}

// Stats aggregates index-wide counts.
func (s *SearchService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	return s.store.Stats(ctx)
}

// RebuildFTS repopulates the search tables from the primary rows.
func (s *SearchService) RebuildFTS(ctx context.Context) error {
	return s.store.RebuildFTS(ctx)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

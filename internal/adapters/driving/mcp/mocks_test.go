package mcp

import (
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hookResults  []domain.SearchResult
	regResults   []domain.RegistrationResult
	usageResults []domain.APIUsageResult
	docResults   []domain.DocResult
	validation   *domain.ValidationResult
	hook         *domain.Hook
	hookSource   string
	stats        *domain.IndexStats
	err          error

	lastQuery string
	lastOpts  domain.SearchOptions
	lastLimit int
}

func (m *mockSearchService) SearchHooks(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.hookResults, m.err
}

func (m *mockSearchService) SearchRegistrations(
	_ context.Context, query string, limit int,
) ([]domain.RegistrationResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.regResults, m.err
}

func (m *mockSearchService) SearchAPIUsages(
	_ context.Context, query string, limit int,
) ([]domain.APIUsageResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.usageResults, m.err
}

func (m *mockSearchService) SearchDocs(
	_ context.Context, query string, limit int,
) ([]domain.DocResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.docResults, m.err
}

func (m *mockSearchService) Validate(_ context.Context, name string) (*domain.ValidationResult, error) {
	m.lastQuery = name
	return m.validation, m.err
}

func (m *mockSearchService) Lookup(_ context.Context, idOrName string) (*domain.Hook, string, error) {
	m.lastQuery = idOrName
	return m.hook, m.hookSource, m.err
}

func (m *mockSearchService) Stats(_ context.Context) (*domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockSearchService) RebuildFTS(_ context.Context) error {
	return m.err
}

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	sources []domain.Source
	source  *domain.Source
	err     error
}

func (m *mockSourceService) Add(_ context.Context, _ domain.Source) error {
	return m.err
}

func (m *mockSourceService) Get(_ context.Context, _ string) (*domain.Source, error) {
	return m.source, m.err
}

func (m *mockSourceService) List(_ context.Context) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockSourceService) Remove(_ context.Context, _ string) error {
	return m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	summary  *domain.RunSummary
	err      error
	lastOpts driving.IndexOptions
}

func (m *mockIndexService) Run(_ context.Context, opts driving.IndexOptions) (*domain.RunSummary, error) {
	m.lastOpts = opts
	return m.summary, m.err
}

func (m *mockIndexService) Watch(_ context.Context, _ string) error {
	return m.err
}

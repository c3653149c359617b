package cli

import (
	"bytes"
	"context"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

// setupTestServices injects fake services and returns a cleanup func.
func setupTestServices() func() {
	oldSource, oldIndex, oldSearch := sourceService, indexService, searchService
	sourceService = &fakeSourceService{}
	indexService = &fakeIndexService{summary: &domain.RunSummary{}}
	searchService = &fakeSearchService{}
	return func() {
		sourceService, indexService, searchService = oldSource, oldIndex, oldSearch
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

type fakeSourceService struct {
	sources []domain.Source
	source  *domain.Source
	err     error

	added   []domain.Source
	removed []string
}

func (f *fakeSourceService) Add(_ context.Context, source domain.Source) error {
	f.added = append(f.added, source)
	return f.err
}

func (f *fakeSourceService) Get(_ context.Context, _ string) (*domain.Source, error) {
	return f.source, f.err
}

func (f *fakeSourceService) List(_ context.Context) ([]domain.Source, error) {
	return f.sources, f.err
}

func (f *fakeSourceService) Remove(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return f.err
}

type fakeIndexService struct {
	summary  *domain.RunSummary
	err      error
	lastOpts driving.IndexOptions
	watched  string
}

func (f *fakeIndexService) Run(_ context.Context, opts driving.IndexOptions) (*domain.RunSummary, error) {
	f.lastOpts = opts
	return f.summary, f.err
}

func (f *fakeIndexService) Watch(_ context.Context, sourceName string) error {
	f.watched = sourceName
	return f.err
}

type fakeSearchService struct {
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
	rebuilt   bool
}

func (f *fakeSearchService) SearchHooks(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	f.lastQuery = query
	f.lastOpts = opts
	return f.hookResults, f.err
}

func (f *fakeSearchService) SearchRegistrations(
	_ context.Context, query string, _ int,
) ([]domain.RegistrationResult, error) {
	f.lastQuery = query
	return f.regResults, f.err
}

func (f *fakeSearchService) SearchAPIUsages(
	_ context.Context, query string, _ int,
) ([]domain.APIUsageResult, error) {
	f.lastQuery = query
	return f.usageResults, f.err
}

func (f *fakeSearchService) SearchDocs(
	_ context.Context, query string, _ int,
) ([]domain.DocResult, error) {
	f.lastQuery = query
	return f.docResults, f.err
}

func (f *fakeSearchService) Validate(_ context.Context, name string) (*domain.ValidationResult, error) {
	f.lastQuery = name
	return f.validation, f.err
}

func (f *fakeSearchService) Lookup(_ context.Context, idOrName string) (*domain.Hook, string, error) {
	f.lastQuery = idOrName
	return f.hook, f.hookSource, f.err
}

func (f *fakeSearchService) Stats(_ context.Context) (*domain.IndexStats, error) {
	return f.stats, f.err
}

func (f *fakeSearchService) RebuildFTS(_ context.Context) error {
	f.rebuilt = true
	return f.err
}

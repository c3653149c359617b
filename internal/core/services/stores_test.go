package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// In-memory fakes for the driven ports. They implement just enough of
// the reconciliation contract to observe the indexer's behaviour.

type fakeSourceStore struct {
	mu      sync.Mutex
	sources map[string]domain.Source
}

func newFakeSourceStore() *fakeSourceStore {
	return &fakeSourceStore{sources: map[string]domain.Source{}}
}

func (s *fakeSourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sources {
		if existing.Name == source.Name && existing.ID != source.ID {
			return domain.ErrAlreadyExists
		}
	}
	s.sources[source.ID] = source
	return nil
}

func (s *fakeSourceStore) GetByName(_ context.Context, name string) (*domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.Name == name {
			found := src
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeSourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Source, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src)
	}
	return out, nil
}

func (s *fakeSourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sources, id)
	return nil
}

type reconcileCall struct {
	sourceID string
	filePath string
	hooks    []domain.Hook
}

type fakeDeclStore struct {
	mu      sync.Mutex
	calls   []reconcileCall
	removed []string
}

func (s *fakeDeclStore) ReconcileFile(
	_ context.Context,
	sourceID, filePath string,
	hooks []domain.Hook,
	_ []domain.Registration,
	_ []domain.APIUsage,
) (domain.ReconcileCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, reconcileCall{sourceID: sourceID, filePath: filePath, hooks: hooks})
	return domain.ReconcileCounts{Hooks: domain.RecordCounts{Inserted: len(hooks)}}, nil
}

func (s *fakeDeclStore) MarkFileRemoved(_ context.Context, _, filePath string) (domain.ReconcileCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, filePath)
	return domain.ReconcileCounts{Hooks: domain.RecordCounts{Removed: 1}}, nil
}

type fakeDocStore struct {
	mu      sync.Mutex
	pages   []*domain.DocPage
	removed []string
}

func (s *fakeDocStore) ReconcilePage(_ context.Context, page *domain.DocPage) (domain.RecordCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
	return domain.RecordCounts{Inserted: 1}, nil
}

func (s *fakeDocStore) MarkPageRemoved(_ context.Context, _, filePath string) (domain.RecordCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, filePath)
	return domain.RecordCounts{Removed: 1}, nil
}

type fakeFileCache struct {
	mu    sync.Mutex
	files map[string]domain.IndexedFile
}

func newFakeFileCache() *fakeFileCache {
	return &fakeFileCache{files: map[string]domain.IndexedFile{}}
}

func cacheKey(sourceID, filePath string) string {
	return sourceID + "\x00" + filePath
}

func (c *fakeFileCache) Get(_ context.Context, sourceID, filePath string) (*domain.IndexedFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.files[cacheKey(sourceID, filePath)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (c *fakeFileCache) Put(_ context.Context, file domain.IndexedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[cacheKey(file.SourceID, file.FilePath)] = file
	return nil
}

func (c *fakeFileCache) ListPaths(_ context.Context, sourceID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var paths []string
	for _, f := range c.files {
		if f.SourceID == sourceID {
			paths = append(paths, f.FilePath)
		}
	}
	return paths, nil
}

func (c *fakeFileCache) Delete(_ context.Context, sourceID, filePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, cacheKey(sourceID, filePath))
	return nil
}

// dirFetcher serves a fixed directory for any source.
type dirFetcher struct {
	dir string
}

func (f *dirFetcher) Fetch(_ context.Context, _ *domain.Source) (string, error) {
	return f.dir, nil
}

type dirFetcherFactory struct {
	dir string
}

func (f *dirFetcherFactory) Create(source *domain.Source) (driven.Fetcher, error) {
	if source.Type != domain.SourceTypeLocal {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, source.Type)
	}
	return &dirFetcher{dir: f.dir}, nil
}

// gatedFetcher blocks inside Fetch until released so a test can hold an
// indexing run open.
type gatedFetcher struct {
	dir     string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedFetcher) Fetch(_ context.Context, _ *domain.Source) (string, error) {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
	return g.dir, nil
}

type gatedFetcherFactory struct {
	fetcher *gatedFetcher
}

func (g *gatedFetcherFactory) Create(_ *domain.Source) (driven.Fetcher, error) {
	return g.fetcher, nil
}

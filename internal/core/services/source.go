package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore driven.SourceStore
	fetchers    driven.FetcherFactory
}

// NewSourceService creates a new source service.
func NewSourceService(sourceStore driven.SourceStore, fetchers driven.FetcherFactory) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		fetchers:    fetchers,
	}
}

// Add registers a new source. The fetcher factory validates the
// type-specific configuration before anything is persisted.
func (s *SourceService) Add(ctx context.Context, source domain.Source) error {
	source.Name = strings.TrimSpace(source.Name)
	if source.Name == "" {
		return fmt.Errorf("%w: source name is required", domain.ErrInvalidInput)
	}
	if source.ContentType != domain.ContentCode && source.ContentType != domain.ContentDocs {
		return fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidInput, source.ContentType)
	}
	if s.fetchers != nil {
		if _, err := s.fetchers.Create(&source); err != nil {
			return err
		}
	}
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	return s.sourceStore.Save(ctx, source)
}

// Get retrieves a source by name.
func (s *SourceService) Get(ctx context.Context, name string) (*domain.Source, error) {
	return s.sourceStore.GetByName(ctx, name)
}

// List returns all registered sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sourceStore.List(ctx)
}

// Remove deletes a source. The store cascades the delete to every
// record indexed from it.
func (s *SourceService) Remove(ctx context.Context, name string) error {
	source, err := s.sourceStore.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.sourceStore.Delete(ctx, source.ID)
}

package fetch

import (
	"context"
	"fmt"
	"os"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// localFetcher serves a source rooted at a directory on disk.
type localFetcher struct{}

var _ driven.Fetcher = (*localFetcher)(nil)

// Fetch validates the configured path and returns it unchanged.
func (f *localFetcher) Fetch(_ context.Context, source *domain.Source) (string, error) {
	path := source.Config["path"]
	if path == "" {
		return "", fmt.Errorf("%w: local source %q has no path", domain.ErrMissingConfig, source.Name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", domain.ErrFetchFailed, path)
	}
	return path, nil
}

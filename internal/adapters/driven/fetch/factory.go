package fetch

import (
	"fmt"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// Factory resolves the fetcher for a source's type and validates the
// type-specific configuration up front, so a misconfigured source fails
// at registration rather than mid-run.
type Factory struct {
	dataDir  string
	tokenEnv string
}

var _ driven.FetcherFactory = (*Factory)(nil)

// NewFactory creates a fetcher factory. tokenEnv names the environment
// variable holding a GitHub token; empty means unauthenticated.
func NewFactory(dataDir, tokenEnv string) *Factory {
	return &Factory{dataDir: dataDir, tokenEnv: tokenEnv}
}

// Create returns a fetcher for the source.
func (f *Factory) Create(source *domain.Source) (driven.Fetcher, error) {
	switch source.Type {
	case domain.SourceTypeLocal:
		if strings.TrimSpace(source.Config["path"]) == "" {
			return nil, fmt.Errorf("%w: local source %q needs a path", domain.ErrMissingConfig, source.Name)
		}
		return &localFetcher{}, nil

	case domain.SourceTypeGitHub:
		if _, _, err := splitRepo(source); err != nil {
			return nil, err
		}
		return newGitHubFetcher(f.dataDir, f.tokenEnv), nil

	default:
		return nil, fmt.Errorf("%w: source type %q", domain.ErrUnsupportedType, source.Type)
	}
}

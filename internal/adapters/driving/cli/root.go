// Package cli provides the hookdex command-line interface.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hookdex-labs/hookdex-cli/internal/adapters/driven/config/file"
	"github.com/hookdex-labs/hookdex-cli/internal/adapters/driven/fetch"
	"github.com/hookdex-labs/hookdex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
	"github.com/hookdex-labs/hookdex-cli/internal/core/services"
	"github.com/hookdex-labs/hookdex-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services, wired once per invocation. Commands nil-check
// the services they need so tests can run commands without full wiring.
var (
	sourceService driving.SourceService
	indexService  driving.IndexService
	searchService driving.SearchService

	store *sqlite.Store
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "hookdex",
	Short: "Index and search hooks in plugin codebases",
	Long: `Hookdex indexes hook declarations, component registrations, API call
sites, and documentation from plugin codebases into a local full-text
index, and answers search, lookup, and validation queries against it.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.hookdex)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.hookdex/data)")
}

// initServices builds the store and core services. Skipped when a test
// has already injected services.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if sourceService != nil && indexService != nil && searchService != nil {
		return nil
	}

	cfg, err := file.Load(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	s, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	s.SetWeights(sqlite.Weights{
		Name:        cfg.Search.NameWeight,
		Kind:        cfg.Search.KindWeight,
		Doc:         cfg.Search.DocWeight,
		Description: cfg.Search.DescriptionWeight,
		Context:     cfg.Search.ContextWeight,
	})
	store = s

	fetchers := fetch.NewFactory(filepath.Dir(s.Path()), cfg.GitHub.TokenEnv)

	sourceService = services.NewSourceService(s.SourceStore(), fetchers)
	indexService = services.NewIndexer(
		s.SourceStore(), s.DeclarationStore(), s.DocPageStore(), s.FileCacheStore(), fetchers)
	searchService = services.NewSearchService(s.SearchStore())

	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	}()
	return rootCmd.Execute()
}

var errNotConfigured = errors.New("service not configured")

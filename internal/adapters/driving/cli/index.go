package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

var (
	indexSource string
	indexForce  bool
	indexWatch  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Run an incremental indexing pass",
	Long: `Scans registered sources and reconciles the index with what is on
disk. Unchanged files are skipped unless --force is given. With --watch
the indexer keeps running and re-indexes a local source on file changes.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexSource, "source", "s", "", "index only this source")
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "rescan every file, bypassing the change cache")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep watching a local source for changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return fmt.Errorf("index %w", errNotConfigured)
	}

	if indexWatch {
		if indexSource == "" {
			return fmt.Errorf("%w: --watch requires --source", domain.ErrInvalidInput)
		}
		cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", indexSource)
		return indexService.Watch(cmd.Context(), indexSource)
	}

	summary, err := indexService.Run(cmd.Context(), driving.IndexOptions{
		SourceName: indexSource,
		Force:      indexForce,
	})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

func printSummary(cmd *cobra.Command, s *domain.RunSummary) {
	cmd.Printf("Indexed %d source(s) in %s: %d file(s) scanned, %d skipped.\n",
		s.SourcesProcessed, s.Duration.Round(time.Millisecond), s.FilesScanned, s.FilesSkipped)
	printCounts(cmd, "hooks", s.Hooks)
	printCounts(cmd, "registrations", s.Registrations)
	printCounts(cmd, "api usages", s.APIUsages)
	printCounts(cmd, "doc pages", s.DocPages)

	if len(s.Errors) > 0 {
		cmd.Printf("%d error(s):\n", len(s.Errors))
		for _, msg := range s.Errors {
			cmd.Printf("  %s\n", msg)
		}
	}
}

func printCounts(cmd *cobra.Command, label string, c domain.RecordCounts) {
	if c.Total() == 0 {
		return
	}
	cmd.Printf("  %-14s %d new, %d updated, %d unchanged, %d removed\n",
		label+":", c.Inserted, c.Updated, c.Unchanged, c.Removed)
}

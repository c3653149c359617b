package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

var rebuildFTSCmd = &cobra.Command{
	Use:   "rebuild-fts",
	Short: "Rebuild the full-text search tables from the indexed records",
	RunE:  runRebuildFTS,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rebuildFTSCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	stats, err := searchService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("collecting stats: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Sources:       %d\n", stats.Sources)
	cmd.Printf("Hooks:         %d active, %d removed\n", stats.Hooks, stats.HooksRemoved)
	cmd.Printf("Registrations: %d\n", stats.Registrations)
	cmd.Printf("API usages:    %d\n", stats.APIUsages)
	cmd.Printf("Doc pages:     %d\n", stats.DocPages)

	printBreakdown(cmd, "Hooks by kind:", stats.HooksByKind)
	printBreakdown(cmd, "Hooks by source:", stats.HooksBySource)
	return nil
}

func printBreakdown(cmd *cobra.Command, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Println(title)
	for _, k := range keys {
		cmd.Printf("  %-20s %d\n", k, counts[k])
	}
}

func runRebuildFTS(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	if err := searchService.RebuildFTS(cmd.Context()); err != nil {
		return fmt.Errorf("rebuilding search tables: %w", err)
	}
	cmd.Println("Search tables rebuilt.")
	return nil
}

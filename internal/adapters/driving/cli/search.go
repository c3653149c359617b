package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

var (
	searchLimit   int
	searchKind    string
	searchSource  string
	searchDynamic bool
	searchRemoved bool
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed hooks",
	Long: `Searches hook declarations by name, kind, doc comment, description,
and surrounding code, ranked with the declared name weighted highest.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchKind, "kind", "k", "", "filter by hook kind (action, filter, ...)")
	searchCmd.Flags().StringVarP(&searchSource, "source", "s", "", "filter by source name")
	searchCmd.Flags().BoolVar(&searchDynamic, "dynamic", false, "only dynamically named hooks")
	searchCmd.Flags().BoolVar(&searchRemoved, "removed", false, "include removed hooks")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	opts := domain.SearchOptions{
		Limit:          searchLimit,
		Kind:           searchKind,
		SourceName:     searchSource,
		DynamicOnly:    searchDynamic,
		IncludeRemoved: searchRemoved,
	}

	results, err := searchService.SearchHooks(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range results {
		printHookResult(cmd, i+1, &results[i])
	}
	return nil
}

func printHookResult(cmd *cobra.Command, n int, r *domain.SearchResult) {
	h := &r.Hook
	marker := ""
	if h.Status == domain.StatusRemoved {
		marker = " [removed]"
	}
	cmd.Printf("[%d] %s (%s)%s  score=%.2f\n", n, h.Name, h.Kind, marker, r.Score)
	cmd.Printf("    %s  %s:%d\n", r.SourceName, h.FilePath, h.LineNumber)
	if h.Description != "" {
		cmd.Printf("    %s\n", h.Description)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

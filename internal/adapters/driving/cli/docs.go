package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	docsLimit int
	docsJSON  bool

	regsLimit int
	regsJSON  bool

	apiLimit int
	apiJSON  bool
)

var docsCmd = &cobra.Command{
	Use:   "docs [query]",
	Short: "Search indexed documentation pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocs,
}

var registrationsCmd = &cobra.Command{
	Use:     "registrations [query]",
	Aliases: []string{"regs"},
	Short:   "Search component registrations",
	Args:    cobra.ExactArgs(1),
	RunE:    runRegistrations,
}

var apiCmd = &cobra.Command{
	Use:   "api [query]",
	Short: "Search client API call sites",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPI,
}

func init() {
	docsCmd.Flags().IntVarP(&docsLimit, "limit", "n", 20, "maximum number of results")
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "output results as JSON")
	registrationsCmd.Flags().IntVarP(&regsLimit, "limit", "n", 20, "maximum number of results")
	registrationsCmd.Flags().BoolVar(&regsJSON, "json", false, "output results as JSON")
	apiCmd.Flags().IntVarP(&apiLimit, "limit", "n", 20, "maximum number of results")
	apiCmd.Flags().BoolVar(&apiJSON, "json", false, "output results as JSON")

	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(registrationsCmd)
	rootCmd.AddCommand(apiCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	results, err := searchService.SearchDocs(cmd.Context(), args[0], docsLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if docsJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i := range results {
		p := &results[i].Page
		cmd.Printf("[%d] %s  score=%.2f\n", i+1, p.Title, results[i].Score)
		category := p.Category
		if p.Subcategory != "" {
			category += " / " + p.Subcategory
		}
		cmd.Printf("    %s  %s  (%s)\n", results[i].SourceName, p.FilePath, category)
		if p.Summary != "" {
			cmd.Printf("    %s\n", p.Summary)
		}
	}
	return nil
}

func runRegistrations(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	results, err := searchService.SearchRegistrations(cmd.Context(), args[0], regsLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if regsJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i := range results {
		r := &results[i].Registration
		cmd.Printf("[%d] %s  score=%.2f\n", i+1, r.Name, results[i].Score)
		if r.Title != "" {
			cmd.Printf("    %s (%s)\n", r.Title, r.Category)
		}
		cmd.Printf("    %s  %s:%d\n", results[i].SourceName, r.FilePath, r.LineNumber)
	}
	return nil
}

func runAPI(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	results, err := searchService.SearchAPIUsages(cmd.Context(), args[0], apiLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if apiJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i := range results {
		u := &results[i].Usage
		cmd.Printf("[%d] %s  score=%.2f\n", i+1, u.Name(), results[i].Score)
		cmd.Printf("    %s  %s:%d\n", results[i].SourceName, u.FilePath, u.LineNumber)
	}
	return nil
}

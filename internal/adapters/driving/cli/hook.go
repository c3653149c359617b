package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

var hookJSON bool

var hookCmd = &cobra.Command{
	Use:   "hook [id-or-name]",
	Short: "Show the full record for one hook",
	Long: `Looks up a single hook by numeric ID or by exact name. A name that
is declared in several places resolves to the most recently seen
declaration; use search to list all of them.`,
	Args: cobra.ExactArgs(1),
	RunE: runHook,
}

func init() {
	hookCmd.Flags().BoolVar(&hookJSON, "json", false, "output the record as JSON")
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	hook, sourceName, err := searchService.Lookup(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if hookJSON {
		return printJSON(cmd, struct {
			Hook       *domain.Hook `json:"hook"`
			SourceName string       `json:"source_name"`
		}{hook, sourceName})
	}

	printHookDetail(cmd, hook, sourceName)
	return nil
}

func printHookDetail(cmd *cobra.Command, h *domain.Hook, sourceName string) {
	cmd.Printf("%s (%s)\n", h.Name, h.Kind)
	cmd.Printf("  id:       %d\n", h.ID)
	cmd.Printf("  source:   %s\n", sourceName)
	cmd.Printf("  location: %s:%d\n", h.FilePath, h.LineNumber)
	cmd.Printf("  status:   %s\n", h.Status)
	if h.IsDynamic {
		cmd.Println("  dynamic:  yes")
	}
	if len(h.Params) > 0 {
		cmd.Printf("  params:   %s\n", strings.Join(h.Params, ", "))
	}
	if h.EnclosingScope != "" {
		cmd.Printf("  scope:    %s\n", h.EnclosingScope)
	}
	if h.Description != "" {
		cmd.Printf("\n%s\n", h.Description)
	}
	if h.DocComment != "" {
		cmd.Printf("\n%s\n", h.DocComment)
	}
	if h.CodeContext != "" {
		cmd.Printf("\n%s\n", h.CodeContext)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Check whether a hook name exists in the index",
	Long: `Validates an exact, case-sensitive hook name. Exits 0 when the name
is declared by an active hook, non-zero when it is removed or unknown.
Unknown names come with up to five fuzzy suggestions.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search %w", errNotConfigured)
	}

	result, err := searchService.Validate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if validateJSON {
		if err := printJSON(cmd, result); err != nil {
			return err
		}
	} else {
		printValidation(cmd, result)
	}

	if result.Status != domain.ValidationValid {
		return fmt.Errorf("hook %q is %s", result.Name, result.Status)
	}
	return nil
}

func printValidation(cmd *cobra.Command, r *domain.ValidationResult) {
	cmd.Printf("%s: %s\n", r.Name, r.Status)

	for _, loc := range r.Locations {
		cmd.Printf("  %s  %s:%d (%s)\n", loc.SourceName, loc.FilePath, loc.LineNumber, loc.Kind)
	}
	if r.RemovedAt != nil {
		cmd.Printf("  removed at %s\n", r.RemovedAt.Format("2006-01-02 15:04:05"))
	}
	if len(r.Suggestions) > 0 {
		cmd.Println("Did you mean:")
		for i := range r.Suggestions {
			h := &r.Suggestions[i].Hook
			cmd.Printf("  %s (%s)  %s:%d\n", h.Name, h.Kind, h.FilePath, h.LineNumber)
		}
	}
}

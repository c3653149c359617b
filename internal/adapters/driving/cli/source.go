package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

var (
	sourceAddName      string
	sourceAddPath      string
	sourceAddRepo      string
	sourceAddRef       string
	sourceAddSubfolder string
	sourceAddContent   string
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage indexed sources",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [type]",
	Short: "Register a new source",
	Long: `Registers a source to index. Type is "local" for a directory on disk
or "github" for a repository fetched as a tarball.

Examples:
  hookdex source add local --name my-plugin --path ./my-plugin
  hookdex source add github --name woocommerce --repo woocommerce/woocommerce
  hookdex source add github --name wp-docs --repo WordPress/developer-docs --content documentation`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sources",
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a source and all of its indexed data",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

func init() {
	sourceAddCmd.Flags().StringVar(&sourceAddName, "name", "", "unique source name (required)")
	sourceAddCmd.Flags().StringVar(&sourceAddPath, "path", "", "directory path for local sources")
	sourceAddCmd.Flags().StringVar(&sourceAddRepo, "repo", "", "owner/name for github sources")
	sourceAddCmd.Flags().StringVar(&sourceAddRef, "ref", "", "git ref for github sources (default branch if empty)")
	sourceAddCmd.Flags().StringVar(&sourceAddSubfolder, "subfolder", "", "subfolder within a github repository")
	sourceAddCmd.Flags().StringVar(&sourceAddContent, "content", string(domain.ContentCode),
		"content type: code or documentation")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return fmt.Errorf("source %w", errNotConfigured)
	}
	if sourceAddName == "" {
		return fmt.Errorf("%w: --name is required", domain.ErrInvalidInput)
	}

	cfg := map[string]string{}
	switch args[0] {
	case domain.SourceTypeLocal:
		cfg["path"] = sourceAddPath
	case domain.SourceTypeGitHub:
		cfg["repo"] = sourceAddRepo
		if sourceAddRef != "" {
			cfg["ref"] = sourceAddRef
		}
		if sourceAddSubfolder != "" {
			cfg["subfolder"] = sourceAddSubfolder
		}
	}

	source := domain.Source{
		Type:        args[0],
		Name:        sourceAddName,
		Config:      cfg,
		ContentType: domain.ContentType(sourceAddContent),
		Enabled:     true,
	}

	if err := sourceService.Add(cmd.Context(), source); err != nil {
		return fmt.Errorf("adding source: %w", err)
	}

	cmd.Printf("Source %q added.\n", sourceAddName)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return fmt.Errorf("source %w", errNotConfigured)
	}

	sources, err := sourceService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources registered.")
		return nil
	}

	cmd.Println("Registered sources:")
	for i := range sources {
		src := &sources[i]
		state := "enabled"
		if !src.Enabled {
			state = "disabled"
		}
		cmd.Printf("  %s (%s, %s, %s)\n", src.Name, src.Type, src.ContentType, state)
		if path := src.Config["path"]; path != "" {
			cmd.Printf("      path: %s\n", path)
		}
		if repo := src.Config["repo"]; repo != "" {
			cmd.Printf("      repo: %s\n", repo)
		}
	}
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return fmt.Errorf("source %w", errNotConfigured)
	}

	if err := sourceService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing source: %w", err)
	}

	cmd.Printf("Source %q removed.\n", args[0])
	return nil
}

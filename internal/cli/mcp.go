package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/djangolens/djangolens/internal/config"
	"github.com/djangolens/djangolens/internal/mcp"
	"github.com/djangolens/djangolens/internal/project"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Serve extraction tools over the Model Context Protocol on stdio",
	Long: `Starts an MCP server exposing the extractors as tools: django_models,
django_urls, django_admin, django_settings, and django_symbol_search.

The project is scanned once at startup to build the symbol index; per-file
tools answer from a cache that a file watcher keeps fresh.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) == 1 {
		start = args[0]
	}
	root := project.FindProjectRoot(start)

	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	srv, err := mcp.NewServer(ctx, root, cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

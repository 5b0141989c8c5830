package cmd

import (
	"context"
	"fmt"

	"github.com/clausewise/clausewise/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the MCP server for tool-based access over stdio.

Tools:
  - analyze_tos:     analyze a ToS document by URL or pasted text
  - diff_tos:        diff a URL against its stored snapshot
  - search_analyses: search archived analyses (requires Elasticsearch)

Example:
  clausewise mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, archiveClient, err := buildPipeline(context.Background(), cfg)
	if err != nil {
		return err
	}

	server := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, p, archiveClient)

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}

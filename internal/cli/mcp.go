package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cortex-skeleton/internal/mcp"
)

var mcpMaxBatch int

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [DIR]",
	Short: "Start the MCP server exposing skeleton tools",
	Long: `Start a Model Context Protocol (MCP) server on stdio so coding assistants can
request file skeletons instead of reading whole files.

Tools:
- get_skeleton: skeleton of one file (path, optional content, optional full_docs)
- get_skeletons: skeletons of several files as JSON with fallback flags
- list_skeleton_languages: supported languages and extensions

When no skeleton can be produced the tool result is an error telling the
client to read the full file.

Example:
  skeleton mcp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().IntVar(&mcpMaxBatch, "max-batch", 50, "Maximum number of paths per get_skeletons call")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := resolveRoot(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	ext := newExtractor(cfg)
	defer ext.Close()

	// stdout carries the protocol
	fmt.Fprintf(os.Stderr, "Skeleton MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n\n", rootDir)

	server, err := mcp.NewMCPServer(&mcp.ServerConfig{
		RootDir:  rootDir,
		FullDocs: cfg.Extract.FullDocs,
		MaxBatch: mcpMaxBatch,
	}, ext)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

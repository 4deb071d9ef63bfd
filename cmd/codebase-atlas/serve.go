package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/config"
	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/tools"
)

var (
	serveRoot  string
	serveIndex string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run the MCP server over stdio, exposing indexing, queries, and the
analysis workflows as tools. An existing index for the root is loaded at
startup; otherwise the first index_project call builds one.

Example Claude Code registration:
  claude mcp add codebase-atlas -- codebase-atlas serve --root ~/src/shop`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "Project root served by default")
	serveCmd.Flags().StringVar(&serveIndex, "index", "", "Index file to preload (default: configured output under the root)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	absRoot, err := filepath.Abs(serveRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid root: %v\n", err)
		os.Exit(1)
	}

	path := serveIndex
	if path == "" {
		path = config.Load(absRoot).EffectiveOutput()
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(absRoot, path)
	}

	var preloaded *index.Index
	if x, loadErr := index.Load(path); loadErr == nil {
		preloaded = x
		slog.Info("serve.preload", "path", path, "modules", len(x.Modules()))
	} else {
		slog.Info("serve.no_index", "path", path)
	}

	srv := tools.NewServer(absRoot, preloaded)
	if err := srv.MCPServer().Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server: %v\n", err)
		os.Exit(1)
	}
}

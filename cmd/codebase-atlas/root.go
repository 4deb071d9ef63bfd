package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/config"
	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/tools"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "codebase-atlas",
	Short: "Structural code intelligence for polyglot projects",
	Long: `codebase-atlas parses Python, JavaScript, TypeScript, Go, HTML, CSS,
and SCSS sources into a structural index: modules, classes, and functions
plus the cross-reference graph between them. Point queries and analysis
workflows run against the index document, from the command line or over MCP.`,
	Version: tools.Version,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		configureLogging()
	},
}

func init() {
	rootCmd.SetVersionTemplate("codebase-atlas {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// configureLogging keeps package logs off stdout so command output stays
// parseable. Warnings and errors always surface; --verbose opens the rest.
func configureLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openIndex loads the index document at path, falling back to the output
// configured for the current directory.
func openIndex(path string) (*index.Index, error) {
	if path == "" {
		path = config.Load(".").EffectiveOutput()
	}
	return index.Load(path)
}

// mustOpenIndex is openIndex with CLI error handling.
func mustOpenIndex(path string) *index.Index {
	x, err := openIndex(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if index.IsUnavailable(err) {
			fmt.Fprintln(os.Stderr, "Run 'codebase-atlas index <root>' to build one.")
		}
		os.Exit(1)
	}
	return x
}

// projectConfig loads the .atlasconfig of the indexed project, so workflow
// defaults follow the project the index was built from.
func projectConfig(x *index.Index) *config.ProjectConfig {
	return config.Load(x.Project().Root)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: marshal output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// textRenderer is implemented by every workflow result.
type textRenderer interface {
	RenderText() string
}

// printResult writes v in the requested format, json or text.
func printResult(format string, v textRenderer) {
	switch format {
	case "text":
		fmt.Println(v.RenderText())
	case "json":
		printJSON(v)
	default:
		fmt.Fprintf(os.Stderr, "Error: format must be json or text, got %q\n", format)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/config"
	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/lang"
)

var (
	indexOutput    string
	indexName      string
	indexLanguages []string
	indexExclude   []string
	indexSummary   bool
)

var indexCmd = &cobra.Command{
	Use:   "index [root]",
	Short: "Parse a project tree and write the structural index",
	Long: `Parse every supported source file under root, build the cross-reference
graph, and write the index document other commands query.

Per-file parse failures become warnings inside the document; the build only
fails on environmental problems like an unreadable root.

Examples:
  codebase-atlas index .
  codebase-atlas index ~/src/shop -o .atlas/index.json --summary
  codebase-atlas index . --languages python,go --exclude vendor`,
	Args: cobra.MaximumNArgs(1),
	Run:  runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "Index file to write (default: configured output or atlas-index.json)")
	indexCmd.Flags().StringVar(&indexName, "name", "", "Project name recorded in the index (default: root directory name)")
	indexCmd.Flags().StringSliceVar(&indexLanguages, "languages", nil, "Restrict parsing to these languages (e.g. python,javascript,go)")
	indexCmd.Flags().StringSliceVar(&indexExclude, "exclude", nil, "Extra path components to exclude (repeatable)")
	indexCmd.Flags().BoolVar(&indexSummary, "summary", false, "Print a human summary instead of JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(_ *cobra.Command, args []string) {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid root: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load(absRoot)

	name := indexName
	if name == "" {
		name = cfg.EffectiveName("")
	}
	languages := cfg.EffectiveLanguages()
	if len(indexLanguages) > 0 {
		languages, err = parseLanguages(indexLanguages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	excludes := append([]string{}, cfg.Index.ExcludePatterns...)
	excludes = append(excludes, indexExclude...)

	out := indexOutput
	if out == "" {
		out = cfg.EffectiveOutput()
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(absRoot, out)
	}

	doc, err := buildAndWrite(context.Background(), absRoot, name, languages, excludes, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if indexSummary {
		printIndexSummary(doc, out)
		return
	}
	printJSON(map[string]any{
		"project":   doc.Project.Name,
		"path":      out,
		"modules":   doc.Stats.TotalModules,
		"classes":   doc.Stats.TotalClasses,
		"functions": doc.Stats.TotalFunctions,
		"edges":     doc.CrossReferences.EdgeCount(),
		"warnings":  len(doc.Warnings),
	})
}

// buildAndWrite runs the full parse and persists the document. Shared with
// the watch loop.
func buildAndWrite(ctx context.Context, root, name string, languages []lang.Language, excludes []string, out string) (*index.Document, error) {
	doc, err := index.Build(ctx, index.BuildOptions{
		Root:            root,
		ProjectName:     name,
		Languages:       languages,
		ExcludePatterns: excludes,
	})
	if err != nil {
		return nil, err
	}
	if err := index.Write(doc, out); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseLanguages resolves language names from the command line. Unlike the
// config loader, an unknown name here is an error: the user typed it.
func parseLanguages(names []string) ([]lang.Language, error) {
	var out []lang.Language
	for _, name := range names {
		l := lang.Language(name)
		if lang.ForLanguage(l) == nil {
			return nil, fmt.Errorf("unknown language %q (supported: %v)", name, lang.AllLanguages())
		}
		out = append(out, l)
	}
	return out, nil
}

func printIndexSummary(doc *index.Document, path string) {
	stats := doc.Stats
	fmt.Printf("Indexed %s: %d modules, %d classes, %d functions, %d lines\n",
		doc.Project.Name, stats.TotalModules, stats.TotalClasses, stats.TotalFunctions, stats.TotalLines)

	langs := make([]lang.Language, 0, len(stats.Languages))
	for l := range stats.Languages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	for _, l := range langs {
		ls := stats.Languages[l]
		fmt.Printf("  %-12s %d files (%d parsed), %d functions, %d classes\n",
			l, ls.Files, ls.Parsed, ls.Functions, ls.Classes)
	}

	if stats.Complexity.MaxFunction != "" {
		fmt.Printf("  complexity: avg %.2f, max %d (%s)\n",
			stats.Complexity.Average, stats.Complexity.Max, stats.Complexity.MaxFunction)
	}
	fmt.Printf("  cross-references: %d edges\n", doc.CrossReferences.EdgeCount())
	if len(doc.Warnings) > 0 {
		fmt.Printf("  warnings: %d\n", len(doc.Warnings))
	}
	fmt.Printf("  index written to %s\n", path)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/index"
)

var (
	searchIndexPath string
	searchKind      string
	searchRegex     bool
	searchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search entity names",
	Long: `Search entity names across the index. Plain patterns match as
case-insensitive substrings; --regex switches to regular expressions.

Examples:
  codebase-atlas query search order
  codebase-atlas query search '^handle_' --regex --kind function
  codebase-atlas query search user --limit 10`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchIndexPath, "index", "", "Index file to query (default: configured output in the current directory)")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Restrict to one entity kind: function, class, or module")
	searchCmd.Flags().BoolVar(&searchRegex, "regex", false, "Interpret the pattern as a regular expression")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of hits (capped at 200)")
	queryCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) {
	pattern := args[0]
	switch searchKind {
	case "", "function", "class", "module":
	default:
		fmt.Fprintf(os.Stderr, "Error: kind must be function, class, or module, got %q\n", searchKind)
		os.Exit(1)
	}
	limit := searchLimit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	x := mustOpenIndex(searchIndexPath)

	hits, err := x.SearchEntities(pattern, index.SearchOptions{
		Regex: searchRegex,
		Kind:  searchKind,
		Limit: limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if hits == nil {
		hits = []index.SearchHit{}
	}
	printJSON(map[string]any{
		"pattern": pattern,
		"total":   len(hits),
		"limit":   limit,
		"hits":    hits,
	})
}

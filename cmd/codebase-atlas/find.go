package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/schema"
)

var (
	findIndex string
	findKind  string
)

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Look up functions, classes, or modules by name",
	Long: `Look up entities by name. Functions match on bare or qualified name
('save' or 'User.save'), modules on exact path or path suffix.

Examples:
  codebase-atlas query find process_order
  codebase-atlas query find User --kind class
  codebase-atlas query find models.py --kind module`,
	Args: cobra.ExactArgs(1),
	Run:  runFind,
}

func init() {
	findCmd.Flags().StringVar(&findIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	findCmd.Flags().StringVar(&findKind, "kind", "", "Restrict to one entity kind: function, class, or module")
	queryCmd.AddCommand(findCmd)
}

// findMatch tags one hit with its kind; exactly one payload field is set.
type findMatch struct {
	Kind     string           `json:"kind"`
	Function *schema.Function `json:"function,omitempty"`
	Class    *schema.Class    `json:"class,omitempty"`
	Module   *schema.Module   `json:"module,omitempty"`
}

func runFind(_ *cobra.Command, args []string) {
	name := args[0]
	switch findKind {
	case "", "function", "class", "module":
	default:
		fmt.Fprintf(os.Stderr, "Error: kind must be function, class, or module, got %q\n", findKind)
		os.Exit(1)
	}

	x := mustOpenIndex(findIndex)

	matches := []findMatch{}
	if findKind == "" || findKind == "function" {
		for _, fn := range x.FindFunction(name) {
			matches = append(matches, findMatch{Kind: "function", Function: fn})
		}
	}
	if findKind == "" || findKind == "class" {
		for _, cls := range x.FindClass(name) {
			matches = append(matches, findMatch{Kind: "class", Class: cls})
		}
	}
	if findKind == "" || findKind == "module" {
		for _, m := range x.FindModule(name) {
			matches = append(matches, findMatch{Kind: "module", Module: m})
		}
	}

	printJSON(map[string]any{
		"name":    name,
		"total":   len(matches),
		"matches": matches,
	})
}

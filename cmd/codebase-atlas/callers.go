package main

import (
	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

var callersIndex string

var callersCmd = &cobra.Command{
	Use:   "callers <function>",
	Short: "List the call sites targeting a function",
	Args:  cobra.ExactArgs(1),
	Run:   runCallers,
}

func init() {
	callersCmd.Flags().StringVar(&callersIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	queryCmd.AddCommand(callersCmd)
}

func runCallers(_ *cobra.Command, args []string) {
	name := args[0]
	x := mustOpenIndex(callersIndex)

	refs := x.Callers(name)
	if refs == nil {
		refs = []schema.Reference{}
	}
	printJSON(map[string]any{
		"function": name,
		"total":    len(refs),
		"callers":  refs,
		"names":    index.CompactNames(refs),
	})
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

var calleesIndex string

var calleesCmd = &cobra.Command{
	Use:   "callees <function>",
	Short: "List the calls a function makes",
	Long: `List every outgoing call site of a function, including calls whose
target never resolved to an entity in the project.`,
	Args: cobra.ExactArgs(1),
	Run:  runCallees,
}

func init() {
	calleesCmd.Flags().StringVar(&calleesIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	queryCmd.AddCommand(calleesCmd)
}

func runCallees(_ *cobra.Command, args []string) {
	name := args[0]
	x := mustOpenIndex(calleesIndex)

	refs := x.Callees(name)
	if refs == nil {
		refs = []schema.Reference{}
	}
	printJSON(map[string]any{
		"function": name,
		"total":    len(refs),
		"callees":  refs,
		"names":    index.CompactNames(refs),
	})
}

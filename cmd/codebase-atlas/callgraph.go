package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/workflows"
)

var (
	callgraphIndex     string
	callgraphDirection string
	callgraphDepth     int
	callgraphFormat    string
)

var callgraphCmd = &cobra.Command{
	Use:   "callgraph <function>",
	Short: "Walk the call graph around a function",
	Long: `Walk the call edges around a function breadth-first and report the
bounded neighborhood: every reachable caller and callee with its shortest
depth, plus the observed call sites.

Direction options:
  callers  only functions that reach this one
  callees  only functions this one reaches
  both     both passes (default)

Examples:
  codebase-atlas callgraph process_order
  codebase-atlas callgraph save --direction callers --depth 2
  codebase-atlas callgraph main --format text`,
	Args: cobra.ExactArgs(1),
	Run:  runCallgraph,
}

func init() {
	callgraphCmd.Flags().StringVar(&callgraphIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	callgraphCmd.Flags().StringVar(&callgraphDirection, "direction", "both", "Traversal direction: callers, callees, or both")
	callgraphCmd.Flags().IntVar(&callgraphDepth, "depth", 0, "Maximum traversal depth, 1-10 (default: configured or 3)")
	callgraphCmd.Flags().StringVar(&callgraphFormat, "format", "json", "Output format: json or text")
	rootCmd.AddCommand(callgraphCmd)
}

func runCallgraph(cmd *cobra.Command, args []string) {
	direction := workflows.Direction(callgraphDirection)
	switch direction {
	case workflows.DirectionCallers, workflows.DirectionCallees, workflows.DirectionBoth:
	default:
		fmt.Fprintf(os.Stderr, "Error: direction must be callers, callees, or both, got %q\n", callgraphDirection)
		os.Exit(1)
	}

	x := mustOpenIndex(callgraphIndex)

	depth := callgraphDepth
	if !cmd.Flags().Changed("depth") {
		depth = projectConfig(x).EffectiveCallGraphDepth()
	}

	res := workflows.CallGraph(x, workflows.CallGraphOptions{
		Function:  args[0],
		Direction: direction,
		MaxDepth:  depth,
	})
	printResult(callgraphFormat, res)
}

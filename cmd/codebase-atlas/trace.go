package main

import (
	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/workflows"
)

var (
	traceEntryIndex  string
	traceEntryDepth  int
	traceEntryFormat string

	traceDataIndex  string
	traceDataFormat string
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace execution flow or data lifecycle",
}

var traceEntryCmd = &cobra.Command{
	Use:   "entry <function>",
	Short: "Trace execution flow down from an entry point",
	Long: `Follow resolved call edges down from an entry point, annotating each
function with its architectural layer and flagging hot spots by complexity
and fan-out.

Examples:
  codebase-atlas trace entry main
  codebase-atlas trace entry handle_request --depth 3 --format text`,
	Args: cobra.ExactArgs(1),
	Run:  runTraceEntry,
}

var traceDataCmd = &cobra.Command{
	Use:   "data <class>",
	Short: "Map the lifecycle of a class across the codebase",
	Long: `Collect every function related to a class (its methods, its
construction sites, and name-matched handlers elsewhere) and bucket them
into create, read, update, and delete operations by layer.

Examples:
  codebase-atlas trace data User
  codebase-atlas trace data Order --format text`,
	Args: cobra.ExactArgs(1),
	Run:  runTraceData,
}

func init() {
	traceEntryCmd.Flags().StringVar(&traceEntryIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	traceEntryCmd.Flags().IntVar(&traceEntryDepth, "depth", 0, "Maximum trace depth, 1-10 (default: configured or 5)")
	traceEntryCmd.Flags().StringVar(&traceEntryFormat, "format", "json", "Output format: json or text")

	traceDataCmd.Flags().StringVar(&traceDataIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	traceDataCmd.Flags().StringVar(&traceDataFormat, "format", "json", "Output format: json or text")

	traceCmd.AddCommand(traceEntryCmd)
	traceCmd.AddCommand(traceDataCmd)
	rootCmd.AddCommand(traceCmd)
}

func runTraceEntry(cmd *cobra.Command, args []string) {
	x := mustOpenIndex(traceEntryIndex)

	depth := traceEntryDepth
	if !cmd.Flags().Changed("depth") {
		depth = projectConfig(x).EffectiveTraceDepth()
	}

	res := workflows.TraceEntry(x, workflows.TraceEntryOptions{
		Entry:    args[0],
		MaxDepth: depth,
	})
	printResult(traceEntryFormat, res)
}

func runTraceData(_ *cobra.Command, args []string) {
	x := mustOpenIndex(traceDataIndex)

	res := workflows.TraceData(x, workflows.TraceDataOptions{
		Class: args[0],
	})
	printResult(traceDataFormat, res)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/workflows"
)

var (
	impactIndex  string
	impactDepth  int
	impactFormat string
)

var impactCmd = &cobra.Command{
	Use:   "impact <name>",
	Short: "Estimate the blast radius of changing a function or class",
	Long: `Estimate what changing a function or class would touch: direct
dependents off the graph, indirect dependents within a bounded depth, the
architectural layers affected, and a risk score weighing all of it against
test coverage.

Examples:
  codebase-atlas impact process_order
  codebase-atlas impact User --depth 0
  codebase-atlas impact save --format text`,
	Args: cobra.ExactArgs(1),
	Run:  runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	impactCmd.Flags().IntVar(&impactDepth, "depth", -1, "Indirect dependent depth, 0 disables (default: configured or 2)")
	impactCmd.Flags().StringVar(&impactFormat, "format", "json", "Output format: json or text")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) {
	x := mustOpenIndex(impactIndex)

	depth := impactDepth
	if !cmd.Flags().Changed("depth") {
		depth = projectConfig(x).EffectiveImpactDepth()
	}

	res := workflows.Impact(x, workflows.ImpactOptions{
		Name:  args[0],
		Depth: depth,
	})
	printResult(impactFormat, res)
}

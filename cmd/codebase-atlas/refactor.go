package main

import (
	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/workflows"
)

var (
	refactorIndex         string
	refactorMinComplexity int
	refactorFormat        string
)

var refactorCmd = &cobra.Command{
	Use:   "refactor",
	Short: "Rank functions worth restructuring",
	Long: `Rank every function at or above the complexity floor by priority:
complexity multiplied by direct dependents. Quick wins are complex but
lightly depended on; major refactors are complex and load-bearing.

Examples:
  codebase-atlas refactor
  codebase-atlas refactor --min-complexity 15 --format text`,
	Args: cobra.NoArgs,
	Run:  runRefactor,
}

func init() {
	refactorCmd.Flags().StringVar(&refactorIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	refactorCmd.Flags().IntVar(&refactorMinComplexity, "min-complexity", 0, "Complexity floor for candidates (default: configured or 10)")
	refactorCmd.Flags().StringVar(&refactorFormat, "format", "json", "Output format: json or text")
	rootCmd.AddCommand(refactorCmd)
}

func runRefactor(cmd *cobra.Command, _ []string) {
	x := mustOpenIndex(refactorIndex)

	minComplexity := refactorMinComplexity
	if !cmd.Flags().Changed("min-complexity") {
		minComplexity = projectConfig(x).EffectiveMinComplexity()
	}

	res := workflows.RefactorCandidates(x, workflows.RefactorOptions{
		MinComplexity: minComplexity,
	})
	printResult(refactorFormat, res)
}

package main

import (
	"github.com/spf13/cobra"
)

var statsIndex string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show whole-project statistics from the index",
	Args:  cobra.NoArgs,
	Run:   runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsIndex, "index", "", "Index file to query (default: configured output in the current directory)")
	queryCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) {
	x := mustOpenIndex(statsIndex)

	printJSON(map[string]any{
		"project":        x.Project(),
		"path":           x.Path(),
		"schema_version": x.SchemaVersion(),
		"generated_at":   x.GeneratedAt(),
		"stats":          x.ProjectStats(),
		"warnings":       len(x.Warnings()),
	})
}

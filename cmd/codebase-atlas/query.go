package main

import (
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Point queries over an index",
	Long: `Point queries over a built index: entity lookup, caller and callee
listings, name search, and project statistics. Unknown names yield empty
results, not errors.`,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DeusData/codebase-atlas/internal/config"
	"github.com/DeusData/codebase-atlas/internal/discover"
	"github.com/DeusData/codebase-atlas/internal/watcher"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Re-index the project whenever files change",
	Long: `Build the index, then poll the tree and rebuild it whenever a source
file changes. The poll interval adapts to tree size, 1s base plus 1s per
500 files, capped at 60s. Stops on Ctrl-C.

Example:
  codebase-atlas watch ~/src/shop -o .atlas/index.json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Index file to write (default: configured output or atlas-index.json)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid root: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load(absRoot)
	out := watchOutput
	if out == "" {
		out = cfg.EffectiveOutput()
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(absRoot, out)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild := func(ctx context.Context) error {
		_, err := buildAndWrite(ctx, absRoot, cfg.EffectiveName(""), cfg.EffectiveLanguages(), cfg.Index.ExcludePatterns, out)
		return err
	}

	doc, err := buildAndWrite(ctx, absRoot, cfg.EffectiveName(""), cfg.EffectiveLanguages(), cfg.Index.ExcludePatterns, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %s (%d modules). Watching %s for changes...\n",
		doc.Project.Name, doc.Stats.TotalModules, absRoot)

	w := watcher.New(absRoot, &discover.Options{
		ExcludePatterns: cfg.Index.ExcludePatterns,
		Languages:       cfg.EffectiveLanguages(),
	}, rebuild)
	w.Run(ctx)

	fmt.Println("Watch stopped.")
}

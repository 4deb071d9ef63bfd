package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Dump the parse tree of one source file",
	Long: `Dump the raw tree-sitter parse tree of a source file, one node per
line with nesting shown by indentation. Grammar debugging aid for extending
the extractors.`,
	Args: cobra.ExactArgs(1),
	Run:  runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func runAST(_ *cobra.Command, args []string) {
	path := args[0]
	ext := filepath.Ext(path)
	l, ok := lang.LanguageForExtension(ext)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no grammar for extension %q (supported: %v)\n", ext, lang.AllLanguages())
		os.Exit(1)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tree, err := parser.Parse(l, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse %s: %v\n", path, err)
		os.Exit(1)
	}
	defer tree.Close()

	fmt.Printf("%s (%s)\n", path, l)
	printNode(tree.RootNode(), source, 0)
}

func printNode(node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	text := string(source[node.StartByte():node.EndByte()])
	text = strings.ReplaceAll(text, "\n", "\\n")
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	start := node.StartPosition()
	fmt.Printf("%s%s [%d:%d] %q\n", strings.Repeat("  ", indent), node.Kind(), start.Row+1, start.Column, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printNode(node.Child(i), source, indent+1)
	}
}

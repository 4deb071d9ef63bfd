// Package extract turns source files into schema records. One parser serves
// each language family; all of them walk tree-sitter ASTs driven by the
// node-kind vocabulary in internal/lang.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/DeusData/codebase-atlas/internal/discover"
	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// LanguageParser is the per-language parse contract. ParseSource is the pure
// core safe to call concurrently; ParseFile reads the file itself and records
// the given path verbatim.
type LanguageParser interface {
	Language() lang.Language
	Extensions() []string
	ParseFile(path string) (*schema.ParseResult, error)
	ParseSource(source []byte, relPath string) *schema.ParseResult
	FindFiles(root string, excludePatterns []string) ([]string, error)
}

// New returns the parser for a language. TSX rides the TypeScript parser and
// SCSS the style parser.
func New(l lang.Language) (LanguageParser, bool) {
	switch l {
	case lang.Python:
		return NewPythonParser(), true
	case lang.JavaScript:
		return NewJavaScriptParser(), true
	case lang.TypeScript, lang.TSX:
		return NewTypeScriptParser(), true
	case lang.Go:
		return NewGoParser(), true
	case lang.HTML:
		return NewHTMLParser(), true
	case lang.CSS, lang.SCSS:
		return NewStyleParser(), true
	}
	return nil, false
}

// ParserFor returns the parser owning a file extension.
func ParserFor(ext string) (LanguageParser, bool) {
	l, ok := lang.LanguageForExtension(ext)
	if !ok {
		return nil, false
	}
	return New(l)
}

// parseFile is the shared ParseFile body: read the file, delegate to
// ParseSource with the path as given. Read failures become a warning on an
// empty result so directory walks keep going.
func parseFile(p LanguageParser, path string) (*schema.ParseResult, error) {
	source, err := os.ReadFile(path)
	rel := filepath.ToSlash(path)
	if err != nil {
		result := schema.NewParseResult()
		result.AddWarning(rel, 0, schema.WarnRead, fmt.Sprintf("read failed: %v", err))
		result.Errors++
		return result, nil
	}
	return p.ParseSource(source, rel), nil
}

// findFiles is the shared FindFiles body, restricted to the given languages.
func findFiles(languages []lang.Language, root string, excludePatterns []string) ([]string, error) {
	files, err := discover.Discover(context.Background(), root, &discover.Options{
		ExcludePatterns: excludePatterns,
		Languages:       languages,
	})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	sort.Strings(paths)
	return paths, nil
}

// newModule builds the base module record for a file.
func newModule(relPath string, l lang.Language, source []byte) *schema.Module {
	lineCount := bytes.Count(source, []byte("\n"))
	if len(source) > 0 && !bytes.HasSuffix(source, []byte("\n")) {
		lineCount++
	}
	return &schema.Module{
		File:        relPath,
		Language:    l,
		Classes:     []*schema.Class{},
		Functions:   []*schema.Function{},
		Imports:     []schema.Import{},
		LineCount:   lineCount,
		ContentHash: fmt.Sprintf("%016x", xxh3.Hash(source)),
	}
}

// docExcerpt normalizes a docstring to its first non-empty line, capped so
// index records stay small.
func docExcerpt(s string) string {
	const maxLen = 200
	for _, line := range bytes.Split([]byte(s), []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		out := string(trimmed)
		if len(out) > maxLen {
			out = out[:maxLen]
		}
		return out
	}
	return ""
}

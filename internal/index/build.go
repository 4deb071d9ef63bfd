package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/registry"
	"github.com/DeusData/codebase-atlas/internal/schema"
	"github.com/DeusData/codebase-atlas/internal/xref"
)

// BuildOptions selects what gets indexed.
type BuildOptions struct {
	Root            string
	ProjectName     string // defaults to the base name of Root
	Languages       []lang.Language
	ExcludePatterns []string
}

// Build parses the tree under opts.Root, constructs the cross-reference
// graph, and assembles the index document. Per-file failures surface as
// warnings inside the document; only environmental problems (unreadable
// root, cancellation) return an error.
func Build(ctx context.Context, opts BuildOptions) (*Document, error) {
	start := time.Now()
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	result, langStats, err := registry.ParseAll(ctx, root, &registry.Options{
		Languages:       opts.Languages,
		ExcludePatterns: opts.ExcludePatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", root, err)
	}

	graph := xref.Build(result)
	xref.DetectAll(result)

	name := opts.ProjectName
	if name == "" {
		name = filepath.Base(root)
	}
	doc := &Document{
		SchemaVersion:   CurrentSchemaVersion,
		GeneratedAt:     time.Now().UTC(),
		Project:         Project{Name: name, Root: root},
		Stats:           computeStats(result, langStats),
		Modules:         result.Modules,
		CrossReferences: graph,
		Warnings:        result.Warnings,
	}
	// Written documents carry the same canonical shape a loaded one has.
	normalize(doc)

	slog.Info("index.build.done",
		"project", name,
		"modules", len(doc.Modules),
		"functions", doc.Stats.TotalFunctions,
		"classes", doc.Stats.TotalClasses,
		"edges", graph.EdgeCount(),
		"warnings", len(doc.Warnings),
		"duration_ms", time.Since(start).Milliseconds())
	return doc, nil
}

func computeStats(result *schema.ParseResult, langStats map[lang.Language]*registry.LanguageStats) Stats {
	stats := Stats{Languages: langStats}
	if stats.Languages == nil {
		stats.Languages = make(map[lang.Language]*registry.LanguageStats)
	}
	total := 0
	for _, m := range result.Modules {
		stats.TotalModules++
		stats.TotalLines += m.LineCount
		stats.TotalClasses += len(m.Classes)
		for _, fn := range m.Functions {
			stats.TotalFunctions++
			total += fn.Complexity
			if fn.Complexity > stats.Complexity.Max {
				stats.Complexity.Max = fn.Complexity
				stats.Complexity.MaxFunction = fn.QualifiedName()
			}
		}
	}
	if stats.TotalFunctions > 0 {
		avg := float64(total) / float64(stats.TotalFunctions)
		stats.Complexity.Average = math.Round(avg*100) / 100
	}
	return stats
}

// Write marshals doc and replaces path through a sibling temp file, so a
// reader never observes a half-written index.
func Write(doc *Document, path string) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".atlas-index-*")
	if err != nil {
		return fmt.Errorf("temp index: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(out, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace index: %w", err)
	}
	slog.Info("index.write.done", "path", path, "bytes", len(out))
	return nil
}

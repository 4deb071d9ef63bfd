// Package registry dispatches source files to their language parsers and
// merges the per-file results into one project-wide ParseResult.
package registry

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/codebase-atlas/internal/discover"
	"github.com/DeusData/codebase-atlas/internal/extract"
	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// LanguageStats aggregates per-language counters for one parse pass.
type LanguageStats struct {
	Files     int `json:"files"`
	Parsed    int `json:"parsed"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Functions int `json:"functions"`
	Classes   int `json:"classes"`
}

// Options controls discovery for DetectLanguages and ParseAll.
type Options struct {
	ExcludePatterns []string
	// Languages restricts parsing to the listed languages. Empty means all
	// registered languages.
	Languages []lang.Language
}

// DetectLanguages walks root and counts recognized files per language.
// Languages with zero files do not appear in the census.
func DetectLanguages(ctx context.Context, root string, excludePatterns []string) (map[lang.Language]int, error) {
	files, err := discover.Discover(ctx, root, &discover.Options{ExcludePatterns: excludePatterns})
	if err != nil {
		return nil, err
	}
	census := make(map[lang.Language]int)
	for _, f := range files {
		census[f.Language]++
	}
	return census, nil
}

// ParseAll parses every recognized file under root. Stage 1 parses files in
// parallel with no shared state; stage 2 merges sequentially, so the merge
// needs no locking and the output is deterministic after Sort.
func ParseAll(ctx context.Context, root string, opts *Options) (*schema.ParseResult, map[lang.Language]*LanguageStats, error) {
	if opts == nil {
		opts = &Options{}
	}
	files, err := discover.Discover(ctx, root, &discover.Options{
		ExcludePatterns: opts.ExcludePatterns,
		Languages:       opts.Languages,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Info("parse.discovered", "files", len(files))

	type fileResult struct {
		file   discover.FileInfo
		result *schema.ParseResult
	}
	results := make([]*fileResult, len(files))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p, ok := extract.New(f.Language)
			if !ok {
				return nil
			}
			source, readErr := os.ReadFile(f.Path)
			if readErr != nil {
				r := schema.NewParseResult()
				r.AddWarning(f.RelPath, 0, schema.WarnRead, readErr.Error())
				r.Errors++
				results[i] = &fileResult{file: f, result: r}
				return nil
			}
			results[i] = &fileResult{file: f, result: p.ParseSource(source, f.RelPath)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	merged := schema.NewParseResult()
	stats := make(map[lang.Language]*LanguageStats)
	for _, r := range results {
		if r == nil {
			continue
		}
		st := stats[r.file.Language]
		if st == nil {
			st = &LanguageStats{}
			stats[r.file.Language] = st
		}
		st.Files++
		if r.result.Errors > 0 {
			st.Errors += r.result.Errors
			slog.Warn("parse.file.err", "path", r.file.RelPath, "warnings", len(r.result.Warnings))
		} else {
			st.Parsed++
		}
		st.Warnings += len(r.result.Warnings)
		for _, m := range r.result.Modules {
			st.Functions += len(m.Functions)
			st.Classes += len(m.Classes)
		}
		merged.Merge(r.result)
	}
	merged.Sort()
	slog.Info("parse.done", "modules", len(merged.Modules), "warnings", len(merged.Warnings))
	return merged, stats, nil
}

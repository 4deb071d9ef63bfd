package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeusData/codebase-atlas/internal/lang"
)

// IGNORE_PATTERNS are directory names always skipped during discovery.
var IGNORE_PATTERNS = map[string]bool{
	".cache": true, ".eggs": true, ".env": true, ".git": true,
	".hg": true, ".idea": true, ".mypy_cache": true, ".nox": true,
	".npm": true, ".nyc_output": true, ".pnpm-store": true,
	".pytest_cache": true, ".ruff_cache": true, ".svn": true,
	".tox": true, ".venv": true, ".vs": true, ".vscode": true,
	".yarn": true, "__pycache__": true, "bower_components": true,
	"build": true, "coverage": true, "dist": true, "env": true,
	"htmlcov": true, "node_modules": true, "site-packages": true,
	"target": true, "vendor": true, "venv": true,
}

// IGNORE_SUFFIXES are file suffixes always skipped.
var IGNORE_SUFFIXES = map[string]bool{
	".tmp": true, "~": true, ".pyc": true, ".pyo": true,
	".o": true, ".a": true, ".so": true, ".dll": true, ".class": true,
	".min.js": true, ".min.css": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to project root, slash-separated
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	// ExcludePatterns are user-supplied patterns matched against whole path
	// components (see Excluded). Merged with patterns from the ignore file.
	ExcludePatterns []string
	// IgnoreFile overrides the default <root>/.atlasignore location.
	IgnoreFile string
	// Languages restricts discovery to the given set when non-empty.
	Languages []lang.Language
}

// Excluded reports whether rel matches any exclusion pattern. A pattern
// without a slash matches a complete path component (by equality or glob),
// never a component prefix, so ".hidden" excludes "a/.hidden/b.py" but not
// "a/.hiddenfoo/b.py". A pattern containing slashes matches the relative
// path itself on whole-component boundaries.
func Excluded(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	components := strings.Split(rel, "/")
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		if strings.Contains(pattern, "/") {
			if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
				return true
			}
			continue
		}
		for _, c := range components {
			if c == pattern {
				return true
			}
			if matched, _ := filepath.Match(pattern, c); matched {
				return true
			}
		}
	}
	return false
}

// shouldSkipDir returns true if the directory should be skipped.
func shouldSkipDir(name, rel string, patterns []string) bool {
	if IGNORE_PATTERNS[name] {
		return true
	}
	return Excluded(rel, patterns)
}

// Discover walks a project tree and returns all supported source files.
func Discover(ctx context.Context, root string, opts *Options) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var patterns []string
	var allowed map[lang.Language]bool
	if opts != nil {
		patterns = append(patterns, opts.ExcludePatterns...)
		if len(opts.Languages) > 0 {
			allowed = make(map[lang.Language]bool, len(opts.Languages))
			for _, l := range opts.Languages {
				allowed[l] = true
			}
		}
	}

	ignPath := filepath.Join(root, ".atlasignore")
	if opts != nil && opts.IgnoreFile != "" {
		ignPath = opts.IgnoreFile
	}
	if extra, err := loadIgnoreFile(ignPath); err == nil {
		patterns = append(patterns, extra...)
	}

	var files []FileInfo

	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && shouldSkipDir(info.Name(), rel, patterns) {
				return filepath.SkipDir
			}
			return nil
		}

		for suffix := range IGNORE_SUFFIXES {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}

		if Excluded(rel, patterns) {
			return nil
		}

		ext := filepath.Ext(path)
		l, ok := lang.LanguageForExtension(ext)
		if !ok {
			return nil
		}
		if allowed != nil && !allowed[l] {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			RelPath:  rel,
			Language: l,
		})
		return nil
	})

	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}

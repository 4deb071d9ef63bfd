// Package config loads optional per-project atlas settings.
// Settings come from .atlasconfig in the project root; a missing or
// malformed file falls back to defaults so indexing never blocks on
// configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/lang"
)

// FileName is the per-project configuration file, looked up in the root.
const FileName = ".atlasconfig"

// ProjectConfig holds user-overridable settings.
type ProjectConfig struct {
	Index     IndexConfig     `yaml:"index"`
	Workflows WorkflowsConfig `yaml:"workflows"`
}

// IndexConfig holds indexing settings.
type IndexConfig struct {
	// Name overrides the project name derived from the root directory.
	Name string `yaml:"name"`

	// Output overrides where the index file is written, relative to the
	// project root unless absolute.
	Output string `yaml:"output"`

	// Languages restricts parsing to the listed languages. Empty means
	// every supported language.
	Languages []string `yaml:"languages"`

	// ExcludePatterns are added to (not replacing) the built-in ignore set
	// and any patterns from .atlasignore.
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// WorkflowsConfig holds per-workflow default overrides.
type WorkflowsConfig struct {
	// CallGraphDepth is the default call-graph traversal depth.
	// Default: 3.
	CallGraphDepth *int `yaml:"call_graph_depth"`

	// ImpactDepth is the default indirect-dependent depth for impact
	// analysis. Zero disables indirect collection. Default: 2.
	ImpactDepth *int `yaml:"impact_depth"`

	// TraceDepth is the default entry-point trace depth. Default: 5.
	TraceDepth *int `yaml:"trace_depth"`

	// MinComplexity is the default refactor-candidate complexity floor.
	// Default: 10.
	MinComplexity *int `yaml:"min_complexity"`
}

// Default returns the default project configuration.
func Default() *ProjectConfig {
	return &ProjectConfig{}
}

// Load reads .atlasconfig from the given directory.
// Returns the default config if the file is missing or unreadable.
func Load(dir string) *ProjectConfig {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return cfg // file not found or unreadable, use defaults
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default() // invalid YAML, use defaults
	}
	return cfg
}

// EffectiveName returns the configured project name, or fallback when the
// config does not set one.
func (c *ProjectConfig) EffectiveName(fallback string) string {
	if c.Index.Name != "" {
		return c.Index.Name
	}
	return fallback
}

// EffectiveOutput returns the configured index location, or the standard
// file name if not set.
func (c *ProjectConfig) EffectiveOutput() string {
	if c.Index.Output != "" {
		return c.Index.Output
	}
	return index.DefaultFileName
}

// EffectiveLanguages returns the configured language allow-list as typed
// languages, dropping entries that name no supported language. Nil means
// no restriction.
func (c *ProjectConfig) EffectiveLanguages() []lang.Language {
	var out []lang.Language
	for _, name := range c.Index.Languages {
		l := lang.Language(name)
		if lang.ForLanguage(l) != nil {
			out = append(out, l)
		}
	}
	return out
}

// EffectiveCallGraphDepth returns the configured call-graph depth,
// or the default (3) if not set.
func (c *ProjectConfig) EffectiveCallGraphDepth() int {
	if c.Workflows.CallGraphDepth != nil {
		return *c.Workflows.CallGraphDepth
	}
	return 3
}

// EffectiveImpactDepth returns the configured impact depth,
// or the default (2) if not set. An explicit zero is honored.
func (c *ProjectConfig) EffectiveImpactDepth() int {
	if c.Workflows.ImpactDepth != nil {
		return *c.Workflows.ImpactDepth
	}
	return 2
}

// EffectiveTraceDepth returns the configured trace depth,
// or the default (5) if not set.
func (c *ProjectConfig) EffectiveTraceDepth() int {
	if c.Workflows.TraceDepth != nil {
		return *c.Workflows.TraceDepth
	}
	return 5
}

// EffectiveMinComplexity returns the configured refactor complexity floor,
// or the default (10) if not set.
func (c *ProjectConfig) EffectiveMinComplexity() int {
	if c.Workflows.MinComplexity != nil {
		return *c.Workflows.MinComplexity
	}
	return 10
}

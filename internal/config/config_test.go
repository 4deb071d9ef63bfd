package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DeusData/codebase-atlas/internal/lang"
)

func TestLoadDefault(t *testing.T) {
	cfg := Load("/nonexistent/path")
	if cfg.EffectiveOutput() != "atlas-index.json" {
		t.Errorf("expected default output, got %q", cfg.EffectiveOutput())
	}
	if cfg.EffectiveName("shop") != "shop" {
		t.Errorf("expected fallback name, got %q", cfg.EffectiveName("shop"))
	}
	if langs := cfg.EffectiveLanguages(); langs != nil {
		t.Errorf("expected no language restriction, got %v", langs)
	}
	if cfg.EffectiveCallGraphDepth() != 3 {
		t.Errorf("expected default call graph depth 3, got %d", cfg.EffectiveCallGraphDepth())
	}
	if cfg.EffectiveImpactDepth() != 2 {
		t.Errorf("expected default impact depth 2, got %d", cfg.EffectiveImpactDepth())
	}
	if cfg.EffectiveTraceDepth() != 5 {
		t.Errorf("expected default trace depth 5, got %d", cfg.EffectiveTraceDepth())
	}
	if cfg.EffectiveMinComplexity() != 10 {
		t.Errorf("expected default min complexity 10, got %d", cfg.EffectiveMinComplexity())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configContent := `
index:
  name: storefront
  output: .atlas/index.json
  languages:
    - python
    - go
    - cobol
  exclude_patterns:
    - generated
    - "*.gen.py"
workflows:
  call_graph_depth: 5
  impact_depth: 0
  min_complexity: 8
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(configContent), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(dir)
	if cfg.EffectiveName("shop") != "storefront" {
		t.Errorf("name = %q, want storefront", cfg.EffectiveName("shop"))
	}
	if cfg.EffectiveOutput() != ".atlas/index.json" {
		t.Errorf("output = %q", cfg.EffectiveOutput())
	}

	langs := cfg.EffectiveLanguages()
	if len(langs) != 2 || langs[0] != lang.Python || langs[1] != lang.Go {
		t.Errorf("languages = %v, want python and go with cobol dropped", langs)
	}

	if len(cfg.Index.ExcludePatterns) != 2 {
		t.Errorf("exclude patterns = %v", cfg.Index.ExcludePatterns)
	}
	if cfg.EffectiveCallGraphDepth() != 5 {
		t.Errorf("call graph depth = %d, want 5", cfg.EffectiveCallGraphDepth())
	}
	// An explicit zero disables indirect impact collection and must not be
	// confused with "unset".
	if cfg.EffectiveImpactDepth() != 0 {
		t.Errorf("impact depth = %d, want 0", cfg.EffectiveImpactDepth())
	}
	if cfg.EffectiveTraceDepth() != 5 {
		t.Errorf("trace depth = %d, want default 5", cfg.EffectiveTraceDepth())
	}
	if cfg.EffectiveMinComplexity() != 8 {
		t.Errorf("min complexity = %d, want 8", cfg.EffectiveMinComplexity())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("index: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Load(dir)
	if cfg.EffectiveOutput() != "atlas-index.json" {
		t.Errorf("expected defaults on invalid yaml, got %q", cfg.EffectiveOutput())
	}
	if cfg.EffectiveCallGraphDepth() != 3 {
		t.Errorf("expected default depth on invalid yaml, got %d", cfg.EffectiveCallGraphDepth())
	}
}

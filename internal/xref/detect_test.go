package xref

import (
	"strings"
	"testing"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

func TestDetectFlagsDynamicPatterns(t *testing.T) {
	mod := &schema.Module{
		File:     "app/plugins.py",
		Language: lang.Python,
		Functions: []*schema.Function{
			{
				Name: "dispatch", File: "app/plugins.py", StartLine: 5, EndLine: 9,
				Decorators: []string{"app.route", "cached"},
				Calls: []schema.Reference{
					{Name: "getattr", File: "app/plugins.py", Line: 7, Kind: schema.KindCall},
					{Name: "render", File: "app/plugins.py", Line: 8, Kind: schema.KindCall},
				},
			},
		},
		Imports: []schema.Import{
			{Module: "handler_name", File: "app/plugins.py", Line: 2, Style: schema.ImportDynamic},
			{Module: "os", File: "app/plugins.py", Line: 1, Style: schema.ImportDirect},
		},
	}

	detections := Detect(mod)
	if len(detections) != 3 {
		t.Fatalf("got %d detections, want 3: %+v", len(detections), detections)
	}
	kinds := make(map[string]Detection)
	for _, d := range detections {
		kinds[d.Kind] = d
	}

	dec, ok := kinds[PatternDecorator]
	if !ok || dec.Line != 5 {
		t.Fatalf("decorator detection = %+v", dec)
	}
	if !strings.Contains(dec.Message, "@app.route") || !strings.Contains(dec.Message, "@cached") {
		t.Fatalf("decorator message = %q", dec.Message)
	}
	if len(dec.Entities) != 1 || dec.Entities[0] != "dispatch" {
		t.Fatalf("decorator entities = %v", dec.Entities)
	}

	refl, ok := kinds[PatternReflection]
	if !ok || refl.Line != 7 || !strings.Contains(refl.Message, "getattr") {
		t.Fatalf("reflection detection = %+v", refl)
	}

	dyn, ok := kinds[PatternDynamicImport]
	if !ok || dyn.Line != 2 || !strings.Contains(dyn.Message, "handler_name") {
		t.Fatalf("dynamic import detection = %+v", dyn)
	}
}

func TestDetectModuleLevelReflection(t *testing.T) {
	mod := &schema.Module{
		File:     "setup.py",
		Language: lang.Python,
		Refs: []schema.Reference{
			{Name: "exec", File: "setup.py", Line: 3, Kind: schema.KindCall},
		},
	}
	detections := Detect(mod)
	if len(detections) != 1 || detections[0].Kind != PatternReflection {
		t.Fatalf("detections = %+v", detections)
	}
	if detections[0].Entities[0] != "setup.py" {
		t.Fatalf("entities = %v", detections[0].Entities)
	}
}

func TestDetectCleanModuleHasNoFindings(t *testing.T) {
	mod := &schema.Module{
		File:     "app/math.py",
		Language: lang.Python,
		Functions: []*schema.Function{
			{
				Name: "add", File: "app/math.py", StartLine: 1, EndLine: 2,
				Calls: []schema.Reference{{Name: "sum", File: "app/math.py", Line: 2, Kind: schema.KindCall}},
			},
		},
		Imports: []schema.Import{
			{Module: "math", File: "app/math.py", Line: 1, Style: schema.ImportDirect},
		},
	}
	if detections := Detect(mod); len(detections) != 0 {
		t.Fatalf("clean module produced detections: %+v", detections)
	}
}

func TestDetectAllAppendsWarnings(t *testing.T) {
	result := schema.NewParseResult()
	result.AddModule(&schema.Module{
		File:     "job.js",
		Language: lang.JavaScript,
		Functions: []*schema.Function{
			{
				Name: "load", File: "job.js", StartLine: 1, EndLine: 3,
				Calls: []schema.Reference{{Name: "eval", File: "job.js", Line: 2, Kind: schema.KindCall}},
			},
		},
	})

	detections := DetectAll(result)
	if len(detections) != 1 {
		t.Fatalf("detections = %+v", detections)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	w := result.Warnings[0]
	if w.Kind != schema.WarnDynamic || w.File != "job.js" || w.Line != 2 {
		t.Fatalf("warning = %+v", w)
	}
	if result.Errors != 0 {
		t.Fatalf("detection bumped the error count to %d", result.Errors)
	}
}

package xref

import (
	"fmt"
	"strings"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// Dynamic pattern kinds.
const (
	PatternDecorator     = "decorator"
	PatternReflection    = "reflection"
	PatternDynamicImport = "dynamic-import"
)

// Detection flags a construct that makes cross-reference edges approximate.
// Detections annotate the index; they never block an edge and never fail a
// parse.
type Detection struct {
	Kind     string   `json:"kind"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Entities []string `json:"entities,omitempty"`
	Message  string   `json:"message"`
}

// Detect scans a module's structural data for dynamic patterns: decorated
// functions, reflective call sites, and imports resolved at runtime.
func Detect(m *schema.Module) []Detection {
	var out []Detection
	var reflective map[string]bool
	if spec := lang.ForLanguage(m.Language); spec != nil {
		reflective = make(map[string]bool, len(spec.ReflectionCalls))
		for _, name := range spec.ReflectionCalls {
			reflective[name] = true
		}
	}

	for _, fn := range m.Functions {
		if len(fn.Decorators) > 0 {
			out = append(out, Detection{
				Kind:     PatternDecorator,
				File:     fn.File,
				Line:     fn.StartLine,
				Entities: []string{fn.QualifiedName()},
				Message: fmt.Sprintf("%s is decorated by @%s; call edges may be rebound at runtime",
					fn.QualifiedName(), strings.Join(fn.Decorators, ", @")),
			})
		}
		for _, ref := range fn.Calls {
			if reflective[ref.Name] {
				out = append(out, reflectionDetection(ref, fn.QualifiedName()))
			}
		}
	}
	for _, ref := range m.Refs {
		if reflective[ref.Name] {
			out = append(out, reflectionDetection(ref, m.File))
		}
	}
	for _, imp := range m.Imports {
		if imp.Style == schema.ImportDynamic {
			out = append(out, Detection{
				Kind:     PatternDynamicImport,
				File:     imp.File,
				Line:     imp.Line,
				Entities: []string{imp.Module},
				Message:  fmt.Sprintf("import of %q is resolved at runtime", imp.Module),
			})
		}
	}
	return out
}

func reflectionDetection(ref schema.Reference, owner string) Detection {
	return Detection{
		Kind:     PatternReflection,
		File:     ref.File,
		Line:     ref.Line,
		Entities: []string{owner},
		Message:  fmt.Sprintf("reflective call %s in %s obscures the real target", ref.Name, owner),
	}
}

// DetectAll runs detection over every module and folds the findings into
// the result's warning list.
func DetectAll(result *schema.ParseResult) []Detection {
	var all []Detection
	for _, m := range result.Modules {
		detections := Detect(m)
		all = append(all, detections...)
		for _, d := range detections {
			result.AddWarning(d.File, d.Line, schema.WarnDynamic, d.Message)
		}
	}
	return all
}

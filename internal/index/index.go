// Package index persists the parsed project as a JSON document and answers
// point queries over it. The on-disk document comes in two schema
// generations; the loader normalizes both to the same in-memory shape, so
// nothing above this package ever sees the difference.
package index

import (
	"time"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/registry"
	"github.com/DeusData/codebase-atlas/internal/schema"
	"github.com/DeusData/codebase-atlas/internal/xref"
)

// CurrentSchemaVersion is the document generation this build writes.
const CurrentSchemaVersion = 2

// DefaultFileName is the index file written into a project root when no
// output path is given.
const DefaultFileName = "atlas-index.json"

// Document is the persisted index.
type Document struct {
	SchemaVersion   int              `json:"schema_version"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Project         Project          `json:"project"`
	Stats           Stats            `json:"stats"`
	Modules         []*schema.Module `json:"modules"`
	CrossReferences *xref.Graph      `json:"cross_references"`
	Warnings        []schema.Warning `json:"warnings,omitempty"`
}

// Project identifies the indexed tree.
type Project struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

// Stats aggregates whole-project counts.
type Stats struct {
	TotalModules   int                                       `json:"total_modules"`
	TotalClasses   int                                       `json:"total_classes"`
	TotalFunctions int                                       `json:"total_functions"`
	TotalLines     int                                       `json:"total_lines"`
	Languages      map[lang.Language]*registry.LanguageStats `json:"languages"`
	Complexity     ComplexityStats                           `json:"complexity"`
}

// ComplexityStats summarizes the complexity distribution.
type ComplexityStats struct {
	Max         int     `json:"max"`
	MaxFunction string  `json:"max_function,omitempty"`
	Average     float64 `json:"average"`
}

// Index is a loaded document plus the lookup tables queries run on.
type Index struct {
	path string
	doc  *Document

	modulesByFile   map[string]*schema.Module
	functionsByName map[string][]*schema.Function
	classesByName   map[string][]*schema.Class
}

// FromDocument wraps an in-memory document. path may be empty when the
// document never touched disk.
func FromDocument(doc *Document, path string) *Index {
	x := &Index{
		path:            path,
		doc:             doc,
		modulesByFile:   make(map[string]*schema.Module),
		functionsByName: make(map[string][]*schema.Function),
		classesByName:   make(map[string][]*schema.Class),
	}
	if doc.CrossReferences == nil {
		doc.CrossReferences = xref.NewGraph()
	}
	for _, m := range doc.Modules {
		x.modulesByFile[m.File] = m
		for _, cls := range m.Classes {
			x.classesByName[cls.Name] = append(x.classesByName[cls.Name], cls)
		}
		for _, fn := range m.Functions {
			x.functionsByName[fn.Name] = append(x.functionsByName[fn.Name], fn)
			if q := fn.QualifiedName(); q != fn.Name {
				x.functionsByName[q] = append(x.functionsByName[q], fn)
			}
		}
	}
	return x
}

// Path returns the backing file, empty for in-memory indexes.
func (x *Index) Path() string { return x.path }

// SchemaVersion returns the generation the backing document was written in.
func (x *Index) SchemaVersion() int { return x.doc.SchemaVersion }

// GeneratedAt returns the document build time.
func (x *Index) GeneratedAt() time.Time { return x.doc.GeneratedAt }

// Project returns the indexed project's identity.
func (x *Index) Project() Project { return x.doc.Project }

// Graph returns the cross-reference maps.
func (x *Index) Graph() *xref.Graph { return x.doc.CrossReferences }

// Modules returns every indexed module, ordered by file.
func (x *Index) Modules() []*schema.Module { return x.doc.Modules }

// Warnings returns the warnings recorded at build time.
func (x *Index) Warnings() []schema.Warning { return x.doc.Warnings }

// AllFunctions returns a flat view over every function in every module.
func (x *Index) AllFunctions() []*schema.Function {
	var fns []*schema.Function
	for _, m := range x.doc.Modules {
		fns = append(fns, m.Functions...)
	}
	return fns
}

// AllClasses returns a flat view over every class in every module.
func (x *Index) AllClasses() []*schema.Class {
	var classes []*schema.Class
	for _, m := range x.doc.Modules {
		classes = append(classes, m.Classes...)
	}
	return classes
}

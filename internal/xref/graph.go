// Package xref builds the bidirectional cross-reference graph over parsed
// entities and detects dynamic patterns that weaken edge precision.
package xref

import (
	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// Entity is one graph endpoint: a stable identity plus the display name
// reference records carry.
type Entity struct {
	ID   identity.ID
	Name string
}

// Site locates one reference site in a source file.
type Site struct {
	File string
	Line int
}

// Graph holds the six cross-reference maps, forward and reverse. Every Add
// method writes both directions before returning, so the maps stay
// symmetric even if graph construction stops partway through a module set.
type Graph struct {
	// Callers maps a callee to the sites that call it.
	Callers map[identity.ID][]schema.Reference `json:"callers"`
	// Callees maps a caller to the resolved targets it calls.
	Callees map[identity.ID][]schema.Reference `json:"callees"`
	// InstantiatedBy maps a class to its instantiation sites.
	InstantiatedBy map[identity.ID][]schema.Reference `json:"instantiated_by"`
	// Instantiations maps an instantiator to the classes it constructs.
	Instantiations map[identity.ID][]schema.Reference `json:"instantiations"`
	// ImportedBy maps an imported module or class to its importer sites.
	ImportedBy map[identity.ID][]schema.Reference `json:"imported_by"`
	// Imports maps an importer to what it imports.
	Imports map[identity.ID][]schema.Reference `json:"imports"`
}

func NewGraph() *Graph {
	return &Graph{
		Callers:        make(map[identity.ID][]schema.Reference),
		Callees:        make(map[identity.ID][]schema.Reference),
		InstantiatedBy: make(map[identity.ID][]schema.Reference),
		Instantiations: make(map[identity.ID][]schema.Reference),
		ImportedBy:     make(map[identity.ID][]schema.Reference),
		Imports:        make(map[identity.ID][]schema.Reference),
	}
}

// AddCall records caller -> callee at site, both directions.
func (g *Graph) AddCall(caller, callee Entity, site Site) {
	g.Callees[caller.ID] = append(g.Callees[caller.ID],
		schema.Reference{Name: callee.Name, File: site.File, Line: site.Line, Kind: schema.KindCall})
	g.Callers[callee.ID] = append(g.Callers[callee.ID],
		schema.Reference{Name: caller.Name, File: site.File, Line: site.Line, Kind: schema.KindCall})
}

// AddInstantiation records instantiator -> class at site, both directions.
func (g *Graph) AddInstantiation(instantiator, class Entity, site Site) {
	g.Instantiations[instantiator.ID] = append(g.Instantiations[instantiator.ID],
		schema.Reference{Name: class.Name, File: site.File, Line: site.Line, Kind: schema.KindInstantiation})
	g.InstantiatedBy[class.ID] = append(g.InstantiatedBy[class.ID],
		schema.Reference{Name: instantiator.Name, File: site.File, Line: site.Line, Kind: schema.KindInstantiation})
}

// AddImport records importer -> imported at site, both directions.
func (g *Graph) AddImport(importer, imported Entity, site Site) {
	g.Imports[importer.ID] = append(g.Imports[importer.ID],
		schema.Reference{Name: imported.Name, File: site.File, Line: site.Line, Kind: schema.KindImport})
	g.ImportedBy[imported.ID] = append(g.ImportedBy[imported.ID],
		schema.Reference{Name: importer.Name, File: site.File, Line: site.Line, Kind: schema.KindImport})
}

// CallersOf returns the sites that call id.
func (g *Graph) CallersOf(id identity.ID) []schema.Reference { return g.Callers[id] }

// CalleesOf returns the resolved targets id calls.
func (g *Graph) CalleesOf(id identity.ID) []schema.Reference { return g.Callees[id] }

// InstantiatorsOf returns the sites that construct class id.
func (g *Graph) InstantiatorsOf(id identity.ID) []schema.Reference { return g.InstantiatedBy[id] }

// InstantiationSitesOf returns the classes id constructs.
func (g *Graph) InstantiationSitesOf(id identity.ID) []schema.Reference { return g.Instantiations[id] }

// ImportersOf returns the sites that import id.
func (g *Graph) ImportersOf(id identity.ID) []schema.Reference { return g.ImportedBy[id] }

// ImportsOf returns what id imports.
func (g *Graph) ImportsOf(id identity.ID) []schema.Reference { return g.Imports[id] }

// EdgeCount returns the number of forward edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, refs := range g.Callees {
		n += len(refs)
	}
	for _, refs := range g.Instantiations {
		n += len(refs)
	}
	for _, refs := range g.Imports {
		n += len(refs)
	}
	return n
}

// Sort orders every reference list canonically so construction order stops
// mattering.
func (g *Graph) Sort() {
	for _, m := range []map[identity.ID][]schema.Reference{
		g.Callers, g.Callees, g.InstantiatedBy, g.Instantiations, g.ImportedBy, g.Imports,
	} {
		for _, refs := range m {
			schema.SortReferences(refs)
		}
	}
}

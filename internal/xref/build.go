package xref

import (
	"strings"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// Build constructs the cross-reference graph for a parse result and embeds
// the resolved reference lists back onto the entity records. Resolution is
// lexical: a registry of every known function, class, and module name maps
// each recorded site to its candidate targets, and a name defined in several
// files links to every candidate.
func Build(result *schema.ParseResult) *Graph {
	g := NewGraph()
	r := newResolver(result)

	for _, m := range result.Modules {
		moduleEnt := Entity{ID: m.ID(), Name: m.File}

		for _, fn := range m.Functions {
			callerEnt := Entity{ID: fn.ID(), Name: fn.QualifiedName()}
			for i := range fn.Calls {
				r.linkSite(g, callerEnt, &fn.Calls[i])
			}
		}
		for i := range m.Refs {
			r.linkSite(g, moduleEnt, &m.Refs[i])
		}
		for _, imp := range m.Imports {
			r.linkImport(g, moduleEnt, m, imp)
		}
	}

	g.Sort()
	Embed(result, g)
	return g
}

type resolver struct {
	classesByName map[string][]*schema.Class
	funcsByName   map[string][]*schema.Function
	modulesByFile map[string]*schema.Module
	modulesByDir  map[string][]*schema.Module
}

func newResolver(result *schema.ParseResult) *resolver {
	r := &resolver{
		classesByName: make(map[string][]*schema.Class),
		funcsByName:   make(map[string][]*schema.Function),
		modulesByFile: make(map[string]*schema.Module),
		modulesByDir:  make(map[string][]*schema.Module),
	}
	for _, m := range result.Modules {
		r.modulesByFile[m.File] = m
		dir := slashDir(m.File)
		r.modulesByDir[dir] = append(r.modulesByDir[dir], m)
		for _, cls := range m.Classes {
			r.classesByName[cls.Name] = append(r.classesByName[cls.Name], cls)
		}
		for _, fn := range m.Functions {
			r.funcsByName[fn.Name] = append(r.funcsByName[fn.Name], fn)
			if q := fn.QualifiedName(); q != fn.Name {
				r.funcsByName[q] = append(r.funcsByName[q], fn)
			}
		}
	}
	return r
}

// linkSite resolves one recorded site and writes its edges. Class resolution
// takes precedence: a call whose name resolves to a class is an
// instantiation site, whatever the parser guessed from syntax alone.
func (r *resolver) linkSite(g *Graph, caller Entity, ref *schema.Reference) {
	site := Site{File: ref.File, Line: ref.Line}
	if classes := r.classesFor(ref.Name); len(classes) > 0 {
		ref.Kind = schema.KindInstantiation
		for _, cls := range classes {
			g.AddInstantiation(caller, Entity{ID: cls.ID(), Name: cls.Name}, site)
		}
		return
	}
	if ref.Kind == schema.KindInstantiation {
		// Structural instantiation of a type defined outside the project.
		return
	}
	for _, fn := range r.functionsFor(ref.Name) {
		g.AddCall(caller, Entity{ID: fn.ID(), Name: fn.QualifiedName()}, site)
	}
}

// linkImport resolves an import to module targets and, for selective
// imports, to the classes the names denote.
func (r *resolver) linkImport(g *Graph, importer Entity, m *schema.Module, imp schema.Import) {
	site := Site{File: imp.File, Line: imp.Line}
	targets, pkgDirs := r.moduleImportTargets(m, imp)
	for _, target := range targets {
		g.AddImport(importer, Entity{ID: target.ID(), Name: target.File}, site)
	}
	for _, name := range imp.Names {
		if name == "*" {
			continue
		}
		if classes := r.classesByName[name]; len(classes) > 0 {
			for _, cls := range classes {
				g.AddImport(importer, Entity{ID: cls.ID(), Name: cls.Name}, site)
			}
			continue
		}
		// A selective name can also be a submodule of the imported package.
		for _, dir := range pkgDirs {
			if sub, ok := r.modulesByFile[cleanRel(dir+"/"+name+".py")]; ok {
				g.AddImport(importer, Entity{ID: sub.ID(), Name: sub.File}, site)
			}
		}
	}
}

// classesFor resolves a site name to class candidates: the full dotted name
// first, then its last segment.
func (r *resolver) classesFor(name string) []*schema.Class {
	if classes := r.classesByName[name]; len(classes) > 0 {
		return classes
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return r.classesByName[name[i+1:]]
	}
	return nil
}

func (r *resolver) functionsFor(name string) []*schema.Function {
	if fns := r.funcsByName[name]; len(fns) > 0 {
		return fns
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return r.funcsByName[name[i+1:]]
	}
	return nil
}

// moduleImportTargets maps an import expression to the project modules it
// names plus the package directories selective names resolve against.
func (r *resolver) moduleImportTargets(m *schema.Module, imp schema.Import) ([]*schema.Module, []string) {
	switch m.Language {
	case lang.Python:
		files, dirs := pythonImportTargets(imp.Module, m.File)
		return r.modulesForPaths(files), dirs
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return r.modulesForPaths(relativeModulePaths(imp.Module, m.File, false, jsExtensions)), nil
	case lang.HTML:
		return r.modulesForPaths(relativeModulePaths(imp.Module, m.File, true, nil)), nil
	case lang.CSS, lang.SCSS:
		return r.modulesForPaths(styleModulePaths(imp.Module, m.File)), nil
	case lang.Go:
		return r.modulesForGoImport(imp.Module), nil
	}
	return nil, nil
}

func (r *resolver) modulesForPaths(paths []string) []*schema.Module {
	var out []*schema.Module
	seen := make(map[string]bool)
	for _, p := range paths {
		p = cleanRel(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		if m, ok := r.modulesByFile[p]; ok {
			out = append(out, m)
		}
	}
	return out
}

// modulesForGoImport matches an import path against known package
// directories by suffix. Go imports name packages, not files, so every
// module in a matching directory becomes a target.
func (r *resolver) modulesForGoImport(importPath string) []*schema.Module {
	var out []*schema.Module
	for dir, mods := range r.modulesByDir {
		if dir == "." {
			continue
		}
		if importPath == dir || strings.HasSuffix(importPath, "/"+dir) {
			out = append(out, mods...)
		}
	}
	return out
}

// Embed writes the resolved reference lists back onto the entity records
// for persistence and querying. The graph stays the source of truth; the
// embedded fields are a denormalized copy and loading a document reapplies
// this to keep both in step.
func Embed(result *schema.ParseResult, g *Graph) {
	for _, m := range result.Modules {
		for _, fn := range m.Functions {
			id := fn.ID()
			fn.Callers = g.Callers[id]
			fn.CallCount = len(fn.Callers)
			schema.SortReferences(fn.Calls)
		}
		for _, cls := range m.Classes {
			id := cls.ID()
			cls.InstantiatedBy = g.InstantiatedBy[id]
			cls.InstantiationCount = len(cls.InstantiatedBy)
			cls.ImportedBy = g.ImportedBy[id]
		}
		schema.SortReferences(m.Refs)
	}
}

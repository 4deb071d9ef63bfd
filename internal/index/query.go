package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DeusData/codebase-atlas/internal/schema"
)

// FindFunction returns every function whose name or qualified name equals
// name. Unknown names yield an empty slice, never an error.
func (x *Index) FindFunction(name string) []*schema.Function {
	return x.functionsByName[name]
}

// FindClass returns every class named name.
func (x *Index) FindClass(name string) []*schema.Class {
	return x.classesByName[name]
}

// FindModule returns modules whose file equals name or ends with /name, so
// "models.py" finds "app/models.py".
func (x *Index) FindModule(name string) []*schema.Module {
	if m, ok := x.modulesByFile[name]; ok {
		return []*schema.Module{m}
	}
	var out []*schema.Module
	for _, m := range x.doc.Modules {
		if strings.HasSuffix(m.File, "/"+name) {
			out = append(out, m)
		}
	}
	return out
}

// Callers returns the ordered call sites targeting the named function,
// merged across every definition that shares the name.
func (x *Index) Callers(name string) []schema.Reference {
	var refs []schema.Reference
	for _, fn := range x.FindFunction(name) {
		refs = append(refs, x.doc.CrossReferences.CallersOf(fn.ID())...)
	}
	schema.SortReferences(refs)
	return refs
}

// Callees returns the ordered outgoing sites of the named function,
// including sites whose target never resolved to a project entity.
func (x *Index) Callees(name string) []schema.Reference {
	var refs []schema.Reference
	for _, fn := range x.FindFunction(name) {
		refs = append(refs, fn.Calls...)
	}
	schema.SortReferences(refs)
	return refs
}

// CompactNames reduces references to their distinct subject names, in
// first-seen order.
func CompactNames(refs []schema.Reference) []string {
	var names []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		if !seen[ref.Name] {
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	}
	return names
}

// SearchOptions controls SearchEntities.
type SearchOptions struct {
	Regex bool   // interpret the pattern as a regular expression
	Kind  string // function, class, or module; empty searches all three
	Limit int    // 0 means unlimited
}

// SearchHit is one search result.
type SearchHit struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// SearchEntities scans entity names for pattern. Literal patterns match
// case-insensitively as substrings. Entities without a usable name are
// skipped rather than failing the whole search.
func (x *Index) SearchEntities(pattern string, opts SearchOptions) ([]SearchHit, error) {
	var match func(string) bool
	if opts.Regex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("search pattern: %w", err)
		}
		match = re.MatchString
	} else {
		needle := strings.ToLower(pattern)
		match = func(s string) bool {
			return strings.Contains(strings.ToLower(s), needle)
		}
	}

	wantKind := func(kind string) bool {
		return opts.Kind == "" || opts.Kind == kind
	}
	var hits []SearchHit
	add := func(kind, name, file string, line int) bool {
		if name == "" || !match(name) {
			return false
		}
		hits = append(hits, SearchHit{Kind: kind, Name: name, File: file, Line: line})
		return opts.Limit > 0 && len(hits) >= opts.Limit
	}

	for _, m := range x.doc.Modules {
		if wantKind("module") && add("module", m.File, m.File, 1) {
			return hits, nil
		}
		if wantKind("class") {
			for _, cls := range m.Classes {
				if add("class", cls.Name, cls.File, cls.StartLine) {
					return hits, nil
				}
			}
		}
		if wantKind("function") {
			for _, fn := range m.Functions {
				if add("function", fn.QualifiedName(), fn.File, fn.StartLine) {
					return hits, nil
				}
			}
		}
	}
	return hits, nil
}

// ProjectStats returns the aggregate counts recorded at build time.
func (x *Index) ProjectStats() Stats {
	return x.doc.Stats
}

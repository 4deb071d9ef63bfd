package schema

import "sort"

// ParseResult aggregates the modules extracted from one parse unit (a single
// file, or the merge of many). Collection order carries no meaning until
// Sort is called.
type ParseResult struct {
	Modules  []*Module `json:"modules"`
	Warnings []Warning `json:"warnings,omitempty"`
	Errors   int       `json:"errors,omitempty"`
}

// NewParseResult returns an empty result.
func NewParseResult() *ParseResult {
	return &ParseResult{}
}

// AddModule appends a module to the result.
func (r *ParseResult) AddModule(m *Module) {
	r.Modules = append(r.Modules, m)
}

// AddWarning appends a warning.
func (r *ParseResult) AddWarning(file string, line int, kind, message string) {
	r.Warnings = append(r.Warnings, Warning{File: file, Line: line, Kind: kind, Message: message})
}

// Merge folds other into r. Associative and commutative over results from
// disjoint file sets; merging two results that share a file is a caller bug
// and yields duplicate modules.
func (r *ParseResult) Merge(other *ParseResult) {
	if other == nil {
		return
	}
	r.Modules = append(r.Modules, other.Modules...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Errors += other.Errors
}

// Functions returns a flat view over every function in every module.
func (r *ParseResult) Functions() []*Function {
	var fns []*Function
	for _, m := range r.Modules {
		fns = append(fns, m.Functions...)
	}
	return fns
}

// Classes returns a flat view over every class in every module.
func (r *ParseResult) Classes() []*Class {
	var cls []*Class
	for _, m := range r.Modules {
		cls = append(cls, m.Classes...)
	}
	return cls
}

// ModuleByFile returns the module for a file, or nil.
func (r *ParseResult) ModuleByFile(file string) *Module {
	for _, m := range r.Modules {
		if m.File == file {
			return m
		}
	}
	return nil
}

// EntityCount returns modules + classes + functions, the measure merge
// associativity is checked against.
func (r *ParseResult) EntityCount() int {
	n := len(r.Modules)
	for _, m := range r.Modules {
		n += len(m.Classes) + len(m.Functions)
	}
	return n
}

// Sort orders the result canonically: modules by file, entities within a
// module by (line, name), imports by (line, module), warnings by
// (file, line, message). Merge order stops mattering after Sort, which is
// what makes index output deterministic.
func (r *ParseResult) Sort() {
	sort.Slice(r.Modules, func(i, j int) bool {
		return r.Modules[i].File < r.Modules[j].File
	})
	for _, m := range r.Modules {
		sort.Slice(m.Classes, func(i, j int) bool {
			if m.Classes[i].StartLine != m.Classes[j].StartLine {
				return m.Classes[i].StartLine < m.Classes[j].StartLine
			}
			return m.Classes[i].Name < m.Classes[j].Name
		})
		sort.Slice(m.Functions, func(i, j int) bool {
			if m.Functions[i].StartLine != m.Functions[j].StartLine {
				return m.Functions[i].StartLine < m.Functions[j].StartLine
			}
			return m.Functions[i].Name < m.Functions[j].Name
		})
		sort.Slice(m.Imports, func(i, j int) bool {
			if m.Imports[i].Line != m.Imports[j].Line {
				return m.Imports[i].Line < m.Imports[j].Line
			}
			return m.Imports[i].Module < m.Imports[j].Module
		})
	}
	sort.Slice(r.Warnings, func(i, j int) bool {
		a, b := r.Warnings[i], r.Warnings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Message < b.Message
	})
}

// SortReferences orders a reference list by (file, line, name).
func SortReferences(refs []Reference) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].File != refs[j].File {
			return refs[i].File < refs[j].File
		}
		if refs[i].Line != refs[j].Line {
			return refs[i].Line < refs[j].Line
		}
		return refs[i].Name < refs[j].Name
	})
}

// Package schema defines the language-agnostic structural records every
// parser emits: modules, classes, functions, parameters, and the reference
// records that tie them together.
package schema

import (
	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/lang"
)

// Reference kinds.
const (
	KindCall          = "call"
	KindInstantiation = "instantiation"
	KindImport        = "import"
)

// Import styles.
const (
	ImportDirect    = "direct"
	ImportSelective = "selective"
	ImportDynamic   = "dynamic"
)

// Warning kinds.
const (
	WarnParse   = "parse"
	WarnRead    = "read"
	WarnDynamic = "dynamic"
)

// Parameter is a single function parameter.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Default string `json:"default,omitempty"`
}

// Reference records one cross-reference site: the subject name plus where
// the edge was observed.
type Reference struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
	Kind string `json:"kind"`
}

// Import records one import site within a module.
type Import struct {
	Module string   `json:"module"`
	File   string   `json:"file"`
	Line   int      `json:"line"`
	Style  string   `json:"style"`
	Alias  string   `json:"alias,omitempty"`
	Names  []string `json:"names,omitempty"`
}

// Function is one extracted function or method.
type Function struct {
	Name       string      `json:"name"`
	Owner      string      `json:"owner,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
	ReturnType string      `json:"return_type,omitempty"`
	File       string      `json:"file"`
	StartLine  int         `json:"start_line"`
	EndLine    int         `json:"end_line"`
	Complexity int         `json:"complexity"`
	Decorators []string    `json:"decorators,omitempty"`
	Docstring  string      `json:"docstring,omitempty"`

	// Cross-reference fields, populated after graph construction.
	Callers   []Reference `json:"callers,omitempty"`
	Calls     []Reference `json:"calls,omitempty"`
	CallCount int         `json:"call_count,omitempty"`
}

// QualifiedName returns Owner.Name for methods, bare Name otherwise.
func (f *Function) QualifiedName() string {
	if f.Owner != "" {
		return f.Owner + "." + f.Name
	}
	return f.Name
}

// ID returns the function's stable identity.
func (f *Function) ID() identity.ID {
	return identity.Key(f.File, f.StartLine, f.QualifiedName())
}

// Class is one extracted class, struct, interface, or rule set.
type Class struct {
	Name       string   `json:"name"`
	Bases      []string `json:"bases,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Properties []string `json:"properties,omitempty"`
	File       string   `json:"file"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	Docstring  string   `json:"docstring,omitempty"`

	// Cross-reference fields, populated after graph construction.
	InstantiatedBy     []Reference `json:"instantiated_by,omitempty"`
	ImportedBy         []Reference `json:"imported_by,omitempty"`
	InstantiationCount int         `json:"instantiation_count,omitempty"`
}

// ID returns the class's stable identity.
func (c *Class) ID() identity.ID {
	return identity.Key(c.File, c.StartLine, c.Name)
}

// Module is one parsed source file.
type Module struct {
	File        string        `json:"file"`
	Language    lang.Language `json:"language"`
	Classes     []*Class      `json:"classes"`
	Functions   []*Function   `json:"functions"`
	Imports     []Import      `json:"imports"`
	Refs        []Reference   `json:"refs,omitempty"` // call/instantiation sites outside any function body
	Docstring   string        `json:"docstring,omitempty"`
	LineCount   int           `json:"line_count"`
	ContentHash string        `json:"content_hash,omitempty"`
}

// ID returns the module's stable identity. Modules start at line 1 by
// convention and are named by their file.
func (m *Module) ID() identity.ID {
	return identity.Key(m.File, 1, m.File)
}

// Warning records a recovered problem: a file that failed to parse, a
// dynamic construct that weakens edge precision, an unreadable path.
type Warning struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

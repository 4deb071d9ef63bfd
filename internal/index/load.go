package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
	"github.com/DeusData/codebase-atlas/internal/xref"
)

// ErrUnavailable marks every way an index can fail to load: missing file,
// unreadable file, malformed JSON, or a schema generation this build does
// not understand. Callers branch with IsUnavailable instead of crashing.
var ErrUnavailable = errors.New("index unavailable")

// IsUnavailable reports whether err means the index cannot be used.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Load reads an index document from path. Both the current generation and
// the legacy flat-array generation are accepted; the returned Index always
// has the current in-memory shape.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w: %w", path, ErrUnavailable, err)
	}

	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse index %s: %w: %w", path, ErrUnavailable, err)
	}

	var doc *Document
	switch {
	case probe.SchemaVersion <= 1:
		doc, err = decodeLegacy(data)
	case probe.SchemaVersion == CurrentSchemaVersion:
		doc = &Document{}
		err = json.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("index %s: %w: schema generation %d is newer than this build",
			path, ErrUnavailable, probe.SchemaVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("decode index %s: %w: %w", path, ErrUnavailable, err)
	}

	normalize(doc)
	return FromDocument(doc, path), nil
}

// Reload re-reads the backing file and swaps the index contents in place.
func (x *Index) Reload() error {
	if x.path == "" {
		return fmt.Errorf("reload: %w: index has no backing file", ErrUnavailable)
	}
	next, err := Load(x.path)
	if err != nil {
		return err
	}
	*x = *next
	return nil
}

// legacyDocument is the flat generation-1 layout: entities live in
// top-level arrays and point back at their module by file path.
type legacyDocument struct {
	SchemaVersion   int               `json:"schema_version"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Project         Project           `json:"project"`
	Stats           Stats             `json:"stats"`
	Modules         []*legacyModule   `json:"modules"`
	Classes         []*legacyClass    `json:"classes"`
	Functions       []*legacyFunction `json:"functions"`
	CrossReferences *xref.Graph       `json:"cross_references"`
	Warnings        []schema.Warning  `json:"warnings"`
}

type legacyModule struct {
	File        string             `json:"file"`
	Language    lang.Language      `json:"language"`
	LineCount   int                `json:"line_count"`
	ContentHash string             `json:"content_hash"`
	Docstring   string             `json:"docstring"`
	Imports     []schema.Import    `json:"imports"`
	Refs        []schema.Reference `json:"refs"`
}

type legacyClass struct {
	schema.Class
	Module string `json:"module"`
}

type legacyFunction struct {
	schema.Function
	Module string `json:"module"`
}

func decodeLegacy(data []byte) (*Document, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}

	byFile := make(map[string]*schema.Module, len(legacy.Modules))
	doc := &Document{
		SchemaVersion:   legacy.SchemaVersion,
		GeneratedAt:     legacy.GeneratedAt,
		Project:         legacy.Project,
		Stats:           legacy.Stats,
		CrossReferences: legacy.CrossReferences,
		Warnings:        legacy.Warnings,
	}
	for _, lm := range legacy.Modules {
		m := &schema.Module{
			File:        lm.File,
			Language:    lm.Language,
			LineCount:   lm.LineCount,
			ContentHash: lm.ContentHash,
			Docstring:   lm.Docstring,
			Imports:     lm.Imports,
			Refs:        lm.Refs,
		}
		byFile[m.File] = m
		doc.Modules = append(doc.Modules, m)
	}

	moduleFor := func(file string) *schema.Module {
		if m, ok := byFile[file]; ok {
			return m
		}
		// An entity whose module record is missing still gets indexed.
		m := &schema.Module{File: file}
		byFile[file] = m
		doc.Modules = append(doc.Modules, m)
		return m
	}

	for _, lc := range legacy.Classes {
		cls := lc.Class
		if cls.File == "" {
			cls.File = lc.Module
		}
		m := moduleFor(lc.Module)
		c := cls
		m.Classes = append(m.Classes, &c)
	}
	for _, lf := range legacy.Functions {
		fn := lf.Function
		if fn.File == "" {
			fn.File = lf.Module
		}
		m := moduleFor(lf.Module)
		f := fn
		m.Functions = append(m.Functions, &f)
	}
	return doc, nil
}

// normalize brings a decoded document of either generation to the canonical
// in-memory shape: sorted collections, class method lists rebuilt from the
// functions that own them, and embedded cross-reference fields re-derived
// from the graph.
func normalize(doc *Document) {
	if doc.CrossReferences == nil {
		doc.CrossReferences = xref.NewGraph()
	}
	if doc.Modules == nil {
		doc.Modules = []*schema.Module{}
	}
	result := &schema.ParseResult{Modules: doc.Modules, Warnings: doc.Warnings}
	result.Sort()
	doc.Warnings = result.Warnings

	for _, m := range doc.Modules {
		if m.Classes == nil {
			m.Classes = []*schema.Class{}
		}
		if m.Functions == nil {
			m.Functions = []*schema.Function{}
		}
		if m.Imports == nil {
			m.Imports = []schema.Import{}
		}
		byOwner := make(map[string][]string)
		for _, fn := range m.Functions {
			if fn.Owner != "" {
				byOwner[fn.Owner] = append(byOwner[fn.Owner], fn.Name)
			}
		}
		for _, cls := range m.Classes {
			if methods, ok := byOwner[cls.Name]; ok {
				cls.Methods = methods
			}
		}
	}

	doc.CrossReferences.Sort()
	xref.Embed(result, doc.CrossReferences)
}

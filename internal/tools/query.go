package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// moduleSummary is the module shape queries return. The full module record
// repeats every function and class body; lookups only need the headline.
type moduleSummary struct {
	File      string        `json:"file"`
	Language  lang.Language `json:"language"`
	LineCount int           `json:"line_count"`
	Classes   []string      `json:"classes"`
	Functions []string      `json:"functions"`
	Docstring string        `json:"docstring,omitempty"`
}

func summarizeModule(m *schema.Module) *moduleSummary {
	sum := &moduleSummary{
		File:      m.File,
		Language:  m.Language,
		LineCount: m.LineCount,
		Docstring: m.Docstring,
		Classes:   []string{},
		Functions: []string{},
	}
	for _, cls := range m.Classes {
		sum.Classes = append(sum.Classes, cls.Name)
	}
	for _, fn := range m.Functions {
		sum.Functions = append(sum.Functions, fn.QualifiedName())
	}
	return sum
}

// entityMatch tags one find_entity hit with its kind; exactly one of the
// payload fields is set.
type entityMatch struct {
	Kind     string           `json:"kind"`
	Function *schema.Function `json:"function,omitempty"`
	Class    *schema.Class    `json:"class,omitempty"`
	Module   *moduleSummary   `json:"module,omitempty"`
}

func validKind(kind string) bool {
	switch kind {
	case "", "function", "class", "module":
		return true
	}
	return false
}

func (s *Server) handleFindEntity(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	kind := getStringArg(args, "kind")
	if !validKind(kind) {
		return errResult("kind must be function, class, or module"), nil
	}

	matches := []entityMatch{}
	if kind == "" || kind == "function" {
		for _, fn := range x.FindFunction(name) {
			matches = append(matches, entityMatch{Kind: "function", Function: fn})
		}
	}
	if kind == "" || kind == "class" {
		for _, cls := range x.FindClass(name) {
			matches = append(matches, entityMatch{Kind: "class", Class: cls})
		}
	}
	if kind == "" || kind == "module" {
		for _, m := range x.FindModule(name) {
			matches = append(matches, entityMatch{Kind: "module", Module: summarizeModule(m)})
		}
	}

	return jsonResult(map[string]any{
		"name":    name,
		"total":   len(matches),
		"matches": matches,
	}), nil
}

func (s *Server) handleGetCallers(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "function")
	if name == "" {
		return errResult("function is required"), nil
	}

	refs := x.Callers(name)
	if refs == nil {
		refs = []schema.Reference{}
	}
	return jsonResult(map[string]any{
		"function": name,
		"total":    len(refs),
		"callers":  refs,
		"names":    index.CompactNames(refs),
	}), nil
}

func (s *Server) handleGetCallees(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "function")
	if name == "" {
		return errResult("function is required"), nil
	}

	refs := x.Callees(name)
	if refs == nil {
		refs = []schema.Reference{}
	}
	return jsonResult(map[string]any{
		"function": name,
		"total":    len(refs),
		"callees":  refs,
		"names":    index.CompactNames(refs),
	}), nil
}

func (s *Server) handleSearchEntities(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	pattern := getStringArg(args, "pattern")
	if pattern == "" {
		return errResult("pattern is required"), nil
	}
	kind := getStringArg(args, "kind")
	if !validKind(kind) {
		return errResult("kind must be function, class, or module"), nil
	}
	limit := getIntArg(args, "limit", 50)
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	hits, err := x.SearchEntities(pattern, index.SearchOptions{
		Regex: getBoolArg(args, "regex"),
		Kind:  kind,
		Limit: limit,
	})
	if err != nil {
		return errResult(err.Error()), nil
	}
	if hits == nil {
		hits = []index.SearchHit{}
	}
	return jsonResult(map[string]any{
		"pattern": pattern,
		"total":   len(hits),
		"limit":   limit,
		"hits":    hits,
	}), nil
}

func (s *Server) handleProjectStats(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"project":        x.Project(),
		"path":           x.Path(),
		"schema_version": x.SchemaVersion(),
		"generated_at":   x.GeneratedAt(),
		"stats":          x.ProjectStats(),
		"warnings":       len(x.Warnings()),
	}), nil
}

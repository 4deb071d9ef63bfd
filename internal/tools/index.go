package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/codebase-atlas/internal/config"
	"github.com/DeusData/codebase-atlas/internal/index"
)

func (s *Server) handleIndexProject(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	root := getStringArg(args, "root")
	if root == "" {
		root = s.root
	}
	if root == "" {
		return errResult("root is required"), nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errResult(fmt.Sprintf("invalid path: %v", err)), nil
	}

	cfg := config.Load(absRoot)
	doc, err := index.Build(ctx, index.BuildOptions{
		Root:            absRoot,
		ProjectName:     cfg.EffectiveName(""),
		Languages:       cfg.EffectiveLanguages(),
		ExcludePatterns: cfg.Index.ExcludePatterns,
	})
	if err != nil {
		return errResult(fmt.Sprintf("indexing failed: %v", err)), nil
	}

	out := getStringArg(args, "output")
	if out == "" {
		out = cfg.EffectiveOutput()
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(absRoot, out)
	}
	if err := index.Write(doc, out); err != nil {
		return errResult(fmt.Sprintf("write index: %v", err)), nil
	}

	s.SetIndex(index.FromDocument(doc, out))

	return jsonResult(map[string]any{
		"project":      doc.Project.Name,
		"path":         out,
		"modules":      doc.Stats.TotalModules,
		"functions":    doc.Stats.TotalFunctions,
		"classes":      doc.Stats.TotalClasses,
		"edges":        doc.CrossReferences.EdgeCount(),
		"warnings":     len(doc.Warnings),
		"generated_at": doc.GeneratedAt,
	}), nil
}

func (s *Server) handleReloadIndex(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return errResult("no index loaded: call index_project first"), nil
	}
	if err := s.index.Reload(); err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"path":         s.index.Path(),
		"modules":      len(s.index.Modules()),
		"generated_at": s.index.GeneratedAt(),
	}), nil
}

package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/codebase-atlas/internal/workflows"
)

func (s *Server) handleCallGraph(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	direction := workflows.Direction(getStringArg(args, "direction"))
	switch direction {
	case "", workflows.DirectionCallers, workflows.DirectionCallees, workflows.DirectionBoth:
	default:
		return errResult("direction must be callers, callees, or both"), nil
	}

	res := workflows.CallGraph(x, workflows.CallGraphOptions{
		Function:  name,
		Direction: direction,
		MaxDepth:  getIntArg(args, "depth", 0),
	})
	return jsonResult(res), nil
}

func (s *Server) handleImpactAnalysis(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	// depth 0 is meaningful (skip indirect dependents), so the absent
	// case is signaled with -1 and resolved to the default downstream.
	res := workflows.Impact(x, workflows.ImpactOptions{
		Name:  name,
		Depth: getIntArg(args, "depth", -1),
	})
	return jsonResult(res), nil
}

func (s *Server) handleRefactorCandidates(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	res := workflows.RefactorCandidates(x, workflows.RefactorOptions{
		MinComplexity: getIntArg(args, "min_complexity", 0),
	})
	return jsonResult(res), nil
}

func (s *Server) handleTraceEntryPoint(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	entry := getStringArg(args, "entry")
	if entry == "" {
		return errResult("entry is required"), nil
	}

	res := workflows.TraceEntry(x, workflows.TraceEntryOptions{
		Entry:    entry,
		MaxDepth: getIntArg(args, "depth", 0),
	})
	return jsonResult(res), nil
}

func (s *Server) handleTraceDataLifecycle(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := s.currentIndex()
	if err != nil {
		return errResult(err.Error()), nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	class := getStringArg(args, "class")
	if class == "" {
		return errResult("class is required"), nil
	}

	res := workflows.TraceData(x, workflows.TraceDataOptions{Class: class})
	return jsonResult(res), nil
}

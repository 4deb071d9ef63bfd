// Package tools exposes the atlas operations over MCP: index building,
// point queries, and the graph workflows. Every tool returns JSON content;
// failures come back as error results, never as protocol errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/codebase-atlas/internal/index"
)

// Server wraps the MCP server with tool handlers over a loaded index.
type Server struct {
	mcp  *mcp.Server
	root string

	mu    sync.RWMutex
	index *index.Index

	updateNotice atomic.Value // string
	noticeShown  atomic.Bool
}

// NewServer creates an MCP server with all tools registered. root is the
// default project root for index_project; idx may be nil until the first
// index_project call.
func NewServer(root string, idx *index.Index) *Server {
	srv := &Server{
		root:  root,
		index: idx,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "codebase-atlas",
				Version: Version,
			},
			nil,
		),
	}
	srv.registerTools()
	go srv.checkForUpdate()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// SetIndex swaps the index every subsequent tool call sees.
func (s *Server) SetIndex(x *index.Index) {
	s.mu.Lock()
	s.index = x
	s.mu.Unlock()
}

// currentIndex returns the loaded index or an error explaining how to get
// one.
func (s *Server) currentIndex() (*index.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, fmt.Errorf("no index loaded: call index_project first")
	}
	return s.index, nil
}

// addTool registers a tool with the update notice attached to its results.
func (s *Server) addTool(t *mcp.Tool, h func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	s.mcp.AddTool(t, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := h(ctx, req)
		if res != nil {
			s.addUpdateNotice(res)
		}
		return res, err
	})
}

func (s *Server) registerTools() {
	// 1. index_project
	s.addTool(&mcp.Tool{
		Name:        "index_project",
		Description: "Parse a project tree and build the cross-reference index. Extracts modules/classes/functions per language, resolves call, instantiation, and import edges, and writes the index document to disk. Subsequent queries run against the new index.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Project root to index. Defaults to the root the server was started with."
				},
				"output": {
					"type": "string",
					"description": "Where to write the index document. Defaults to the configured output or atlas-index.json under the root."
				}
			}
		}`),
	}, s.handleIndexProject)

	// 2. find_entity
	s.addTool(&mcp.Tool{
		Name:        "find_entity",
		Description: "Look up functions, classes, or modules by name. Functions match on bare or qualified name (e.g. 'save' or 'User.save'), modules on exact path or path suffix. Returns full structural records including complexity, parameters, and cross-reference counts.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"description": "Entity name to look up"
				},
				"kind": {
					"type": "string",
					"description": "Restrict to one entity kind",
					"enum": ["function", "class", "module"]
				}
			},
			"required": ["name"]
		}`),
	}, s.handleFindEntity)

	// 3. get_callers
	s.addTool(&mcp.Tool{
		Name:        "get_callers",
		Description: "List every recorded call site targeting a function: who calls it, from which file and line. Unknown functions return an empty list.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"function": {
					"type": "string",
					"description": "Function name (bare or qualified)"
				}
			},
			"required": ["function"]
		}`),
	}, s.handleGetCallers)

	// 4. get_callees
	s.addTool(&mcp.Tool{
		Name:        "get_callees",
		Description: "List every call site inside a function: what it calls, including targets that could not be resolved to a project entity. Unknown functions return an empty list.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"function": {
					"type": "string",
					"description": "Function name (bare or qualified)"
				}
			},
			"required": ["function"]
		}`),
	}, s.handleGetCallees)

	// 5. search_entities
	s.addTool(&mcp.Tool{
		Name:        "search_entities",
		Description: "Search indexed modules, classes, and functions by name. Case-insensitive substring match by default, full regular expressions with regex=true. Use for exploring an unfamiliar codebase.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"pattern": {
					"type": "string",
					"description": "Substring or regex to match against entity names"
				},
				"kind": {
					"type": "string",
					"description": "Restrict to one entity kind",
					"enum": ["module", "class", "function"]
				},
				"regex": {
					"type": "boolean",
					"description": "Treat pattern as a regular expression (default: false)"
				},
				"limit": {
					"type": "integer",
					"description": "Max results (default 50, max 200)"
				}
			},
			"required": ["pattern"]
		}`),
	}, s.handleSearchEntities)

	// 6. project_stats
	s.addTool(&mcp.Tool{
		Name:        "project_stats",
		Description: "Return aggregate statistics for the indexed project: module/class/function/line totals, per-language file and entity counts, and complexity distribution (max, average, most complex function).",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleProjectStats)

	// 7. call_graph
	s.addTool(&mcp.Tool{
		Name:        "call_graph",
		Description: "Walk the call graph around a function breadth-first. Returns reached nodes with their depth and role plus the call edges between them. Use for understanding call chains before changing shared code.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"function": {
					"type": "string",
					"description": "Function to start from"
				},
				"direction": {
					"type": "string",
					"description": "Traversal direction (default: both)",
					"enum": ["callers", "callees", "both"]
				},
				"depth": {
					"type": "integer",
					"description": "Maximum traversal depth (1-10, default 3)"
				}
			},
			"required": ["function"]
		}`),
	}, s.handleCallGraph)

	// 8. impact_analysis
	s.addTool(&mcp.Tool{
		Name:        "impact_analysis",
		Description: "Estimate the blast radius of changing a function or class: direct and indirect dependents, architectural layers touched, test coverage of the direct dependents, and a low/medium/high risk score.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"description": "Function or class name"
				},
				"depth": {
					"type": "integer",
					"description": "Indirect dependent depth (0 disables indirect collection, default 2)"
				}
			},
			"required": ["name"]
		}`),
	}, s.handleImpactAnalysis)

	// 9. refactor_candidates
	s.addTool(&mcp.Tool{
		Name:        "refactor_candidates",
		Description: "Rank functions worth restructuring. Priority multiplies cyclomatic complexity by direct dependents; results flag quick wins (complex, lightly used) and major refactors (complex, load-bearing).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"min_complexity": {
					"type": "integer",
					"description": "Complexity floor for candidates (default 10)"
				}
			}
		}`),
	}, s.handleRefactorCandidates)

	// 10. trace_entry_point
	s.addTool(&mcp.Tool{
		Name:        "trace_entry_point",
		Description: "Follow the execution flow down from an entry point. Each reached function is annotated with its architectural layer (presentation, business-logic, data, utility, core) and hot-spot status by complexity and fan-out.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"entry": {
					"type": "string",
					"description": "Entry point function name"
				},
				"depth": {
					"type": "integer",
					"description": "Maximum trace depth (1-10, default 5)"
				}
			},
			"required": ["entry"]
		}`),
	}, s.handleTraceEntryPoint)

	// 11. trace_data_lifecycle
	s.addTool(&mcp.Tool{
		Name:        "trace_data_lifecycle",
		Description: "Map how a data class is used across the codebase: its methods, construction sites, and name-matched handlers, bucketed into create/read/update/delete and grouped by architectural layer.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"class": {
					"type": "string",
					"description": "Class name to trace"
				}
			},
			"required": ["class"]
		}`),
	}, s.handleTraceDataLifecycle)

	// 12. reload_index
	s.addTool(&mcp.Tool{
		Name:        "reload_index",
		Description: "Re-read the index document from disk, picking up an index rebuilt by another process (e.g. the watch loop or a CI job).",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleReloadIndex)
}

// jsonResult marshals data to JSON and returns it as a tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	f, ok := v.(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// getBoolArg extracts a boolean argument from parsed args.
func getBoolArg(args map[string]any, key string) bool {
	v, ok := args[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

package workflows

import (
	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// Direction selects which way a call-graph traversal walks.
type Direction string

const (
	DirectionCallers Direction = "callers"
	DirectionCallees Direction = "callees"
	DirectionBoth    Direction = "both"
)

const (
	defaultCallGraphDepth = 3
	maxTraversalDepth     = 10
)

// clampDepth bounds a requested depth to [1, maxTraversalDepth], using
// fallback when the request is unset or nonsensical.
func clampDepth(depth, fallback int) int {
	if depth <= 0 {
		return fallback
	}
	if depth > maxTraversalDepth {
		return maxTraversalDepth
	}
	return depth
}

// CallGraphOptions configures CallGraph.
type CallGraphOptions struct {
	Function  string
	Direction Direction // defaults to both
	MaxDepth  int       // defaults to 3, capped at 10
}

// CallGraphNode is one function or module reached by the traversal, with
// its shortest distance from the root.
type CallGraphNode struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Line  int    `json:"line"`
	Depth int    `json:"depth"`
	Role  string `json:"role"` // root, caller, or callee
}

// CallGraphEdge is one observed call site between two named entities.
type CallGraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// CallGraphResult is the bounded neighborhood around one function.
type CallGraphResult struct {
	Found     bool            `json:"found"`
	Function  string          `json:"function"`
	Direction Direction       `json:"direction"`
	MaxDepth  int             `json:"max_depth"`
	Nodes     []CallGraphNode `json:"nodes,omitempty"`
	Edges     []CallGraphEdge `json:"edges,omitempty"`
	Truncated bool            `json:"truncated,omitempty"`
}

// CallGraph walks the call edges around opts.Function breadth-first, one
// pass per requested direction. Each pass keeps its own visited set keyed
// by entity identity, so cycles terminate and every node carries its
// shortest depth. Truncated is set when the depth cap hid further edges.
func CallGraph(x *index.Index, opts CallGraphOptions) *CallGraphResult {
	direction := opts.Direction
	if direction == "" {
		direction = DirectionBoth
	}
	res := &CallGraphResult{
		Function:  opts.Function,
		Direction: direction,
		MaxDepth:  clampDepth(opts.MaxDepth, defaultCallGraphDepth),
	}

	roots := functionTargets(x, opts.Function)
	if len(roots) == 0 {
		return res
	}
	res.Found = true
	for _, root := range roots {
		res.Nodes = append(res.Nodes, CallGraphNode{
			Name: root.name, File: root.file, Line: root.line, Role: "root",
		})
	}

	edgeSeen := make(map[CallGraphEdge]bool)
	if direction == DirectionCallers || direction == DirectionBoth {
		walkCallGraph(x, res, roots, DirectionCallers, edgeSeen)
	}
	if direction == DirectionCallees || direction == DirectionBoth {
		walkCallGraph(x, res, roots, DirectionCallees, edgeSeen)
	}
	return res
}

type callGraphItem struct {
	node  nodeRef
	depth int
}

func walkCallGraph(x *index.Index, res *CallGraphResult, roots []nodeRef, direction Direction, edgeSeen map[CallGraphEdge]bool) {
	g := x.Graph()
	visited := make(map[identity.ID]bool, len(roots))
	var queue []callGraphItem
	for _, root := range roots {
		visited[root.id] = true
		queue = append(queue, callGraphItem{root, 0})
	}

	role := "callee"
	if direction == DirectionCallers {
		role = "caller"
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		refs := g.CalleesOf(item.node.id)
		if direction == DirectionCallers {
			refs = g.CallersOf(item.node.id)
		}
		if item.depth >= res.MaxDepth {
			if len(refs) > 0 {
				res.Truncated = true
			}
			continue
		}

		for _, ref := range refs {
			for _, target := range refTargets(x, ref.Name) {
				edge := CallGraphEdge{From: item.node.name, To: target.name, File: ref.File, Line: ref.Line}
				if direction == DirectionCallers {
					edge.From, edge.To = target.name, item.node.name
				}
				if !edgeSeen[edge] {
					edgeSeen[edge] = true
					res.Edges = append(res.Edges, edge)
				}
				if visited[target.id] {
					continue
				}
				visited[target.id] = true
				res.Nodes = append(res.Nodes, CallGraphNode{
					Name: target.name, File: target.file, Line: target.line,
					Depth: item.depth + 1, Role: role,
				})
				queue = append(queue, callGraphItem{target, item.depth + 1})
			}
		}
	}
}

// nodeRef is a resolved traversal participant: a function, or a module for
// module-level call sites.
type nodeRef struct {
	id   identity.ID
	name string
	file string
	line int
	fn   *schema.Function
}

// functionTargets resolves a name to function nodes only.
func functionTargets(x *index.Index, name string) []nodeRef {
	var out []nodeRef
	for _, fn := range x.FindFunction(name) {
		out = append(out, nodeRef{id: fn.ID(), name: fn.QualifiedName(), file: fn.File, line: fn.StartLine, fn: fn})
	}
	return out
}

// refTargets resolves a reference name to function nodes, falling back to
// module nodes for module-level sites.
func refTargets(x *index.Index, name string) []nodeRef {
	out := functionTargets(x, name)
	if len(out) > 0 {
		return out
	}
	for _, m := range x.FindModule(name) {
		out = append(out, nodeRef{id: m.ID(), name: m.File, file: m.File, line: 1})
	}
	return out
}

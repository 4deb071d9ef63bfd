package workflows

import (
	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

const defaultTraceDepth = 5

// TraceEntryOptions configures TraceEntry.
type TraceEntryOptions struct {
	Entry    string
	MaxDepth int // defaults to 5, capped at 10
}

// TraceNode is one function reached from the entry point, annotated with
// the layer it lives in and whether it is a hot spot.
type TraceNode struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Depth      int    `json:"depth"`
	Layer      string `json:"layer"`
	Complexity int    `json:"complexity"`
	FanOut     int    `json:"fan_out"`
	HotSpot    string `json:"hot_spot,omitempty"`
}

// TraceEntryResult is the execution flow reachable from one entry point.
type TraceEntryResult struct {
	Found     bool                `json:"found"`
	Entry     string              `json:"entry"`
	MaxDepth  int                 `json:"max_depth"`
	Nodes     []TraceNode         `json:"nodes,omitempty"`
	Layers    map[string][]string `json:"layers,omitempty"`
	HotSpots  []TraceNode         `json:"hot_spots,omitempty"`
	Truncated bool                `json:"truncated,omitempty"`
}

// TraceEntry follows resolved call edges down from an entry point,
// annotating every function with its architectural layer and flagging hot
// spots by complexity and fan-out.
func TraceEntry(x *index.Index, opts TraceEntryOptions) *TraceEntryResult {
	res := &TraceEntryResult{
		Entry:    opts.Entry,
		MaxDepth: clampDepth(opts.MaxDepth, defaultTraceDepth),
	}
	roots := functionTargets(x, opts.Entry)
	if len(roots) == 0 {
		return res
	}
	res.Found = true
	res.Layers = make(map[string][]string)

	g := x.Graph()
	visited := make(map[identity.ID]bool, len(roots))
	var queue []callGraphItem
	for _, root := range roots {
		visited[root.id] = true
		res.addTraceNode(root, 0)
		queue = append(queue, callGraphItem{root, 0})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		refs := g.CalleesOf(item.node.id)
		if item.depth >= res.MaxDepth {
			if len(refs) > 0 {
				res.Truncated = true
			}
			continue
		}
		for _, ref := range refs {
			for _, target := range functionTargets(x, ref.Name) {
				if visited[target.id] {
					continue
				}
				visited[target.id] = true
				res.addTraceNode(target, item.depth+1)
				queue = append(queue, callGraphItem{target, item.depth + 1})
			}
		}
	}
	return res
}

func (res *TraceEntryResult) addTraceNode(node nodeRef, depth int) {
	tn := TraceNode{
		Name:  node.name,
		File:  node.file,
		Line:  node.line,
		Depth: depth,
		Layer: LayerForFile(node.file),
	}
	if node.fn != nil {
		tn.Complexity = node.fn.Complexity
		tn.FanOut = fanOut(node.fn)
		tn.HotSpot = HotSpot(tn.Complexity, tn.FanOut)
	}
	res.Nodes = append(res.Nodes, tn)
	res.Layers[tn.Layer] = append(res.Layers[tn.Layer], tn.Name)
	if tn.HotSpot != "" {
		res.HotSpots = append(res.HotSpots, tn)
	}
}

// fanOut counts the distinct names a function calls.
func fanOut(fn *schema.Function) int {
	seen := make(map[string]bool, len(fn.Calls))
	for _, ref := range fn.Calls {
		seen[ref.Name] = true
	}
	return len(seen)
}

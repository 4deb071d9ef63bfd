package workflows

import (
	"fmt"
	"sort"
	"strings"
)

// RenderText formats a call graph for terminal output.
func (r *CallGraphResult) RenderText() string {
	var b strings.Builder
	if !r.Found {
		fmt.Fprintf(&b, "function %q is not in the index\n", r.Function)
		return b.String()
	}
	fmt.Fprintf(&b, "Call graph for %s (direction %s, depth %d)\n", r.Function, r.Direction, r.MaxDepth)
	for _, n := range r.Nodes {
		fmt.Fprintf(&b, "  [%s] %s  %s:%d", n.Role, n.Name, n.File, n.Line)
		if n.Depth > 0 {
			fmt.Fprintf(&b, "  depth %d", n.Depth)
		}
		b.WriteByte('\n')
	}
	if len(r.Edges) > 0 {
		b.WriteString("edges:\n")
		for _, e := range r.Edges {
			fmt.Fprintf(&b, "  %s -> %s  %s:%d\n", e.From, e.To, e.File, e.Line)
		}
	}
	if r.Truncated {
		fmt.Fprintf(&b, "(truncated at depth %d)\n", r.MaxDepth)
	}
	return b.String()
}

// RenderText formats an impact estimate for terminal output.
func (r *ImpactResult) RenderText() string {
	var b strings.Builder
	if !r.Found {
		fmt.Fprintf(&b, "%q is not in the index\n", r.Name)
		return b.String()
	}
	fmt.Fprintf(&b, "Impact of changing %s (%s, %s)\n", r.Name, r.Kind, r.File)
	fmt.Fprintf(&b, "  direct dependents: %d\n", len(r.Direct))
	for _, dep := range r.Direct {
		fmt.Fprintf(&b, "    - %s  %s:%d\n", dep.Name, dep.File, dep.Line)
	}
	fmt.Fprintf(&b, "  indirect dependents: %d\n", len(r.Indirect))
	if len(r.Layers) > 0 {
		fmt.Fprintf(&b, "  layers touched: %s\n", strings.Join(r.Layers, ", "))
	}
	fmt.Fprintf(&b, "  test coverage: %.1f%% of direct dependents\n", r.TestCoverage)
	fmt.Fprintf(&b, "  risk: %.2f (%s)\n", r.RiskScore, r.RiskLevel)
	return b.String()
}

// RenderText formats the refactor ranking for terminal output.
func (r *RefactorResult) RenderText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Refactor candidates (complexity >= %d)\n", r.MinComplexity)
	if len(r.Candidates) == 0 {
		b.WriteString("  none found\n")
		return b.String()
	}
	for i, c := range r.Candidates {
		fmt.Fprintf(&b, "  %d. %s  %s:%d  complexity %d  dependents %d  priority %d  [%s]",
			i+1, c.Function, c.File, c.Line, c.Complexity, c.Dependents, c.Priority, c.Risk)
		switch {
		case c.MajorRefactor:
			b.WriteString("  major refactor")
		case c.QuickWin:
			b.WriteString("  quick win")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderText formats an entry-point trace for terminal output.
func (r *TraceEntryResult) RenderText() string {
	var b strings.Builder
	if !r.Found {
		fmt.Fprintf(&b, "entry point %q is not in the index\n", r.Entry)
		return b.String()
	}
	fmt.Fprintf(&b, "Trace from %s (depth %d)\n", r.Entry, r.MaxDepth)
	for _, n := range r.Nodes {
		fmt.Fprintf(&b, "  depth %d  [%s] %s  %s:%d", n.Depth, n.Layer, n.Name, n.File, n.Line)
		if n.HotSpot != "" {
			fmt.Fprintf(&b, "  !%s", n.HotSpot)
		}
		b.WriteByte('\n')
	}
	if len(r.HotSpots) > 0 {
		b.WriteString("hot spots:\n")
		for _, n := range r.HotSpots {
			fmt.Fprintf(&b, "  %s  complexity %d, fan-out %d (%s)\n", n.Name, n.Complexity, n.FanOut, n.HotSpot)
		}
	}
	if len(r.Layers) > 0 {
		b.WriteString("layers:\n")
		layers := make([]string, 0, len(r.Layers))
		for layer := range r.Layers {
			layers = append(layers, layer)
		}
		sort.Strings(layers)
		for _, layer := range layers {
			fmt.Fprintf(&b, "  %s: %s\n", layer, strings.Join(r.Layers[layer], ", "))
		}
	}
	if r.Truncated {
		fmt.Fprintf(&b, "(truncated at depth %d)\n", r.MaxDepth)
	}
	return b.String()
}

// RenderText formats a data lifecycle trace for terminal output.
func (r *TraceDataResult) RenderText() string {
	var b strings.Builder
	if !r.Found {
		fmt.Fprintf(&b, "class %q is not in the index\n", r.Class)
		return b.String()
	}
	fmt.Fprintf(&b, "Data lifecycle for %s (%s)\n", r.Class, r.File)
	for _, op := range []string{OpCreate, OpRead, OpUpdate, OpDelete, OpOther} {
		ops := r.Lifecycle[op]
		if len(ops) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s (%d):\n", op, len(ops))
		for _, o := range ops {
			fmt.Fprintf(&b, "    - %s  %s:%d  [%s] via %s\n", o.Function, o.File, o.Line, o.Layer, o.Via)
		}
	}
	if len(r.ByLayer) > 0 {
		b.WriteString("by layer:\n")
		layers := make([]string, 0, len(r.ByLayer))
		for layer := range r.ByLayer {
			layers = append(layers, layer)
		}
		sort.Strings(layers)
		for _, layer := range layers {
			fmt.Fprintf(&b, "  %s: %d operations\n", layer, len(r.ByLayer[layer]))
		}
	}
	return b.String()
}

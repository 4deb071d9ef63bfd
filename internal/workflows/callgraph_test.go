package workflows

import (
	"strings"
	"testing"
)

func nodeNames(nodes []CallGraphNode) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func TestCallGraphBothDirections(t *testing.T) {
	x := analysisIndex()
	res := CallGraph(x, CallGraphOptions{Function: "process"})

	if !res.Found {
		t.Fatal("expected process to be found")
	}
	if res.Direction != DirectionBoth {
		t.Fatalf("Direction = %q, want both", res.Direction)
	}
	if res.MaxDepth != 3 {
		t.Fatalf("MaxDepth = %d, want default 3", res.MaxDepth)
	}

	want := []string{"process", "main", "test_process", "validate", "load_user", "render", "format_amount", "audit"}
	got := nodeNames(res.Nodes)
	if len(got) != len(want) {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("nodes = %v, want %v", got, want)
		}
	}

	if res.Nodes[0].Role != "root" || res.Nodes[0].Depth != 0 {
		t.Errorf("root node = %+v", res.Nodes[0])
	}
	if res.Nodes[1].Role != "caller" || res.Nodes[1].Depth != 1 {
		t.Errorf("caller node = %+v", res.Nodes[1])
	}
	if res.Nodes[3].Role != "callee" || res.Nodes[3].Depth != 1 {
		t.Errorf("callee node = %+v", res.Nodes[3])
	}

	// Five calls out of process, two in, plus render reusing format_amount.
	if len(res.Edges) != 8 {
		t.Fatalf("edges = %d, want 8: %+v", len(res.Edges), res.Edges)
	}
	first := CallGraphEdge{From: "main", To: "process", File: "cmd/main.py", Line: 2}
	if res.Edges[0] != first {
		t.Errorf("edge[0] = %+v, want %+v", res.Edges[0], first)
	}
	last := CallGraphEdge{From: "render", To: "format_amount", File: "app/views/render.py", Line: 5}
	if res.Edges[len(res.Edges)-1] != last {
		t.Errorf("last edge = %+v, want %+v", res.Edges[len(res.Edges)-1], last)
	}
	if res.Truncated {
		t.Error("graph fits inside depth 3, should not be truncated")
	}
}

func TestCallGraphCycleTerminates(t *testing.T) {
	x := analysisIndex()
	res := CallGraph(x, CallGraphOptions{Function: "a", Direction: DirectionCallees, MaxDepth: 5})

	got := nodeNames(res.Nodes)
	want := []string{"a", "b", "c"}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	if len(res.Edges) != 3 {
		t.Fatalf("edges = %d, want 3 including the closing c -> a", len(res.Edges))
	}
	back := CallGraphEdge{From: "c", To: "a", File: "app/jobs/cycle.py", Line: 8}
	if res.Edges[2] != back {
		t.Errorf("closing edge = %+v, want %+v", res.Edges[2], back)
	}
	if res.Truncated {
		t.Error("cycle revisits only known nodes, should not be truncated")
	}
}

func TestCallGraphTruncation(t *testing.T) {
	x := analysisIndex()
	res := CallGraph(x, CallGraphOptions{Function: "main", Direction: DirectionCallees, MaxDepth: 1})

	if !res.Truncated {
		t.Fatal("process still has callees at the cap, want Truncated")
	}
	got := nodeNames(res.Nodes)
	if len(got) != 2 || got[0] != "main" || got[1] != "process" {
		t.Fatalf("nodes = %v, want [main process]", got)
	}
}

func TestCallGraphDepthClamp(t *testing.T) {
	x := analysisIndex()
	if res := CallGraph(x, CallGraphOptions{Function: "main", MaxDepth: 99}); res.MaxDepth != 10 {
		t.Errorf("MaxDepth 99 clamped to %d, want 10", res.MaxDepth)
	}
	if res := CallGraph(x, CallGraphOptions{Function: "main", MaxDepth: -2}); res.MaxDepth != 3 {
		t.Errorf("MaxDepth -2 defaulted to %d, want 3", res.MaxDepth)
	}
}

func TestCallGraphUnknownFunction(t *testing.T) {
	x := analysisIndex()
	res := CallGraph(x, CallGraphOptions{Function: "nope"})
	if res.Found {
		t.Fatal("unknown function must come back Found=false")
	}
	if len(res.Nodes) != 0 || len(res.Edges) != 0 {
		t.Fatalf("unknown function produced nodes %v edges %v", res.Nodes, res.Edges)
	}
	if !strings.Contains(res.RenderText(), `function "nope" is not in the index`) {
		t.Errorf("RenderText = %q", res.RenderText())
	}
}

func TestCallGraphRenderText(t *testing.T) {
	x := analysisIndex()
	out := CallGraph(x, CallGraphOptions{Function: "process", Direction: DirectionCallees, MaxDepth: 1}).RenderText()

	for _, want := range []string{
		"Call graph for process (direction callees, depth 1)",
		"[root] process  app/services/order.py:5",
		"[callee] validate  app/services/order.py:20  depth 1",
		"process -> audit  app/services/order.py:10",
		"(truncated at depth 1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

package workflows

import (
	"strings"
	"testing"

	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

func TestRefactorCandidatesRanking(t *testing.T) {
	x := analysisIndex()
	res := RefactorCandidates(x, RefactorOptions{})

	if res.MinComplexity != 10 {
		t.Fatalf("MinComplexity = %d, want default 10", res.MinComplexity)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("candidates = %+v, want format_amount, process, audit", res.Candidates)
	}

	top := res.Candidates[0]
	if top.Function != "format_amount" || top.Complexity != 18 || top.Dependents != 2 || top.Priority != 36 {
		t.Errorf("top candidate = %+v", top)
	}
	if !top.QuickWin {
		t.Error("format_amount is complex with few dependents, want QuickWin")
	}
	if res.Candidates[1].Function != "process" || res.Candidates[1].Priority != 24 {
		t.Errorf("second candidate = %+v", res.Candidates[1])
	}
	if res.Candidates[2].Function != "audit" || res.Candidates[2].Priority != 22 {
		t.Errorf("third candidate = %+v", res.Candidates[2])
	}
	if res.Candidates[1].QuickWin {
		t.Error("process is only complexity 12, not a quick win")
	}
	for _, c := range res.Candidates {
		if c.MajorRefactor {
			t.Errorf("%s flagged major refactor with %d dependents", c.Function, c.Dependents)
		}
		if c.Risk != RiskLow {
			t.Errorf("%s risk = %q, want low at priority %d", c.Function, c.Risk, c.Priority)
		}
	}
}

func TestRefactorMinComplexityOption(t *testing.T) {
	x := analysisIndex()
	res := RefactorCandidates(x, RefactorOptions{MinComplexity: 20})
	if len(res.Candidates) != 1 || res.Candidates[0].Function != "audit" {
		t.Fatalf("candidates = %+v, want only audit", res.Candidates)
	}
}

// priorityFixture builds an index straight from a document so dependent
// counts can be pinned exactly on the band boundaries.
func priorityFixture() *index.Index {
	doc := &index.Document{
		SchemaVersion: index.CurrentSchemaVersion,
		Modules: []*schema.Module{{
			File: "app/core.py", Language: lang.Python,
			Functions: []*schema.Function{
				{Name: "big", File: "app/core.py", StartLine: 1, EndLine: 40, Complexity: 25, CallCount: 12},
				{Name: "mid", File: "app/core.py", StartLine: 50, EndLine: 80, Complexity: 20, CallCount: 5},
				{Name: "low_fn", File: "app/core.py", StartLine: 90, EndLine: 99, Complexity: 10, CallCount: 4},
				{Name: "tiny", File: "app/core.py", StartLine: 100, EndLine: 101, Complexity: 9, CallCount: 30},
			},
		}},
	}
	return index.FromDocument(doc, "")
}

func TestRefactorPriorityBands(t *testing.T) {
	res := RefactorCandidates(priorityFixture(), RefactorOptions{})

	if len(res.Candidates) != 3 {
		t.Fatalf("candidates = %+v, want tiny filtered out", res.Candidates)
	}
	tests := []struct {
		function string
		priority int
		risk     string
		major    bool
	}{
		{"big", 300, RiskHigh, true},
		{"mid", 100, RiskMedium, false},
		{"low_fn", 40, RiskLow, false},
	}
	for i, tt := range tests {
		c := res.Candidates[i]
		if c.Function != tt.function || c.Priority != tt.priority || c.Risk != tt.risk || c.MajorRefactor != tt.major {
			t.Errorf("candidate[%d] = %+v, want %+v", i, c, tt)
		}
	}
}

func TestRefactorRenderText(t *testing.T) {
	out := RefactorCandidates(priorityFixture(), RefactorOptions{}).RenderText()
	for _, want := range []string{
		"Refactor candidates (complexity >= 10)",
		"1. big  app/core.py:1  complexity 25  dependents 12  priority 300  [high]  major refactor",
		"2. mid  app/core.py:50  complexity 20  dependents 5  priority 100  [medium]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	empty := RefactorCandidates(priorityFixture(), RefactorOptions{MinComplexity: 99}).RenderText()
	if !strings.Contains(empty, "none found") {
		t.Errorf("empty output = %q", empty)
	}
}

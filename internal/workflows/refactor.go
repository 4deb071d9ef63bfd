package workflows

import (
	"sort"

	"github.com/DeusData/codebase-atlas/internal/index"
)

const defaultMinComplexity = 10

// RefactorOptions configures RefactorCandidates.
type RefactorOptions struct {
	MinComplexity int // defaults to 10
}

// RefactorCandidate is one function worth restructuring, scored by how
// tangled it is and how many places depend on it.
type RefactorCandidate struct {
	Function      string `json:"function"`
	File          string `json:"file"`
	Line          int    `json:"line"`
	Complexity    int    `json:"complexity"`
	Dependents    int    `json:"dependents"`
	Priority      int    `json:"priority"`
	Risk          string `json:"risk"`
	QuickWin      bool   `json:"quick_win,omitempty"`
	MajorRefactor bool   `json:"major_refactor,omitempty"`
}

// RefactorResult ranks refactoring candidates by priority.
type RefactorResult struct {
	MinComplexity int                 `json:"min_complexity"`
	Candidates    []RefactorCandidate `json:"candidates,omitempty"`
}

// RefactorCandidates ranks every function at or above the complexity floor.
// Priority multiplies complexity by direct dependents, so a moderately
// tangled function everyone calls outranks a gnarly one nobody uses. Quick
// wins are complex but lightly depended on; major refactors are complex and
// load-bearing.
func RefactorCandidates(x *index.Index, opts RefactorOptions) *RefactorResult {
	minComplexity := opts.MinComplexity
	if minComplexity <= 0 {
		minComplexity = defaultMinComplexity
	}
	res := &RefactorResult{MinComplexity: minComplexity}

	for _, fn := range x.AllFunctions() {
		if fn.Complexity < minComplexity {
			continue
		}
		dependents := fn.CallCount
		priority := fn.Complexity * dependents
		res.Candidates = append(res.Candidates, RefactorCandidate{
			Function:      fn.QualifiedName(),
			File:          fn.File,
			Line:          fn.StartLine,
			Complexity:    fn.Complexity,
			Dependents:    dependents,
			Priority:      priority,
			Risk:          priorityRisk(priority),
			QuickWin:      fn.Complexity > 15 && dependents <= 3,
			MajorRefactor: fn.Complexity > 20 && dependents > 10,
		})
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		a, b := res.Candidates[i], res.Candidates[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Complexity != b.Complexity {
			return a.Complexity > b.Complexity
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Function < b.Function
	})
	return res
}

func priorityRisk(priority int) string {
	switch {
	case priority > 100:
		return RiskHigh
	case priority >= 50:
		return RiskMedium
	default:
		return RiskLow
	}
}

package workflows

import (
	"math"
	"path"
	"sort"
	"strings"

	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/index"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// Risk levels for change impact.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

const defaultImpactDepth = 2

// ImpactOptions configures Impact.
type ImpactOptions struct {
	Name  string
	Depth int // indirect BFS depth; 0 disables indirect dependents
}

// Dependent is one entity that would feel a change to the target.
type Dependent struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// ImpactResult estimates the blast radius of changing one entity.
type ImpactResult struct {
	Found        bool        `json:"found"`
	Name         string      `json:"name"`
	Kind         string      `json:"kind,omitempty"` // function or class
	File         string      `json:"file,omitempty"`
	Direct       []Dependent `json:"direct,omitempty"`
	Indirect     []Dependent `json:"indirect,omitempty"`
	Layers       []string    `json:"layers,omitempty"`
	TestCoverage float64     `json:"test_coverage"` // percent of direct dependents in test files
	RiskScore    float64     `json:"risk_score"`
	RiskLevel    string      `json:"risk_level"`
}

// Impact estimates what changing the named function or class would touch.
// Direct dependents come straight off the graph (callers for a function,
// instantiators and importers for a class); indirect dependents are a
// bounded BFS over callers of the direct set.
func Impact(x *index.Index, opts ImpactOptions) *ImpactResult {
	res := &ImpactResult{Name: opts.Name}

	var directRefs []schema.Reference
	seeds := make(map[identity.ID]bool)
	if fns := x.FindFunction(opts.Name); len(fns) > 0 {
		res.Found = true
		res.Kind = "function"
		res.File = fns[0].File
		for _, fn := range fns {
			seeds[fn.ID()] = true
			directRefs = append(directRefs, x.Graph().CallersOf(fn.ID())...)
		}
	} else if classes := x.FindClass(opts.Name); len(classes) > 0 {
		res.Found = true
		res.Kind = "class"
		res.File = classes[0].File
		for _, cls := range classes {
			seeds[cls.ID()] = true
			directRefs = append(directRefs, x.Graph().InstantiatorsOf(cls.ID())...)
			directRefs = append(directRefs, x.Graph().ImportersOf(cls.ID())...)
		}
	} else {
		return res
	}

	visited := seeds
	var frontier []nodeRef
	for _, ref := range directRefs {
		for _, dep := range refTargets(x, ref.Name) {
			if visited[dep.id] {
				continue
			}
			visited[dep.id] = true
			res.Direct = append(res.Direct, Dependent{Name: dep.name, File: dep.file, Line: dep.line})
			frontier = append(frontier, dep)
		}
	}

	depth := opts.Depth
	if depth < 0 {
		depth = defaultImpactDepth
	}
	if depth > maxTraversalDepth {
		depth = maxTraversalDepth
	}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []nodeRef
		for _, node := range frontier {
			for _, ref := range x.Graph().CallersOf(node.id) {
				for _, dep := range refTargets(x, ref.Name) {
					if visited[dep.id] {
						continue
					}
					visited[dep.id] = true
					res.Indirect = append(res.Indirect, Dependent{Name: dep.name, File: dep.file, Line: dep.line})
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}

	res.TestCoverage = coveragePercent(res.Direct)
	res.Layers = dependentLayers(res.Direct, res.Indirect)
	res.RiskScore = riskScore(len(res.Direct), len(res.Indirect), len(res.Layers), res.TestCoverage)
	res.RiskLevel = riskLevel(res.RiskScore)
	return res
}

// riskScore weighs direct dependents heaviest, spread across layers
// heavier still, and discounts for test coverage.
func riskScore(direct, indirect, layers int, coverage float64) float64 {
	score := float64(direct)*3 + float64(indirect) + float64(layers)*5 - coverage*0.1
	return math.Round(score*100) / 100
}

func riskLevel(score float64) string {
	switch {
	case score > 25:
		return RiskHigh
	case score >= 10:
		return RiskMedium
	default:
		return RiskLow
	}
}

func coveragePercent(direct []Dependent) float64 {
	if len(direct) == 0 {
		return 0
	}
	tested := 0
	for _, dep := range direct {
		if IsTestFile(dep.File) {
			tested++
		}
	}
	pct := 100 * float64(tested) / float64(len(direct))
	return math.Round(pct*100) / 100
}

func dependentLayers(direct, indirect []Dependent) []string {
	seen := make(map[string]bool)
	for _, dep := range direct {
		seen[LayerForFile(dep.File)] = true
	}
	for _, dep := range indirect {
		seen[LayerForFile(dep.File)] = true
	}
	layers := make([]string, 0, len(seen))
	for layer := range seen {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	return layers
}

// IsTestFile reports whether a path looks like a test by the usual naming
// conventions across the supported languages.
func IsTestFile(file string) bool {
	lower := strings.ToLower(file)
	base := lower
	if i := strings.LastIndexByte(lower, '/'); i >= 0 {
		base = lower[i+1:]
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	switch {
	case strings.HasPrefix(base, "test_"),
		strings.HasSuffix(stem, "_test"),
		strings.HasSuffix(stem, ".test"),
		strings.HasSuffix(stem, ".spec"):
		return true
	}
	for _, part := range strings.Split(lower, "/") {
		if part == "tests" || part == "test" || part == "__tests__" || part == "spec" {
			return true
		}
	}
	return false
}

// Package workflows implements the read-only analyses that run over a
// loaded index: call graphs, impact estimates, refactor ranking, and entry
// and data lifecycle traces. Every workflow returns a result value; unknown
// entities come back with Found set to false, never as errors.
package workflows

import (
	"path"
	"strings"
)

// Architectural layers inferred from file paths.
const (
	LayerPresentation = "presentation"
	LayerBusiness     = "business-logic"
	LayerData         = "data"
	LayerUtility      = "utility"
	LayerCore         = "core"
)

var layerKeywords = []struct {
	layer    string
	keywords []string
}{
	{LayerPresentation, []string{"ui", "views", "templates", "components", "pages", "frontend", "static", "www"}},
	{LayerBusiness, []string{"services", "logic", "handlers", "controllers"}},
	{LayerData, []string{"models", "db", "database", "repositories", "storage"}},
	{LayerUtility, []string{"utils", "helpers", "common", "shared", "lib"}},
}

// LayerForFile infers the architectural layer of a file from its path
// components. The first keyword match wins; files matching nothing are
// core. The final component is compared without its extension, so
// "app/views.py" lands in presentation just like "app/views/detail.py".
func LayerForFile(file string) string {
	parts := strings.Split(strings.ToLower(file), "/")
	if len(parts) > 0 {
		last := parts[len(parts)-1]
		parts[len(parts)-1] = strings.TrimSuffix(last, path.Ext(last))
	}
	for _, part := range parts {
		for _, lk := range layerKeywords {
			for _, kw := range lk.keywords {
				if part == kw {
					return lk.layer
				}
			}
		}
	}
	return LayerCore
}

// Hot-spot classifications.
const (
	HotComplexity = "complexity"
	HotFanOut     = "fan-out"
	HotCritical   = "critical"
)

const (
	hotComplexityThreshold = 10
	hotFanOutThreshold     = 5
)

// HotSpot classifies a function against the complexity and fan-out
// thresholds. The empty string means not hot.
func HotSpot(complexity, fanOut int) string {
	high := complexity > hotComplexityThreshold
	wide := fanOut > hotFanOutThreshold
	switch {
	case high && wide:
		return HotCritical
	case high:
		return HotComplexity
	case wide:
		return HotFanOut
	}
	return ""
}

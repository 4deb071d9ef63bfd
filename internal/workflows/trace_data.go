package workflows

import (
	"sort"
	"strings"

	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/index"
)

// Lifecycle operation buckets.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
	OpOther  = "other"
)

var lifecycleVerbs = []struct {
	op    string
	verbs []string
}{
	{OpCreate, []string{"create", "new", "make", "build", "insert", "add", "register", "init"}},
	{OpRead, []string{"get", "fetch", "find", "load", "read", "list", "query", "select", "search"}},
	{OpUpdate, []string{"update", "set", "modify", "save", "edit", "patch", "put", "rename"}},
	{OpDelete, []string{"delete", "remove", "destroy", "drop", "clear", "purge"}},
}

// TraceDataOptions configures TraceData.
type TraceDataOptions struct {
	Class string
}

// DataOperation is one function that touches the traced class, classified
// by what it does to the data and where it sits architecturally.
type DataOperation struct {
	Function  string `json:"function"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Layer     string `json:"layer"`
	Operation string `json:"operation"`
	Via       string `json:"via"` // method, instantiation, import, or name
}

// TraceDataResult maps the lifecycle of one class across the codebase.
type TraceDataResult struct {
	Found      bool                       `json:"found"`
	Class      string                     `json:"class"`
	File       string                     `json:"file,omitempty"`
	Operations []DataOperation            `json:"operations,omitempty"`
	Lifecycle  map[string][]DataOperation `json:"lifecycle,omitempty"` // bucket -> operations
	ByLayer    map[string][]DataOperation `json:"by_layer,omitempty"`
	Summary    map[string]int             `json:"summary,omitempty"`
}

// TraceData collects every function related to a class (its methods, the
// functions that construct it, and name-matched handlers elsewhere) and
// buckets them into create, read, update, and delete by naming convention.
// Construction sites always count as create regardless of name.
func TraceData(x *index.Index, opts TraceDataOptions) *TraceDataResult {
	res := &TraceDataResult{Class: opts.Class}
	classes := x.FindClass(opts.Class)
	if len(classes) == 0 {
		return res
	}
	res.Found = true
	res.File = classes[0].File

	type related struct {
		node nodeRef
		via  string
		op   string // forced bucket, empty to classify by name
	}
	var all []related
	seen := make(map[identity.ID]bool)
	add := func(node nodeRef, via, op string) {
		if seen[node.id] {
			return
		}
		seen[node.id] = true
		all = append(all, related{node, via, op})
	}

	for _, cls := range classes {
		seen[cls.ID()] = true
		for _, ref := range x.Graph().InstantiatorsOf(cls.ID()) {
			for _, node := range refTargets(x, ref.Name) {
				add(node, "instantiation", OpCreate)
			}
		}
		for _, ref := range x.Graph().ImportersOf(cls.ID()) {
			for _, node := range refTargets(x, ref.Name) {
				add(node, "import", "")
			}
		}
	}

	lowerClass := strings.ToLower(opts.Class)
	for _, fn := range x.AllFunctions() {
		node := nodeRef{id: fn.ID(), name: fn.QualifiedName(), file: fn.File, line: fn.StartLine, fn: fn}
		if fn.Owner == opts.Class {
			add(node, "method", "")
			continue
		}
		if strings.Contains(strings.ToLower(fn.Name), lowerClass) {
			add(node, "name", "")
		}
	}

	for _, rel := range all {
		if rel.node.fn == nil {
			continue // module-level construction sites carry no name to classify
		}
		op := rel.op
		if op == "" {
			op = classifyOperation(rel.node.fn.Name)
		}
		res.Operations = append(res.Operations, DataOperation{
			Function:  rel.node.name,
			File:      rel.node.file,
			Line:      rel.node.line,
			Layer:     LayerForFile(rel.node.file),
			Operation: op,
			Via:       rel.via,
		})
	}

	sort.SliceStable(res.Operations, func(i, j int) bool {
		a, b := res.Operations[i], res.Operations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Function < b.Function
	})

	res.Lifecycle = make(map[string][]DataOperation)
	res.ByLayer = make(map[string][]DataOperation)
	res.Summary = make(map[string]int)
	for _, op := range res.Operations {
		res.Lifecycle[op.Operation] = append(res.Lifecycle[op.Operation], op)
		res.ByLayer[op.Layer] = append(res.ByLayer[op.Layer], op)
		res.Summary[op.Operation]++
	}
	return res
}

// classifyOperation buckets a function name by its leading verb, then by
// any verb appearing inside the name.
func classifyOperation(name string) string {
	lower := strings.ToLower(name)
	for _, lv := range lifecycleVerbs {
		for _, verb := range lv.verbs {
			if strings.HasPrefix(lower, verb) {
				return lv.op
			}
		}
	}
	for _, lv := range lifecycleVerbs {
		for _, verb := range lv.verbs {
			if strings.Contains(lower, verb) {
				return lv.op
			}
		}
	}
	return OpOther
}

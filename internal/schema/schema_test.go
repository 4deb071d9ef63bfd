package schema

import (
	"testing"

	"github.com/DeusData/codebase-atlas/internal/lang"
)

func mod(file string, fns, classes int) *Module {
	m := &Module{File: file, Language: lang.Python, LineCount: 10}
	for i := 0; i < fns; i++ {
		m.Functions = append(m.Functions, &Function{Name: "f", File: file, StartLine: i + 1, Complexity: 1})
	}
	for i := 0; i < classes; i++ {
		m.Classes = append(m.Classes, &Class{Name: "C", File: file, StartLine: i + 1})
	}
	return m
}

func TestMergeAssociativeCommutative(t *testing.T) {
	build := func() (*ParseResult, *ParseResult, *ParseResult) {
		r1 := NewParseResult()
		r1.AddModule(mod("a.py", 2, 1))
		r2 := NewParseResult()
		r2.AddModule(mod("b.py", 1, 0))
		r3 := NewParseResult()
		r3.AddModule(mod("c.py", 0, 3))
		return r1, r2, r3
	}

	// merge(merge(r1,r2),r3)
	a1, a2, a3 := build()
	a1.Merge(a2)
	a1.Merge(a3)

	// merge(r1,merge(r2,r3))
	b1, b2, b3 := build()
	b2.Merge(b3)
	b1.Merge(b2)

	if a1.EntityCount() != b1.EntityCount() {
		t.Errorf("associativity: %d != %d", a1.EntityCount(), b1.EntityCount())
	}

	// commutativity by entity count
	c1, c2, _ := build()
	d1, d2, _ := build()
	c1.Merge(c2)
	d2.Merge(d1)
	if c1.EntityCount() != d2.EntityCount() {
		t.Errorf("commutativity: %d != %d", c1.EntityCount(), d2.EntityCount())
	}
}

func TestMergeCollectsWarningsAndErrors(t *testing.T) {
	r1 := NewParseResult()
	r1.AddWarning("a.py", 3, WarnParse, "syntax error")
	r1.Errors = 1
	r2 := NewParseResult()
	r2.AddWarning("b.py", 0, WarnRead, "permission denied")
	r2.Errors = 2

	r1.Merge(r2)
	if len(r1.Warnings) != 2 {
		t.Errorf("warnings: got %d, want 2", len(r1.Warnings))
	}
	if r1.Errors != 3 {
		t.Errorf("errors: got %d, want 3", r1.Errors)
	}
}

func TestSortDeterminism(t *testing.T) {
	r1 := NewParseResult()
	r1.AddModule(mod("b.py", 1, 0))
	r1.AddModule(mod("a.py", 2, 1))

	r2 := NewParseResult()
	r2.AddModule(mod("a.py", 2, 1))
	r2.AddModule(mod("b.py", 1, 0))

	r1.Sort()
	r2.Sort()

	for i := range r1.Modules {
		if r1.Modules[i].File != r2.Modules[i].File {
			t.Fatalf("module order differs at %d: %s vs %s", i, r1.Modules[i].File, r2.Modules[i].File)
		}
	}
	if r1.Modules[0].File != "a.py" {
		t.Errorf("expected a.py first, got %s", r1.Modules[0].File)
	}
}

func TestFlatViews(t *testing.T) {
	r := NewParseResult()
	r.AddModule(mod("a.py", 2, 1))
	r.AddModule(mod("b.py", 1, 2))

	if got := len(r.Functions()); got != 3 {
		t.Errorf("Functions: got %d, want 3", got)
	}
	if got := len(r.Classes()); got != 3 {
		t.Errorf("Classes: got %d, want 3", got)
	}
	if m := r.ModuleByFile("b.py"); m == nil || m.File != "b.py" {
		t.Error("ModuleByFile(b.py) failed")
	}
	if m := r.ModuleByFile("missing.py"); m != nil {
		t.Error("ModuleByFile(missing) should be nil")
	}
}

func TestEntityIdentity(t *testing.T) {
	f := &Function{Name: "process", File: "app/core.py", StartLine: 42}
	if string(f.ID()) != "app/core.py:42:process" {
		t.Errorf("function ID = %s", f.ID())
	}
	m := &Function{Name: "place", Owner: "OrderService", File: "app/orders.py", StartLine: 9}
	if m.QualifiedName() != "OrderService.place" {
		t.Errorf("QualifiedName = %s", m.QualifiedName())
	}
	if string(m.ID()) != "app/orders.py:9:OrderService.place" {
		t.Errorf("method ID = %s", m.ID())
	}
	c := &Class{Name: "Order", File: "app/models.py", StartLine: 7}
	if string(c.ID()) != "app/models.py:7:Order" {
		t.Errorf("class ID = %s", c.ID())
	}
}

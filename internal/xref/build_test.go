package xref

import (
	"testing"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// fixtureResult builds a small Python-shaped project by hand: a model class
// with a method, a db helper, and a view that instantiates the class, calls
// the helper twice, and imports the model module.
func fixtureResult() *schema.ParseResult {
	models := &schema.Module{
		File:     "app/models.py",
		Language: lang.Python,
		Classes: []*schema.Class{
			{Name: "User", File: "app/models.py", StartLine: 4, EndLine: 12},
		},
		Functions: []*schema.Function{
			{
				Name: "save", Owner: "User", File: "app/models.py", StartLine: 8, EndLine: 11,
				Calls: []schema.Reference{
					{Name: "connect", File: "app/models.py", Line: 9, Kind: schema.KindCall},
				},
			},
		},
	}
	db := &schema.Module{
		File:     "app/db.py",
		Language: lang.Python,
		Functions: []*schema.Function{
			{Name: "connect", File: "app/db.py", StartLine: 3, EndLine: 7},
		},
	}
	views := &schema.Module{
		File:     "app/views.py",
		Language: lang.Python,
		Functions: []*schema.Function{
			{
				Name: "render_user", File: "app/views.py", StartLine: 5, EndLine: 10,
				Calls: []schema.Reference{
					{Name: "User", File: "app/views.py", Line: 6, Kind: schema.KindCall},
					{Name: "connect", File: "app/views.py", Line: 7, Kind: schema.KindCall},
					{Name: "helper.connect", File: "app/views.py", Line: 8, Kind: schema.KindCall},
					{Name: "missing_fn", File: "app/views.py", Line: 9, Kind: schema.KindCall},
				},
			},
		},
		Imports: []schema.Import{
			{Module: "app.models", File: "app/views.py", Line: 1, Style: schema.ImportSelective, Names: []string{"User"}},
		},
		Refs: []schema.Reference{
			{Name: "render_user", File: "app/views.py", Line: 12, Kind: schema.KindCall},
		},
	}

	result := schema.NewParseResult()
	result.AddModule(models)
	result.AddModule(db)
	result.AddModule(views)
	return result
}

func TestBuildResolvesCallsAndInstantiations(t *testing.T) {
	result := fixtureResult()
	g := Build(result)
	checkSymmetry(t, g)

	connect := result.ModuleByFile("app/db.py").Functions[0]
	callers := g.CallersOf(connect.ID())
	if len(callers) != 3 {
		t.Fatalf("connect has %d callers, want 3: %+v", len(callers), callers)
	}
	names := make(map[string]int)
	for _, ref := range callers {
		names[ref.Name]++
	}
	if names["User.save"] != 1 || names["render_user"] != 2 {
		t.Fatalf("caller names = %v", names)
	}

	views := result.ModuleByFile("app/views.py")
	render := views.Functions[0]
	if got := g.CalleesOf(render.ID()); len(got) != 2 {
		t.Fatalf("render_user has %d resolved callees, want 2: %+v", len(got), got)
	}

	// The User() site came in as a call and resolved to a class, so its
	// recorded kind flips to instantiation.
	if render.Calls[0].Name != "User" {
		t.Fatalf("calls not sorted by line: %+v", render.Calls)
	}
	if render.Calls[0].Kind != schema.KindInstantiation {
		t.Fatalf("User site kind = %q, want %q", render.Calls[0].Kind, schema.KindInstantiation)
	}

	user := result.ModuleByFile("app/models.py").Classes[0]
	if got := g.InstantiatorsOf(user.ID()); len(got) != 1 || got[0].Name != "render_user" {
		t.Fatalf("InstantiatorsOf(User) = %+v", got)
	}
	if user.InstantiationCount != 1 || len(user.InstantiatedBy) != 1 {
		t.Fatalf("embedded instantiation data = %d, %+v", user.InstantiationCount, user.InstantiatedBy)
	}

	// missing_fn resolves to nothing and produces no edge.
	for _, ref := range g.CalleesOf(render.ID()) {
		if ref.Name == "missing_fn" {
			t.Fatal("unresolved name produced an edge")
		}
	}
}

func TestBuildModuleLevelRefsUseModuleAsCaller(t *testing.T) {
	result := fixtureResult()
	g := Build(result)

	views := result.ModuleByFile("app/views.py")
	render := views.Functions[0]
	found := false
	for _, ref := range g.CallersOf(render.ID()) {
		if ref.Name == "app/views.py" && ref.Line == 12 {
			found = true
		}
	}
	if !found {
		t.Fatalf("module-level call missing from callers: %+v", g.CallersOf(render.ID()))
	}
	if render.CallCount != 1 {
		t.Fatalf("render_user.CallCount = %d, want 1", render.CallCount)
	}
	if got := g.CalleesOf(views.ID()); len(got) != 1 || got[0].Name != "render_user" {
		t.Fatalf("CalleesOf(views module) = %+v", got)
	}
}

func TestBuildResolvesImports(t *testing.T) {
	result := fixtureResult()
	g := Build(result)

	views := result.ModuleByFile("app/views.py")
	models := result.ModuleByFile("app/models.py")
	user := models.Classes[0]

	imports := g.ImportsOf(views.ID())
	if len(imports) != 2 {
		t.Fatalf("views imports %d targets, want module and class: %+v", len(imports), imports)
	}
	sawModule, sawClass := false, false
	for _, ref := range imports {
		switch ref.Name {
		case "app/models.py":
			sawModule = true
		case "User":
			sawClass = true
		}
	}
	if !sawModule || !sawClass {
		t.Fatalf("imports = %+v", imports)
	}
	if got := g.ImportersOf(models.ID()); len(got) != 1 || got[0].Name != "app/views.py" {
		t.Fatalf("ImportersOf(models) = %+v", got)
	}
	if len(user.ImportedBy) != 1 || user.ImportedBy[0].Name != "app/views.py" {
		t.Fatalf("User.ImportedBy = %+v", user.ImportedBy)
	}
}

func TestBuildLinksAllCandidatesForAmbiguousNames(t *testing.T) {
	result := schema.NewParseResult()
	result.AddModule(&schema.Module{
		File: "a.py", Language: lang.Python,
		Functions: []*schema.Function{{Name: "fetch", File: "a.py", StartLine: 1, EndLine: 3}},
	})
	result.AddModule(&schema.Module{
		File: "b.py", Language: lang.Python,
		Functions: []*schema.Function{{Name: "fetch", File: "b.py", StartLine: 1, EndLine: 3}},
	})
	result.AddModule(&schema.Module{
		File: "main.py", Language: lang.Python,
		Functions: []*schema.Function{{
			Name: "run", File: "main.py", StartLine: 1, EndLine: 3,
			Calls: []schema.Reference{{Name: "fetch", File: "main.py", Line: 2, Kind: schema.KindCall}},
		}},
	})

	g := Build(result)
	run := result.ModuleByFile("main.py").Functions[0]
	if got := g.CalleesOf(run.ID()); len(got) != 2 {
		t.Fatalf("ambiguous call resolved to %d targets, want 2: %+v", len(got), got)
	}
	checkSymmetry(t, g)
}

func TestBuildClassResolutionWinsOverFunctions(t *testing.T) {
	result := schema.NewParseResult()
	result.AddModule(&schema.Module{
		File: "config.py", Language: lang.Python,
		Classes:   []*schema.Class{{Name: "Config", File: "config.py", StartLine: 1, EndLine: 5}},
		Functions: []*schema.Function{{Name: "Config", File: "config.py", StartLine: 8, EndLine: 9}},
	})
	result.AddModule(&schema.Module{
		File: "main.py", Language: lang.Python,
		Functions: []*schema.Function{{
			Name: "run", File: "main.py", StartLine: 1, EndLine: 3,
			Calls: []schema.Reference{{Name: "Config", File: "main.py", Line: 2, Kind: schema.KindCall}},
		}},
	})

	g := Build(result)
	run := result.ModuleByFile("main.py").Functions[0]
	if got := g.CalleesOf(run.ID()); len(got) != 0 {
		t.Fatalf("class-named site still produced call edges: %+v", got)
	}
	cls := result.ModuleByFile("config.py").Classes[0]
	if got := g.InstantiatorsOf(cls.ID()); len(got) != 1 {
		t.Fatalf("InstantiatorsOf(Config) = %+v", got)
	}
}

func TestBuildHandlesCallCycles(t *testing.T) {
	result := schema.NewParseResult()
	mod := &schema.Module{
		File: "loop.py", Language: lang.Python,
		Functions: []*schema.Function{
			{Name: "a", File: "loop.py", StartLine: 1, EndLine: 2,
				Calls: []schema.Reference{{Name: "b", File: "loop.py", Line: 1, Kind: schema.KindCall}}},
			{Name: "b", File: "loop.py", StartLine: 4, EndLine: 5,
				Calls: []schema.Reference{{Name: "c", File: "loop.py", Line: 4, Kind: schema.KindCall}}},
			{Name: "c", File: "loop.py", StartLine: 7, EndLine: 8,
				Calls: []schema.Reference{{Name: "a", File: "loop.py", Line: 7, Kind: schema.KindCall}}},
		},
	}
	result.AddModule(mod)

	g := Build(result)
	checkSymmetry(t, g)
	for _, fn := range mod.Functions {
		if got := len(g.CallersOf(fn.ID())); got != 1 {
			t.Fatalf("%s has %d callers, want 1", fn.Name, got)
		}
		if fn.CallCount != 1 {
			t.Fatalf("%s.CallCount = %d, want 1", fn.Name, fn.CallCount)
		}
	}
}

func TestBuildSelfRecursion(t *testing.T) {
	result := schema.NewParseResult()
	mod := &schema.Module{
		File: "fact.py", Language: lang.Python,
		Functions: []*schema.Function{
			{Name: "fact", File: "fact.py", StartLine: 1, EndLine: 4,
				Calls: []schema.Reference{{Name: "fact", File: "fact.py", Line: 3, Kind: schema.KindCall}}},
		},
	}
	result.AddModule(mod)

	g := Build(result)
	fact := mod.Functions[0]
	if got := g.CallersOf(fact.ID()); len(got) != 1 || got[0].Name != "fact" {
		t.Fatalf("recursive callers = %+v", got)
	}
	checkSymmetry(t, g)
}

package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeIndexFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileIsUnavailable(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing index")
	}
	if !IsUnavailable(err) {
		t.Fatalf("error not marked unavailable: %v", err)
	}
}

func TestLoadCorruptJSONIsUnavailable(t *testing.T) {
	path := writeIndexFile(t, "{this is not json")
	_, err := Load(path)
	if !IsUnavailable(err) {
		t.Fatalf("error not marked unavailable: %v", err)
	}
}

func TestLoadFutureGenerationIsUnavailable(t *testing.T) {
	path := writeIndexFile(t, `{"schema_version": 3}`)
	_, err := Load(path)
	if !IsUnavailable(err) {
		t.Fatalf("error not marked unavailable: %v", err)
	}
	if !strings.Contains(err.Error(), "schema generation 3") {
		t.Fatalf("error does not name the generation: %v", err)
	}
}

// The same small project expressed in both generations: one module with a
// class, its method, and a module-level function that calls the method.
const currentPayload = `{
  "schema_version": 2,
  "generated_at": "2026-08-01T10:00:00Z",
  "project": {"name": "demo", "root": "/src/demo"},
  "stats": {},
  "modules": [
    {
      "file": "app/m.py",
      "language": "python",
      "line_count": 12,
      "classes": [
        {"name": "Svc", "file": "app/m.py", "start_line": 5, "end_line": 12, "methods": ["run"]}
      ],
      "functions": [
        {"name": "top", "file": "app/m.py", "start_line": 1, "end_line": 3, "complexity": 1,
         "calls": [{"name": "Svc.run", "file": "app/m.py", "line": 2, "kind": "call"}],
         "callers": []},
        {"name": "run", "owner": "Svc", "file": "app/m.py", "start_line": 10, "end_line": 12, "complexity": 1}
      ],
      "imports": []
    }
  ],
  "cross_references": {
    "callers": {"app/m.py:10:Svc.run": [{"name": "top", "file": "app/m.py", "line": 2, "kind": "call"}]},
    "callees": {"app/m.py:1:top": [{"name": "Svc.run", "file": "app/m.py", "line": 2, "kind": "call"}]},
    "instantiated_by": {},
    "instantiations": {},
    "imported_by": {},
    "imports": {}
  }
}`

const legacyPayload = `{
  "schema_version": 1,
  "generated_at": "2026-08-01T10:00:00Z",
  "project": {"name": "demo", "root": "/src/demo"},
  "stats": {},
  "modules": [
    {"file": "app/m.py", "language": "python", "line_count": 12}
  ],
  "classes": [
    {"name": "Svc", "module": "app/m.py", "start_line": 5, "end_line": 12}
  ],
  "functions": [
    {"name": "run", "owner": "Svc", "module": "app/m.py", "start_line": 10, "end_line": 12, "complexity": 1},
    {"name": "top", "module": "app/m.py", "start_line": 1, "end_line": 3, "complexity": 1,
     "calls": [{"name": "Svc.run", "file": "app/m.py", "line": 2, "kind": "call"}]}
  ],
  "cross_references": {
    "callers": {"app/m.py:10:Svc.run": [{"name": "top", "file": "app/m.py", "line": 2, "kind": "call"}]},
    "callees": {"app/m.py:1:top": [{"name": "Svc.run", "file": "app/m.py", "line": 2, "kind": "call"}]},
    "instantiated_by": {},
    "instantiations": {},
    "imported_by": {},
    "imports": {}
  }
}`

func TestLegacyAndCurrentNormalizeIdentically(t *testing.T) {
	current, err := Load(writeIndexFile(t, currentPayload))
	if err != nil {
		t.Fatalf("load current: %v", err)
	}
	legacy, err := Load(writeIndexFile(t, legacyPayload))
	if err != nil {
		t.Fatalf("load legacy: %v", err)
	}

	if current.SchemaVersion() != 2 || legacy.SchemaVersion() != 1 {
		t.Fatalf("schema versions = %d, %d", current.SchemaVersion(), legacy.SchemaVersion())
	}

	a, err := json.Marshal(current.Modules())
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(legacy.Modules())
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("normalized modules differ:\ncurrent: %s\nlegacy:  %s", a, b)
	}
}

func TestLegacyLoadRederivesEmbeddedFields(t *testing.T) {
	x, err := Load(writeIndexFile(t, legacyPayload))
	if err != nil {
		t.Fatal(err)
	}

	runs := x.FindFunction("Svc.run")
	if len(runs) != 1 {
		t.Fatalf("FindFunction(Svc.run) = %+v", runs)
	}
	if runs[0].CallCount != 1 || len(runs[0].Callers) != 1 || runs[0].Callers[0].Name != "top" {
		t.Fatalf("embedded callers not derived: %+v", runs[0])
	}

	svcs := x.FindClass("Svc")
	if len(svcs) != 1 {
		t.Fatalf("FindClass(Svc) = %+v", svcs)
	}
	if len(svcs[0].Methods) != 1 || svcs[0].Methods[0] != "run" {
		t.Fatalf("class methods not rebuilt: %+v", svcs[0].Methods)
	}
	if svcs[0].File != "app/m.py" {
		t.Fatalf("class file not backfilled: %q", svcs[0].File)
	}
}

func TestReloadPicksUpRewrite(t *testing.T) {
	path := writeIndexFile(t, currentPayload)
	x, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(x.Modules()) != 1 {
		t.Fatalf("modules = %d", len(x.Modules()))
	}

	grown := strings.Replace(currentPayload,
		`"modules": [
    {
      "file": "app/m.py",`,
		`"modules": [
    {"file": "app/extra.py", "language": "python", "line_count": 1,
     "classes": [], "functions": [], "imports": []},
    {
      "file": "app/m.py",`, 1)
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := x.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(x.Modules()) != 2 {
		t.Fatalf("modules after reload = %d", len(x.Modules()))
	}
	if len(x.FindModule("extra.py")) != 1 {
		t.Fatal("reloaded module not queryable")
	}
}

func TestReloadWithoutBackingFile(t *testing.T) {
	x := FromDocument(&Document{SchemaVersion: CurrentSchemaVersion}, "")
	if err := x.Reload(); !IsUnavailable(err) {
		t.Fatalf("Reload on in-memory index: %v", err)
	}
}

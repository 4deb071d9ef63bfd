package extract

import (
	"testing"

	"github.com/DeusData/codebase-atlas/internal/identity"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

func parseClassID(cls *schema.Class) (string, int, string, bool) {
	return identity.Parse(cls.ID())
}

func findFunction(t *testing.T, result *schema.ParseResult, name string) *schema.Function {
	t.Helper()
	for _, fn := range result.Functions() {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

func findClass(t *testing.T, result *schema.ParseResult, name string) *schema.Class {
	t.Helper()
	for _, cls := range result.Classes() {
		if cls.Name == name {
			return cls
		}
	}
	t.Fatalf("class %q not found", name)
	return nil
}

func callNames(fn *schema.Function) []string {
	names := make([]string, 0, len(fn.Calls))
	for _, ref := range fn.Calls {
		names = append(names, ref.Name)
	}
	return names
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func importModules(result *schema.ParseResult) []string {
	var mods []string
	for _, m := range result.Modules {
		for _, imp := range m.Imports {
			mods = append(mods, imp.Module)
		}
	}
	return mods
}

package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// testBinPath is set in TestMain and persists across all tests in this package.
var testBinPath string

func TestMain(m *testing.M) {
	// Build the binary once into a temp dir that persists for the full test run.
	tmpDir, err := os.MkdirTemp("", "atlas-cli-test-*")
	if err != nil {
		panic("create temp dir: " + err.Error())
	}

	binName := "codebase-atlas"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(tmpDir, binName)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	cmd := exec.CommandContext(ctx, "go", "build", "-o", binPath, "./")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		cancel()
		os.RemoveAll(tmpDir)
		os.Stderr.Write(out)
		panic("build test binary: " + err.Error())
	}
	cancel()
	testBinPath = binPath

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func testCmd(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return exec.CommandContext(ctx, testBinPath, args...)
}

// writeFixtureTree lays down a small Python project and returns its root.
func writeFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"app/models/user.py": `class User:
    def save(self):
        connect()

def load_user():
    return User()
`,
		"app/services/order.py": `from app.models.user import User

def process():
    user = load_user()
    validate(user)

def validate(user):
    return True
`,
		"cmd/main.py": `def main():
    process()
`,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// buildFixtureIndex indexes the fixture tree and returns the index path.
func buildFixtureIndex(t *testing.T) string {
	t.Helper()
	root := writeFixtureTree(t)
	indexPath := filepath.Join(root, "atlas-index.json")
	out, err := testCmd(t, "index", root, "-o", indexPath).CombinedOutput()
	if err != nil {
		t.Fatalf("index failed: %v\n%s", err, out)
	}
	return indexPath
}

func TestCLI_Version(t *testing.T) {
	out, err := testCmd(t, "--version").CombinedOutput()
	if err != nil {
		t.Fatalf("--version failed: %v\n%s", err, out)
	}
	output := strings.TrimSpace(string(out))
	if !strings.HasPrefix(output, "codebase-atlas") {
		t.Fatalf("unexpected --version output: %q", output)
	}
}

func TestCLI_IndexWritesDocument(t *testing.T) {
	root := writeFixtureTree(t)
	indexPath := filepath.Join(root, "atlas-index.json")

	out, err := testCmd(t, "index", root, "-o", indexPath).CombinedOutput()
	if err != nil {
		t.Fatalf("index failed: %v\n%s", err, out)
	}

	var result struct {
		Modules   int `json:"modules"`
		Classes   int `json:"classes"`
		Functions int `json:"functions"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		t.Fatalf("index output is not JSON: %v\n%s", err, out)
	}
	if result.Modules != 3 {
		t.Errorf("expected 3 modules, got %d", result.Modules)
	}
	if result.Classes != 1 {
		t.Errorf("expected 1 class, got %d", result.Classes)
	}
	if result.Functions != 5 {
		t.Errorf("expected 5 functions, got %d", result.Functions)
	}

	if _, err := os.Stat(indexPath); err != nil {
		t.Fatalf("index file not written: %v", err)
	}
}

func TestCLI_IndexSummary(t *testing.T) {
	root := writeFixtureTree(t)

	out, err := testCmd(t, "index", root, "--summary").CombinedOutput()
	if err != nil {
		t.Fatalf("index --summary failed: %v\n%s", err, out)
	}
	output := string(out)
	if !strings.Contains(output, "Indexed") {
		t.Fatalf("expected summary header, got: %s", output)
	}
	if !strings.Contains(output, "python") {
		t.Fatalf("expected language census, got: %s", output)
	}
	if !strings.Contains(output, "index written to") {
		t.Fatalf("expected output path line, got: %s", output)
	}
}

func TestCLI_QueryFind(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "query", "find", "User", "--kind", "class", "--index", indexPath).CombinedOutput()
	if err != nil {
		t.Fatalf("query find failed: %v\n%s", err, out)
	}
	output := string(out)
	if !strings.Contains(output, `"total": 1`) {
		t.Fatalf("expected one match, got: %s", output)
	}
	if !strings.Contains(output, `"User"`) {
		t.Fatalf("expected User in output, got: %s", output)
	}
}

func TestCLI_QueryFindUnknownIsEmpty(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "query", "find", "ghost", "--index", indexPath).CombinedOutput()
	if err != nil {
		t.Fatalf("unknown name should not fail: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), `"total": 0`) {
		t.Fatalf("expected empty result, got: %s", out)
	}
}

func TestCLI_QueryCallers(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "query", "callers", "process", "--index", indexPath).CombinedOutput()
	if err != nil {
		t.Fatalf("query callers failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), `"main"`) {
		t.Fatalf("expected main as caller of process, got: %s", out)
	}
}

func TestCLI_QueryStats(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "query", "stats", "--index", indexPath).CombinedOutput()
	if err != nil {
		t.Fatalf("query stats failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), `"total_modules": 3`) {
		t.Fatalf("expected stats payload, got: %s", out)
	}
}

func TestCLI_CallgraphText(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "callgraph", "process", "--index", indexPath, "--format", "text").CombinedOutput()
	if err != nil {
		t.Fatalf("callgraph failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Call graph for process") {
		t.Fatalf("expected text rendering, got: %s", out)
	}
}

func TestCLI_CallgraphRejectsBadDirection(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "callgraph", "process", "--index", indexPath, "--direction", "sideways").CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure for bad direction, got: %s", out)
	}
	if !strings.Contains(string(out), "direction must be") {
		t.Fatalf("expected direction error, got: %s", out)
	}
}

func TestCLI_ImpactText(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "impact", "load_user", "--index", indexPath, "--format", "text").CombinedOutput()
	if err != nil {
		t.Fatalf("impact failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Impact of changing load_user") {
		t.Fatalf("expected text rendering, got: %s", out)
	}
}

func TestCLI_TraceDataText(t *testing.T) {
	indexPath := buildFixtureIndex(t)

	out, err := testCmd(t, "trace", "data", "User", "--index", indexPath, "--format", "text").CombinedOutput()
	if err != nil {
		t.Fatalf("trace data failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Data lifecycle for User") {
		t.Fatalf("expected text rendering, got: %s", out)
	}
}

func TestCLI_MissingIndexFails(t *testing.T) {
	out, err := testCmd(t, "query", "stats", "--index", filepath.Join(t.TempDir(), "missing.json")).CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure for missing index, got: %s", out)
	}
	if !strings.Contains(string(out), "codebase-atlas index") {
		t.Fatalf("expected pointer to the index command, got: %s", out)
	}
}

func TestCLI_AST(t *testing.T) {
	dir := t.TempDir()
	pyFile := filepath.Join(dir, "snippet.py")
	if err := os.WriteFile(pyFile, []byte("def handler():\n    pass\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := testCmd(t, "ast", pyFile).CombinedOutput()
	if err != nil {
		t.Fatalf("ast failed: %v\n%s", err, out)
	}
	output := string(out)
	if !strings.Contains(output, "function_definition") {
		t.Fatalf("expected parse tree nodes, got: %s", output)
	}
}

func TestCLI_UpdateDryRun(t *testing.T) {
	cmd := testCmd(t, "update", "--dry-run")
	out, _ := cmd.CombinedOutput()
	if !strings.Contains(string(out), "checking for updates") {
		t.Fatalf("expected 'checking for updates' in output, got: %s", out)
	}
}

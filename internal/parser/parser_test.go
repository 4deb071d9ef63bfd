package parser

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
)

func TestParseGo(t *testing.T) {
	source := []byte(`package main

func Hello() string {
	return "hello"
}

func Add(a, b int) int {
	return a + b
}
`)
	tree, err := Parse(lang.Go, source)
	if err != nil {
		t.Fatalf("Parse Go: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		t.Fatal("root node is nil")
	}

	var funcCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_declaration" {
			funcCount++
		}
		return true
	})
	if funcCount != 2 {
		t.Errorf("expected 2 function_declarations, got %d", funcCount)
	}
}

func TestParsePython(t *testing.T) {
	source := []byte(`def greet(name):
    return f"Hello, {name}"

class MyClass:
    def method(self):
        pass
`)
	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse Python: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var funcCount, classCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			funcCount++
		case "class_definition":
			classCount++
		}
		return true
	})
	if funcCount != 2 {
		t.Errorf("expected 2 function_definitions, got %d", funcCount)
	}
	if classCount != 1 {
		t.Errorf("expected 1 class_definition, got %d", classCount)
	}
}

func TestParseHTML(t *testing.T) {
	source := []byte(`<!DOCTYPE html>
<html>
<head><script src="app.js"></script></head>
<body><div id="root"></div></body>
</html>
`)
	tree, err := Parse(lang.HTML, source)
	if err != nil {
		t.Fatalf("Parse HTML: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var scriptCount, elementCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "script_element":
			scriptCount++
		case "element":
			elementCount++
		}
		return true
	})
	if scriptCount != 1 {
		t.Errorf("expected 1 script_element, got %d", scriptCount)
	}
	if elementCount == 0 {
		t.Error("expected at least one element node")
	}
}

func TestParseCSS(t *testing.T) {
	source := []byte(`@import "base.css";

.button {
	color: red;
	margin: 0;
}
`)
	tree, err := Parse(lang.CSS, source)
	if err != nil {
		t.Fatalf("Parse CSS: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var ruleCount, importCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "rule_set":
			ruleCount++
		case "import_statement":
			importCount++
		}
		return true
	})
	if ruleCount != 1 {
		t.Errorf("expected 1 rule_set, got %d", ruleCount)
	}
	if importCount != 1 {
		t.Errorf("expected 1 import_statement, got %d", importCount)
	}
}

func TestAllLanguagesLoad(t *testing.T) {
	for _, l := range lang.AllLanguages() {
		_, err := GetLanguage(l)
		if err != nil {
			t.Errorf("GetLanguage(%s): %v", l, err)
		}
	}
}

func TestNodeText(t *testing.T) {
	source := []byte(`package main

func Hello() string {
	return "hello"
}
`)
	tree, err := Parse(lang.Go, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_declaration" {
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				t.Error("function has no name node")
				return false
			}
			name := NodeText(nameNode, source)
			if name != "Hello" {
				t.Errorf("expected Hello, got %s", name)
			}
			return false
		}
		return true
	})
}

func TestParseSyntaxErrorStillYieldsTree(t *testing.T) {
	source := []byte(`def broken(:
    pass
`)
	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	if !tree.RootNode().HasError() {
		t.Error("expected error nodes in malformed source")
	}
}

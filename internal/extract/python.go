package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// PythonParser extracts modules, classes, and functions from Python source.
type PythonParser struct{}

func NewPythonParser() *PythonParser { return &PythonParser{} }

func (p *PythonParser) Language() lang.Language { return lang.Python }

func (p *PythonParser) Extensions() []string {
	return lang.ForLanguage(lang.Python).FileExtensions
}

func (p *PythonParser) ParseFile(path string) (*schema.ParseResult, error) {
	return parseFile(p, path)
}

func (p *PythonParser) FindFiles(root string, excludePatterns []string) ([]string, error) {
	return findFiles([]lang.Language{lang.Python}, root, excludePatterns)
}

func (p *PythonParser) ParseSource(source []byte, relPath string) *schema.ParseResult {
	return parseWithWalker(lang.Python, source, relPath)
}

// pythonParameters reads a def's parameter list: plain, typed, defaulted,
// and splat forms. Bare * and / separators are skipped.
func pythonParameters(node *tree_sitter.Node, source []byte) []schema.Parameter {
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
		return nil
	}
	var params []schema.Parameter
	for i := uint(0); i < paramsNode.NamedChildCount(); i++ {
		child := paramsNode.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			params = append(params, schema.Parameter{Name: parser.NodeText(child, source)})
		case "typed_parameter":
			p := schema.Parameter{}
			if nameNode := child.NamedChild(0); nameNode != nil {
				p.Name = parser.NodeText(nameNode, source)
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				p.Type = parser.NodeText(typeNode, source)
			}
			params = append(params, p)
		case "default_parameter", "typed_default_parameter":
			p := schema.Parameter{}
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				p.Name = parser.NodeText(nameNode, source)
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				p.Type = parser.NodeText(typeNode, source)
			}
			if valNode := child.ChildByFieldName("value"); valNode != nil {
				p.Default = parser.NodeText(valNode, source)
			}
			params = append(params, p)
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, schema.Parameter{Name: parser.NodeText(child, source)})
		}
	}
	return params
}

func pythonBases(node *tree_sitter.Node, source []byte) []string {
	superNode := node.ChildByFieldName("superclasses")
	if superNode == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < superNode.NamedChildCount(); i++ {
		child := superNode.NamedChild(i)
		if child == nil || child.Kind() == "keyword_argument" {
			continue
		}
		if name := parser.NodeText(child, source); name != "" {
			bases = append(bases, name)
		}
	}
	return bases
}

// pythonClassMembers records class-level assignments as properties.
func pythonClassMembers(node *tree_sitter.Node, source []byte, cls *schema.Class) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt == nil || stmt.Kind() != "expression_statement" {
			continue
		}
		for j := uint(0); j < stmt.NamedChildCount(); j++ {
			child := stmt.NamedChild(j)
			if child == nil || child.Kind() != "assignment" {
				continue
			}
			left := child.ChildByFieldName("left")
			if left != nil && left.Kind() == "identifier" {
				cls.Properties = append(cls.Properties, parser.NodeText(left, source))
			}
		}
	}
}

func pythonImports(node *tree_sitter.Node, source []byte, file string, line int) []schema.Import {
	switch node.Kind() {
	case "import_statement":
		var imports []schema.Import
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "dotted_name":
				imports = append(imports, schema.Import{
					Module: parser.NodeText(child, source),
					File:   file,
					Line:   line,
					Style:  schema.ImportDirect,
				})
			case "aliased_import":
				imp := schema.Import{File: file, Line: line, Style: schema.ImportDirect}
				if nameNode := child.ChildByFieldName("name"); nameNode != nil {
					imp.Module = parser.NodeText(nameNode, source)
				}
				if aliasNode := child.ChildByFieldName("alias"); aliasNode != nil {
					imp.Alias = parser.NodeText(aliasNode, source)
				}
				if imp.Module != "" {
					imports = append(imports, imp)
				}
			}
		}
		return imports

	case "import_from_statement":
		moduleNode := node.ChildByFieldName("module_name")
		if moduleNode == nil {
			return nil
		}
		imp := schema.Import{
			Module: parser.NodeText(moduleNode, source),
			File:   file,
			Line:   line,
			Style:  schema.ImportSelective,
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child == nil || child.Id() == moduleNode.Id() {
				continue
			}
			switch child.Kind() {
			case "dotted_name":
				imp.Names = append(imp.Names, parser.NodeText(child, source))
			case "aliased_import":
				if nameNode := child.ChildByFieldName("name"); nameNode != nil {
					imp.Names = append(imp.Names, parser.NodeText(nameNode, source))
				}
			case "wildcard_import":
				imp.Names = append(imp.Names, "*")
			}
		}
		return []schema.Import{imp}
	}
	return nil
}

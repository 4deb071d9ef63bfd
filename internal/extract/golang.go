package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// GoParser extracts structure from Go source. Type declarations become
// class records; methods attach to their receiver's type.
type GoParser struct{}

func NewGoParser() *GoParser { return &GoParser{} }

func (p *GoParser) Language() lang.Language { return lang.Go }

func (p *GoParser) Extensions() []string {
	return lang.ForLanguage(lang.Go).FileExtensions
}

func (p *GoParser) ParseFile(path string) (*schema.ParseResult, error) {
	return parseFile(p, path)
}

func (p *GoParser) FindFiles(root string, excludePatterns []string) ([]string, error) {
	return findFiles([]lang.Language{lang.Go}, root, excludePatterns)
}

func (p *GoParser) ParseSource(source []byte, relPath string) *schema.ParseResult {
	return parseWithWalker(lang.Go, source, relPath)
}

func goReceiverType(node *tree_sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := uint(0); i < recv.NamedChildCount(); i++ {
		child := recv.NamedChild(i)
		if child != nil && child.Kind() == "parameter_declaration" {
			if typ := child.ChildByFieldName("type"); typ != nil {
				return cleanTypeName(parser.NodeText(typ, source))
			}
		}
	}
	return ""
}

// goParameters reads a parameter list. Grouped names (a, b int) yield one
// record per name; unnamed parameters keep only their type.
func goParameters(node *tree_sitter.Node, source []byte) []schema.Parameter {
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
		case "parameter_declaration", "variadic_parameter_declaration":
			typeText := ""
			if typ := child.ChildByFieldName("type"); typ != nil {
				typeText = strings.TrimSpace(parser.NodeText(typ, source))
			}
			if child.Kind() == "variadic_parameter_declaration" {
				typeText = "..." + typeText
			}
			named := false
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub == nil || child.FieldNameForChild(uint32(j)) != "name" {
					continue
				}
				named = true
				params = append(params, schema.Parameter{Name: parser.NodeText(sub, source), Type: typeText})
			}
			if !named && typeText != "" {
				params = append(params, schema.Parameter{Type: typeText})
			}
		}
	}
	return params
}

// goEmbeddedTypes treats embedded struct fields and embedded interfaces as
// base types.
func goEmbeddedTypes(node *tree_sitter.Node, source []byte) []string {
	typ := node.ChildByFieldName("type")
	if typ == nil {
		return nil
	}
	var bases []string
	add := func(n *tree_sitter.Node) {
		if name := cleanTypeName(parser.NodeText(n, source)); name != "" && isRefName(name) && !isBuiltinType(name) {
			bases = append(bases, name)
		}
	}
	switch typ.Kind() {
	case "struct_type":
		list := findChildByKind(typ, "field_declaration_list")
		if list == nil {
			return nil
		}
		for i := uint(0); i < list.NamedChildCount(); i++ {
			field := list.NamedChild(i)
			if field == nil || field.Kind() != "field_declaration" {
				continue
			}
			if field.ChildByFieldName("name") != nil {
				continue
			}
			if t := field.ChildByFieldName("type"); t != nil {
				add(t)
			}
		}
	case "interface_type":
		for i := uint(0); i < typ.NamedChildCount(); i++ {
			child := typ.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "type_elem", "type_identifier", "qualified_type":
				add(child)
			}
		}
	}
	return bases
}

// goTypeMembers records struct field names as properties and interface
// method names as methods.
func goTypeMembers(node *tree_sitter.Node, source []byte, cls *schema.Class) {
	typ := node.ChildByFieldName("type")
	if typ == nil {
		return
	}
	switch typ.Kind() {
	case "struct_type":
		list := findChildByKind(typ, "field_declaration_list")
		if list == nil {
			return
		}
		for i := uint(0); i < list.NamedChildCount(); i++ {
			field := list.NamedChild(i)
			if field == nil || field.Kind() != "field_declaration" {
				continue
			}
			for j := uint(0); j < field.ChildCount(); j++ {
				if field.FieldNameForChild(uint32(j)) != "name" {
					continue
				}
				if sub := field.Child(j); sub != nil {
					cls.Properties = append(cls.Properties, parser.NodeText(sub, source))
				}
			}
		}
	case "interface_type":
		for i := uint(0); i < typ.NamedChildCount(); i++ {
			child := typ.NamedChild(i)
			if child == nil || child.Kind() != "method_elem" {
				continue
			}
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				cls.Methods = append(cls.Methods, parser.NodeText(nameNode, source))
			}
		}
	}
}

func goImports(node *tree_sitter.Node, source []byte, file string, lineOff int) []schema.Import {
	var imports []schema.Import
	parser.Walk(node, func(n *tree_sitter.Node) bool {
		if n.Kind() != "import_spec" {
			return true
		}
		imp := schema.Import{
			File:  file,
			Line:  safeRowToLine(n.StartPosition().Row) + lineOff,
			Style: schema.ImportDirect,
		}
		if pathNode := n.ChildByFieldName("path"); pathNode != nil {
			imp.Module = stripStringQuotes(parser.NodeText(pathNode, source))
		}
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			imp.Alias = parser.NodeText(nameNode, source)
		}
		if imp.Module != "" {
			imports = append(imports, imp)
		}
		return false
	})
	return imports
}

package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// JavaScriptParser extracts structure from JavaScript and JSX source.
type JavaScriptParser struct{}

func NewJavaScriptParser() *JavaScriptParser { return &JavaScriptParser{} }

func (p *JavaScriptParser) Language() lang.Language { return lang.JavaScript }

func (p *JavaScriptParser) Extensions() []string {
	return lang.ForLanguage(lang.JavaScript).FileExtensions
}

func (p *JavaScriptParser) ParseFile(path string) (*schema.ParseResult, error) {
	return parseFile(p, path)
}

func (p *JavaScriptParser) FindFiles(root string, excludePatterns []string) ([]string, error) {
	return findFiles([]lang.Language{lang.JavaScript}, root, excludePatterns)
}

func (p *JavaScriptParser) ParseSource(source []byte, relPath string) *schema.ParseResult {
	return parseWithWalker(lang.JavaScript, source, relPath)
}

// assignedName recovers a name for function and class expressions from the
// surrounding declaration: const f = () => {}, obj = { f() {} }, class
// fields, module.exports assignments.
func assignedName(node *tree_sitter.Node, source []byte) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Kind() {
	case "variable_declarator", "public_field_definition", "field_definition", "property_signature":
		if nameNode := parent.ChildByFieldName("name"); nameNode != nil {
			return parser.NodeText(nameNode, source)
		}
	case "pair":
		if keyNode := parent.ChildByFieldName("key"); keyNode != nil {
			return strings.Trim(parser.NodeText(keyNode, source), `"'`)
		}
	case "assignment_expression":
		if leftNode := parent.ChildByFieldName("left"); leftNode != nil {
			name := strings.TrimPrefix(parser.NodeText(leftNode, source), "this.")
			if isRefName(name) {
				return name
			}
		}
	}
	return ""
}

func jsParameters(node *tree_sitter.Node, source []byte) []schema.Parameter {
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
		// single-identifier arrow: x => x + 1
		if p := node.ChildByFieldName("parameter"); p != nil {
			return []schema.Parameter{{Name: parser.NodeText(p, source)}}
		}
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
		case "assignment_pattern":
			p := schema.Parameter{}
			if left := child.ChildByFieldName("left"); left != nil {
				p.Name = parser.NodeText(left, source)
			}
			if right := child.ChildByFieldName("right"); right != nil {
				p.Default = parser.NodeText(right, source)
			}
			params = append(params, p)
		case "rest_pattern", "object_pattern", "array_pattern":
			params = append(params, schema.Parameter{Name: parser.NodeText(child, source)})
		}
	}
	return params
}

// jsBases reads extends/implements clauses. The JavaScript grammar puts bare
// expressions directly under class_heritage; TypeScript wraps them in
// extends_clause and implements_clause, and interfaces use
// extends_type_clause.
func jsBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	addClean := func(n *tree_sitter.Node) {
		if name := cleanTypeName(parser.NodeText(n, source)); name != "" && isRefName(name) {
			bases = append(bases, name)
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "class_heritage":
			for j := uint(0); j < child.ChildCount(); j++ {
				h := child.Child(j)
				if h == nil {
					continue
				}
				switch h.Kind() {
				case "extends_clause", "implements_clause":
					for k := uint(0); k < h.NamedChildCount(); k++ {
						if c := h.NamedChild(k); c != nil {
							addClean(c)
						}
					}
				case "identifier", "member_expression":
					if name := parser.NodeText(h, source); name != "" {
						bases = append(bases, name)
					}
				}
			}
		case "extends_type_clause":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if c := child.NamedChild(j); c != nil {
					addClean(c)
				}
			}
		}
	}
	return bases
}

// jsClassMembers records declared fields as properties and bodyless method
// signatures as methods. Fields holding function values surface as methods
// through the walk instead.
func jsClassMembers(node *tree_sitter.Node, source []byte, fieldKinds []string, cls *schema.Class) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	kinds := toSet(fieldKinds)
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child == nil {
			continue
		}
		switch {
		case kinds[child.Kind()]:
			if v := child.ChildByFieldName("value"); v != nil && (v.Kind() == "arrow_function" || v.Kind() == "function_expression") {
				continue
			}
			// TypeScript's public_field_definition labels the name "name";
			// JavaScript's field_definition labels it "property".
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				nameNode = child.ChildByFieldName("property")
			}
			if nameNode != nil {
				cls.Properties = append(cls.Properties, parser.NodeText(nameNode, source))
			}
		case child.Kind() == "method_signature" || child.Kind() == "abstract_method_signature":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				cls.Methods = append(cls.Methods, parser.NodeText(nameNode, source))
			}
		case child.Kind() == "enum_assignment":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				cls.Properties = append(cls.Properties, parser.NodeText(nameNode, source))
			}
		case child.Kind() == "property_identifier":
			// bare enum member
			cls.Properties = append(cls.Properties, parser.NodeText(child, source))
		}
	}
}

func jsImports(node *tree_sitter.Node, source []byte, file string, line int) []schema.Import {
	imp := schema.Import{File: file, Line: line, Style: schema.ImportDirect}
	if src := node.ChildByFieldName("source"); src != nil {
		imp.Module = stripStringQuotes(parser.NodeText(src, source))
	} else if str := findChildByKind(node, "string"); str != nil {
		// side-effect import: import "polyfill"
		imp.Module = stripStringQuotes(parser.NodeText(str, source))
	}
	if imp.Module == "" {
		return nil
	}
	clause := findChildByKind(node, "import_clause")
	if clause == nil {
		return []schema.Import{imp}
	}
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			// default import
			imp.Alias = parser.NodeText(child, source)
		case "namespace_import":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if c := child.NamedChild(j); c != nil && c.Kind() == "identifier" {
					imp.Alias = parser.NodeText(c, source)
				}
			}
		case "named_imports":
			imp.Style = schema.ImportSelective
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
					imp.Names = append(imp.Names, parser.NodeText(nameNode, source))
				}
			}
		}
	}
	return []schema.Import{imp}
}

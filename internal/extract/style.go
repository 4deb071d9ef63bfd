package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// StyleParser extracts structure from CSS and SCSS. Rule sets become class
// records named by selector; SCSS mixins and functions become function
// records, and @include sites are their call sites.
type StyleParser struct{}

func NewStyleParser() *StyleParser { return &StyleParser{} }

func (p *StyleParser) Language() lang.Language { return lang.CSS }

func (p *StyleParser) Extensions() []string {
	return []string{".css", ".scss"}
}

func (p *StyleParser) ParseFile(path string) (*schema.ParseResult, error) {
	return parseFile(p, path)
}

func (p *StyleParser) FindFiles(root string, excludePatterns []string) ([]string, error) {
	return findFiles([]lang.Language{lang.CSS, lang.SCSS}, root, excludePatterns)
}

func (p *StyleParser) ParseSource(source []byte, relPath string) *schema.ParseResult {
	l := lang.CSS
	if strings.HasSuffix(relPath, ".scss") {
		l = lang.SCSS
	}
	return parseWithWalker(l, source, relPath)
}

// styleClassName names stylesheet constructs: rule sets by normalized
// selector text, at-rules by keyword and argument.
func styleClassName(node *tree_sitter.Node, source []byte) string {
	switch node.Kind() {
	case "rule_set":
		if sel := findChildByKind(node, "selectors"); sel != nil {
			return strings.Join(strings.Fields(parser.NodeText(sel, source)), " ")
		}
	case "media_statement":
		text := parser.NodeText(node, source)
		if i := strings.IndexByte(text, '{'); i > 0 {
			text = text[:i]
		}
		return strings.Join(strings.Fields(text), " ")
	case "keyframes_statement":
		if name := findChildByKind(node, "keyframes_name"); name != nil {
			return "@keyframes " + parser.NodeText(name, source)
		}
	}
	return ""
}

// scssDefName names a mixin or function definition. The grammar exposes the
// name as a plain child, not a field.
func scssDefName(node *tree_sitter.Node, source []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, source)
	}
	for _, kind := range []string{"name", "identifier"} {
		if nameNode := findChildByKind(node, kind); nameNode != nil {
			return parser.NodeText(nameNode, source)
		}
	}
	return ""
}

func scssParameters(node *tree_sitter.Node, source []byte) []schema.Parameter {
	paramsNode := findChildByKind(node, "parameters")
	if paramsNode == nil {
		return nil
	}
	var params []schema.Parameter
	for i := uint(0); i < paramsNode.NamedChildCount(); i++ {
		child := paramsNode.NamedChild(i)
		if child == nil || child.Kind() != "parameter" {
			continue
		}
		p := schema.Parameter{}
		if v := findChildByKind(child, "variable"); v != nil {
			p.Name = parser.NodeText(v, source)
		} else {
			p.Name = strings.TrimSpace(parser.NodeText(child, source))
		}
		if def := findChildByKind(child, "default_value"); def != nil {
			p.Default = parser.NodeText(def, source)
		}
		params = append(params, p)
	}
	return params
}

// scssCallee names a mixin inclusion or stylesheet function call.
func scssCallee(node *tree_sitter.Node, source []byte) (string, string) {
	switch node.Kind() {
	case "include_statement":
		if id := findChildByKind(node, "identifier"); id != nil {
			return parser.NodeText(id, source), schema.KindCall
		}
	case "call_expression":
		if fn := findChildByKind(node, "function_name"); fn != nil {
			if name := parser.NodeText(fn, source); isRefName(name) {
				return name, schema.KindCall
			}
		}
	}
	return "", ""
}

// styleImports reads @import and @use targets.
func styleImports(node *tree_sitter.Node, source []byte, file string, line int) []schema.Import {
	imp := schema.Import{File: file, Line: line, Style: schema.ImportDirect}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string_value":
			if imp.Module == "" {
				imp.Module = strings.Trim(parser.NodeText(child, source), `"'`)
			}
		case "call_expression":
			// @import url(...)
			if imp.Module == "" {
				if args := findChildByKind(child, "arguments"); args != nil && args.NamedChildCount() > 0 {
					imp.Module = strings.Trim(parser.NodeText(args.NamedChild(0), source), `"'`)
				}
			}
		case "identifier":
			// @use "..." as alias
			imp.Alias = parser.NodeText(child, source)
		}
	}
	if imp.Module == "" {
		return nil
	}
	return []schema.Import{imp}
}

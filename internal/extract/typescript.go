package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// TypeScriptParser extracts structure from TypeScript and TSX source. The
// two share extraction logic but parse with different grammars.
type TypeScriptParser struct{}

func NewTypeScriptParser() *TypeScriptParser { return &TypeScriptParser{} }

func (p *TypeScriptParser) Language() lang.Language { return lang.TypeScript }

func (p *TypeScriptParser) Extensions() []string {
	return []string{".ts", ".tsx"}
}

func (p *TypeScriptParser) ParseFile(path string) (*schema.ParseResult, error) {
	return parseFile(p, path)
}

func (p *TypeScriptParser) FindFiles(root string, excludePatterns []string) ([]string, error) {
	return findFiles([]lang.Language{lang.TypeScript, lang.TSX}, root, excludePatterns)
}

func (p *TypeScriptParser) ParseSource(source []byte, relPath string) *schema.ParseResult {
	l := lang.TypeScript
	if strings.HasSuffix(relPath, ".tsx") {
		l = lang.TSX
	}
	return parseWithWalker(l, source, relPath)
}

// tsParameters reads required and optional parameters with their type
// annotations and defaults.
func tsParameters(node *tree_sitter.Node, source []byte) []schema.Parameter {
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
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
		case "required_parameter", "optional_parameter":
			p := schema.Parameter{}
			if pat := child.ChildByFieldName("pattern"); pat != nil {
				p.Name = parser.NodeText(pat, source)
			}
			if typeAnn := findChildByKind(child, "type_annotation"); typeAnn != nil {
				p.Type = annotationText(typeAnn, source)
			}
			if val := child.ChildByFieldName("value"); val != nil {
				p.Default = parser.NodeText(val, source)
			}
			params = append(params, p)
		case "identifier":
			params = append(params, schema.Parameter{Name: parser.NodeText(child, source)})
		}
	}
	return params
}

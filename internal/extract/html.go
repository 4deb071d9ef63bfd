package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// HTMLParser extracts structure from HTML documents. Script and stylesheet
// references become imports; inline script and style bodies are re-parsed
// with the JavaScript and CSS grammars at their line offset in the document,
// so entities extracted from them carry document line numbers.
type HTMLParser struct{}

func NewHTMLParser() *HTMLParser { return &HTMLParser{} }

func (p *HTMLParser) Language() lang.Language { return lang.HTML }

func (p *HTMLParser) Extensions() []string {
	return lang.ForLanguage(lang.HTML).FileExtensions
}

func (p *HTMLParser) ParseFile(path string) (*schema.ParseResult, error) {
	return parseFile(p, path)
}

func (p *HTMLParser) FindFiles(root string, excludePatterns []string) ([]string, error) {
	return findFiles([]lang.Language{lang.HTML}, root, excludePatterns)
}

func (p *HTMLParser) ParseSource(source []byte, relPath string) *schema.ParseResult {
	result := schema.NewParseResult()
	tree, err := parser.Parse(lang.HTML, source)
	if err != nil {
		result.AddWarning(relPath, 0, schema.WarnParse, err.Error())
		result.Errors++
		return result
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		result.AddWarning(relPath, 0, schema.WarnParse, "syntax errors present, extraction may be incomplete")
	}

	module := newModule(relPath, lang.HTML, source)

	parser.Walk(root, func(node *tree_sitter.Node) bool {
		switch node.Kind() {
		case "script_element":
			line := safeRowToLine(node.StartPosition().Row)
			if src := elementAttr(node, source, "src"); src != "" {
				module.Imports = append(module.Imports, schema.Import{
					Module: src, File: relPath, Line: line, Style: schema.ImportDirect,
				})
				return false
			}
			if raw := findChildByKind(node, "raw_text"); raw != nil {
				embedScript(lang.JavaScript, raw, source, module, result)
			}
			return false

		case "style_element":
			if raw := findChildByKind(node, "raw_text"); raw != nil {
				embedScript(lang.CSS, raw, source, module, result)
			}
			return false

		case "element":
			if tagName(node, source) == "link" && strings.EqualFold(elementAttr(node, source, "rel"), "stylesheet") {
				if href := elementAttr(node, source, "href"); href != "" {
					module.Imports = append(module.Imports, schema.Import{
						Module: href,
						File:   relPath,
						Line:   safeRowToLine(node.StartPosition().Row),
						Style:  schema.ImportDirect,
					})
				}
			}
		}
		return true
	})

	attachMethods(module)
	result.AddModule(module)
	return result
}

// embedScript parses an inline script or style block with the embedded
// language's grammar. Entities land on the host module with document line
// numbers; a block that fails to parse is skipped silently since the host
// document already parsed.
func embedScript(l lang.Language, raw *tree_sitter.Node, source []byte, module *schema.Module, result *schema.ParseResult) {
	embedded := []byte(parser.NodeText(raw, source))
	if len(strings.TrimSpace(string(embedded))) == 0 {
		return
	}
	tree, err := parser.Parse(l, embedded)
	if err != nil {
		return
	}
	defer tree.Close()

	w := newWalker(l, embedded, module, result, int(raw.StartPosition().Row))
	w.walkNode(tree.RootNode(), "", nil)
}

func tagName(element *tree_sitter.Node, source []byte) string {
	tag := startTag(element)
	if tag == nil {
		return ""
	}
	if name := findChildByKind(tag, "tag_name"); name != nil {
		return strings.ToLower(parser.NodeText(name, source))
	}
	return ""
}

func startTag(element *tree_sitter.Node) *tree_sitter.Node {
	if tag := findChildByKind(element, "start_tag"); tag != nil {
		return tag
	}
	return findChildByKind(element, "self_closing_tag")
}

// elementAttr returns the value of a named attribute, or "".
func elementAttr(element *tree_sitter.Node, source []byte, name string) string {
	tag := startTag(element)
	if tag == nil {
		return ""
	}
	for i := uint(0); i < tag.NamedChildCount(); i++ {
		attr := tag.NamedChild(i)
		if attr == nil || attr.Kind() != "attribute" {
			continue
		}
		nameNode := findChildByKind(attr, "attribute_name")
		if nameNode == nil || !strings.EqualFold(parser.NodeText(nameNode, source), name) {
			continue
		}
		if quoted := findChildByKind(attr, "quoted_attribute_value"); quoted != nil {
			if val := findChildByKind(quoted, "attribute_value"); val != nil {
				return parser.NodeText(val, source)
			}
			return strings.Trim(parser.NodeText(quoted, source), `"'`)
		}
		if val := findChildByKind(attr, "attribute_value"); val != nil {
			return parser.NodeText(val, source)
		}
	}
	return ""
}

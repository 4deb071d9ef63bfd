package extract

import (
	"bytes"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
)

// extractDocstring pulls the documentation for a definition node. Python
// reads the first string statement in the body; comment languages scan
// source lines backwards from the definition.
func extractDocstring(node *tree_sitter.Node, source []byte, language lang.Language) string {
	switch language {
	case lang.Python:
		return extractPythonDocstring(node, source)
	case lang.Go, lang.JavaScript, lang.TypeScript, lang.TSX, lang.CSS, lang.SCSS:
		return extractCommentDocstring(source, int(node.StartPosition().Row), language)
	}
	return ""
}

// extractModuleDocstring pulls file-level documentation: the PEP 257 module
// string for Python, the comment block above the first real statement
// elsewhere.
func extractModuleDocstring(root *tree_sitter.Node, source []byte, language lang.Language) string {
	if language == lang.Python {
		if root.NamedChildCount() == 0 {
			return ""
		}
		first := root.NamedChild(0)
		if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
			return ""
		}
		strNode := first.NamedChild(0)
		if strNode == nil || strNode.Kind() != "string" {
			return ""
		}
		return stripStringQuotes(parser.NodeText(strNode, source))
	}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		return extractCommentDocstring(source, int(child.StartPosition().Row), language)
	}
	return ""
}

func extractPythonDocstring(node *tree_sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	strNode := first.NamedChild(0)
	if strNode == nil || strNode.Kind() != "string" {
		return ""
	}
	return stripStringQuotes(parser.NodeText(strNode, source))
}

// extractCommentDocstring scans backwards from startRow for doc comments
// directly above the definition. A blank separator line means no docs.
func extractCommentDocstring(source []byte, startRow int, language lang.Language) string {
	lines := bytes.Split(source, []byte("\n"))
	if startRow <= 0 || startRow > len(lines) {
		return ""
	}

	lineIdx := startRow - 1
	trimmed := strings.TrimSpace(string(lines[lineIdx]))
	if trimmed == "" {
		return ""
	}

	if strings.HasSuffix(trimmed, "*/") {
		return extractBlockComment(lines, lineIdx)
	}

	prefix := docLinePrefix(language)
	if prefix != "" && strings.HasPrefix(trimmed, prefix) {
		return extractLineComments(lines, lineIdx, prefix)
	}
	return ""
}

func docLinePrefix(language lang.Language) string {
	switch language {
	case lang.Go, lang.JavaScript, lang.TypeScript, lang.TSX, lang.SCSS:
		return "//"
	}
	return ""
}

// extractLineComments collects the contiguous run of prefix comment lines
// ending at endLineIdx.
func extractLineComments(lines [][]byte, endLineIdx int, prefix string) string {
	startIdx := endLineIdx
	for startIdx >= 0 {
		line := strings.TrimSpace(string(lines[startIdx]))
		if !strings.HasPrefix(line, prefix) {
			break
		}
		startIdx--
	}
	startIdx++

	var cleaned []string
	for i := startIdx; i <= endLineIdx; i++ {
		line := strings.TrimSpace(string(lines[i]))
		line = strings.TrimPrefix(line, prefix)
		cleaned = append(cleaned, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// extractBlockComment scans backwards from endLineIdx to the opening /* of
// the block ending there.
func extractBlockComment(lines [][]byte, endLineIdx int) string {
	startIdx := endLineIdx
	for startIdx >= 0 {
		line := strings.TrimSpace(string(lines[startIdx]))
		if strings.HasPrefix(line, "/*") {
			break
		}
		startIdx--
	}
	if startIdx < 0 {
		return ""
	}

	var result []string
	for i := startIdx; i <= endLineIdx; i++ {
		result = append(result, string(lines[i]))
	}
	return cleanBlockComment(strings.Join(result, "\n"))
}

// cleanBlockComment strips /** ... */ delimiters and leading * prefixes.
func cleanBlockComment(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/**") {
		s = s[3:]
	} else if strings.HasPrefix(s, "/*") {
		s = s[2:]
	}
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimPrefix(line, "*")
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// stripStringQuotes removes string literal delimiters and Python string
// prefixes (r, b, u, f in either case).
func stripStringQuotes(s string) string {
	s = strings.TrimSpace(s)
	for len(s) > 0 {
		switch s[0] {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
			s = s[1:]
			continue
		}
		break
	}
	for _, delim := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) && len(s) >= 6 {
			return s[3 : len(s)-3]
		}
	}
	for _, delim := range []string{`"`, `'`, "`"} {
		if strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) && len(s) >= 2 {
			return s[1 : len(s)-1]
		}
	}
	return s
}

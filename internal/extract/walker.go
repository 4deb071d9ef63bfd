package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codebase-atlas/internal/lang"
	"github.com/DeusData/codebase-atlas/internal/parser"
	"github.com/DeusData/codebase-atlas/internal/schema"
)

// walker turns one parsed tree into schema records for a single module. It
// carries the node-kind vocabulary of the module's language plus the line
// offset applied when the source is embedded in a host document.
type walker struct {
	lang    lang.Language
	spec    *lang.LanguageSpec
	source  []byte
	module  *schema.Module
	result  *schema.ParseResult
	lineOff int

	funcKinds      map[string]bool
	classKinds     map[string]bool
	callKinds      map[string]bool
	importKinds    map[string]bool
	decoratorKinds map[string]bool
	branchKinds    map[string]bool
	boolKinds      map[string]bool
	boolOps        map[string]bool
}

func newWalker(l lang.Language, source []byte, module *schema.Module, result *schema.ParseResult, lineOff int) *walker {
	spec := lang.ForLanguage(l)
	return &walker{
		lang:    l,
		spec:    spec,
		source:  source,
		module:  module,
		result:  result,
		lineOff: lineOff,

		funcKinds:      toSet(spec.FunctionNodeTypes),
		classKinds:     toSet(spec.ClassNodeTypes),
		callKinds:      toSet(spec.CallNodeTypes),
		importKinds:    toSet(append(append([]string{}, spec.ImportNodeTypes...), spec.ImportFromTypes...)),
		decoratorKinds: toSet(spec.DecoratorNodeTypes),
		branchKinds:    toSet(spec.BranchingNodeTypes),
		boolKinds:      toSet(spec.BooleanExprKinds),
		boolOps:        toSet(spec.BooleanOperators),
	}
}

// parseWithWalker is the shared ParseSource body for languages served by the
// generic walker. A tree that fails to parse yields a warning, never an error
// return; a tree with syntax errors is still walked for partial extraction.
func parseWithWalker(l lang.Language, source []byte, relPath string) *schema.ParseResult {
	result := schema.NewParseResult()
	tree, err := parser.Parse(l, source)
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

	module := newModule(relPath, l, source)
	w := newWalker(l, source, module, result, 0)
	w.run(root)
	result.AddModule(module)
	return result
}

func (w *walker) run(root *tree_sitter.Node) {
	w.module.Docstring = docExcerpt(extractModuleDocstring(root, w.source, w.lang))
	w.walkNode(root, "", nil)
	attachMethods(w.module)
}

// walkNode is the extraction core. owner names the class whose body is being
// walked; encl is the innermost named function, the entity call sites are
// attributed to. Module-level sites land on Module.Refs.
func (w *walker) walkNode(node *tree_sitter.Node, owner string, encl *schema.Function) {
	kind := node.Kind()

	switch {
	case w.decoratorKinds[kind]:
		// Decorator names are captured on the decorated entity. Call
		// expressions inside decorator arguments are not call sites.
		return

	case w.classKinds[kind]:
		if cls := w.extractClass(node); cls != nil {
			w.module.Classes = append(w.module.Classes, cls)
			for i := uint(0); i < node.NamedChildCount(); i++ {
				w.walkNode(node.NamedChild(i), cls.Name, nil)
			}
			return
		}

	case w.funcKinds[kind]:
		if fn := w.extractFunction(node, owner); fn != nil {
			w.module.Functions = append(w.module.Functions, fn)
			// Nested definitions are plain functions, not methods.
			for i := uint(0); i < node.NamedChildCount(); i++ {
				w.walkNode(node.NamedChild(i), "", fn)
			}
			return
		}
		// Anonymous function: its body still belongs to the enclosing entity.

	case w.callKinds[kind]:
		w.recordCall(node, encl)
		// Keep walking: arguments may contain further call sites.

	case w.importKinds[kind]:
		w.recordImport(node)
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		w.walkNode(node.NamedChild(i), owner, encl)
	}
}

func (w *walker) line(node *tree_sitter.Node) int {
	return safeRowToLine(node.StartPosition().Row) + w.lineOff
}

func (w *walker) endLine(node *tree_sitter.Node) int {
	return safeRowToLine(node.EndPosition().Row) + w.lineOff
}

func (w *walker) extractFunction(node *tree_sitter.Node, owner string) *schema.Function {
	name := w.functionName(node)
	if name == "" {
		return nil
	}
	if recv := w.receiverType(node); recv != "" {
		owner = recv
	}
	fn := &schema.Function{
		Name:       name,
		Owner:      owner,
		Parameters: w.parameters(node),
		ReturnType: w.returnType(node),
		File:       w.module.File,
		StartLine:  w.line(node),
		EndLine:    w.endLine(node),
		Complexity: w.complexity(node),
		Decorators: w.decoratorNames(node),
		Docstring:  docExcerpt(extractDocstring(node, w.source, w.lang)),
	}
	return fn
}

func (w *walker) extractClass(node *tree_sitter.Node) *schema.Class {
	name := w.className(node)
	if name == "" {
		return nil
	}
	cls := &schema.Class{
		Name:      name,
		Bases:     w.baseClasses(node),
		File:      w.module.File,
		StartLine: w.line(node),
		EndLine:   w.endLine(node),
		Docstring: docExcerpt(extractDocstring(node, w.source, w.lang)),
	}
	w.classMembers(node, cls)
	return cls
}

// recordCall appends one reference for a call or instantiation site. The
// site kind is structural here; resolution against known classes may upgrade
// a call to an instantiation later.
func (w *walker) recordCall(node *tree_sitter.Node, encl *schema.Function) {
	name, kind := w.calleeOf(node)
	if name == "" {
		return
	}
	if w.recordImportCall(node, name) {
		return
	}
	ref := schema.Reference{
		Name: name,
		File: w.module.File,
		Line: w.line(node),
		Kind: kind,
	}
	if encl != nil {
		encl.Calls = append(encl.Calls, ref)
		return
	}
	w.module.Refs = append(w.module.Refs, ref)
}

// recordImportCall turns require()/import()/__import__()-style calls into
// import records. A literal argument is an ordinary import; anything else is
// a dynamic one whose target cannot be known statically.
func (w *walker) recordImportCall(node *tree_sitter.Node, callee string) bool {
	if len(w.spec.DynamicImportCalls) == 0 {
		return false
	}
	match := false
	for _, dyn := range w.spec.DynamicImportCalls {
		if callee == dyn {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	imp := schema.Import{
		File: w.module.File,
		Line: w.line(node),
	}
	if arg := firstCallArgument(node); arg != nil && isStringNode(arg.Kind()) {
		imp.Module = stripStringQuotes(parser.NodeText(arg, w.source))
		imp.Style = schema.ImportDirect
	} else {
		if arg != nil {
			imp.Module = parser.NodeText(arg, w.source)
		}
		imp.Style = schema.ImportDynamic
	}
	if imp.Module != "" {
		w.module.Imports = append(w.module.Imports, imp)
	}
	return true
}

func firstCallArgument(node *tree_sitter.Node) *tree_sitter.Node {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		args = findChildByKind(node, "argument_list")
	}
	if args == nil {
		args = findChildByKind(node, "arguments")
	}
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	return args.NamedChild(0)
}

func isStringNode(kind string) bool {
	return kind == "string" || kind == "string_literal" || kind == "interpreted_string_literal" || kind == "template_string"
}

func (w *walker) recordImport(node *tree_sitter.Node) {
	switch w.lang {
	case lang.Python:
		w.module.Imports = append(w.module.Imports, pythonImports(node, w.source, w.module.File, w.line(node))...)
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		w.module.Imports = append(w.module.Imports, jsImports(node, w.source, w.module.File, w.line(node))...)
	case lang.Go:
		w.module.Imports = append(w.module.Imports, goImports(node, w.source, w.module.File, w.lineOff)...)
	case lang.CSS, lang.SCSS:
		w.module.Imports = append(w.module.Imports, styleImports(node, w.source, w.module.File, w.line(node))...)
	}
}

// complexity counts branching constructs inside a function body, plus one
// for the function itself. Nodes of nested named functions are excluded;
// their branches count toward their own score.
func (w *walker) complexity(funcNode *tree_sitter.Node) int {
	count := 1
	parser.Walk(funcNode, func(node *tree_sitter.Node) bool {
		if node.Id() != funcNode.Id() && w.funcKinds[node.Kind()] && w.namedFunction(node) {
			return false
		}
		kind := node.Kind()
		switch {
		case w.branchKinds[kind]:
			count++
		case w.boolKinds[kind]:
			if len(w.boolOps) == 0 {
				count++
			} else if op := node.ChildByFieldName("operator"); op != nil && w.boolOps[parser.NodeText(op, w.source)] {
				count++
			}
		}
		return true
	})
	return count
}

// namedFunction reports whether a function node would be extracted as its
// own entity. Anonymous closures stay part of the enclosing function.
func (w *walker) namedFunction(node *tree_sitter.Node) bool {
	return w.functionName(node) != ""
}

func (w *walker) functionName(node *tree_sitter.Node) string {
	switch w.lang {
	case lang.SCSS:
		return scssDefName(node, w.source)
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, w.source)
	}
	switch w.lang {
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return assignedName(node, w.source)
	}
	return ""
}

func (w *walker) receiverType(node *tree_sitter.Node) string {
	if w.lang == lang.Go && node.Kind() == "method_declaration" {
		return goReceiverType(node, w.source)
	}
	return ""
}

func (w *walker) className(node *tree_sitter.Node) string {
	switch w.lang {
	case lang.CSS, lang.SCSS:
		return styleClassName(node, w.source)
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, w.source)
	}
	switch w.lang {
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return assignedName(node, w.source)
	}
	return ""
}

func (w *walker) baseClasses(node *tree_sitter.Node) []string {
	switch w.lang {
	case lang.Python:
		return pythonBases(node, w.source)
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return jsBases(node, w.source)
	case lang.Go:
		return goEmbeddedTypes(node, w.source)
	}
	return nil
}

// classMembers fills Properties (and for bodyless declarations, Methods)
// from the class body. Method bodies become Function records during the walk
// and are attached by attachMethods.
func (w *walker) classMembers(node *tree_sitter.Node, cls *schema.Class) {
	switch w.lang {
	case lang.Python:
		pythonClassMembers(node, w.source, cls)
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		jsClassMembers(node, w.source, w.spec.FieldNodeTypes, cls)
	case lang.Go:
		goTypeMembers(node, w.source, cls)
	}
}

func (w *walker) parameters(node *tree_sitter.Node) []schema.Parameter {
	switch w.lang {
	case lang.Python:
		return pythonParameters(node, w.source)
	case lang.JavaScript:
		return jsParameters(node, w.source)
	case lang.TypeScript, lang.TSX:
		return tsParameters(node, w.source)
	case lang.Go:
		return goParameters(node, w.source)
	case lang.SCSS:
		return scssParameters(node, w.source)
	}
	return nil
}

func (w *walker) returnType(node *tree_sitter.Node) string {
	switch w.lang {
	case lang.Python:
		if rt := node.ChildByFieldName("return_type"); rt != nil {
			return strings.TrimSpace(parser.NodeText(rt, w.source))
		}
	case lang.TypeScript, lang.TSX:
		if rt := node.ChildByFieldName("return_type"); rt != nil {
			return annotationText(rt, w.source)
		}
	case lang.Go:
		if rt := node.ChildByFieldName("result"); rt != nil {
			return strings.TrimSpace(parser.NodeText(rt, w.source))
		}
	}
	return ""
}

func (w *walker) calleeOf(node *tree_sitter.Node) (string, string) {
	switch w.lang {
	case lang.Python:
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return "", ""
		}
		name := parser.NodeText(fn, w.source)
		name = strings.TrimPrefix(name, "self.")
		name = strings.TrimPrefix(name, "cls.")
		if !isRefName(name) {
			return "", ""
		}
		return name, schema.KindCall

	case lang.JavaScript, lang.TypeScript, lang.TSX:
		if node.Kind() == "new_expression" {
			ctor := node.ChildByFieldName("constructor")
			if ctor == nil {
				return "", ""
			}
			name := parser.NodeText(ctor, w.source)
			if !isRefName(name) {
				return "", ""
			}
			return name, schema.KindInstantiation
		}
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return "", ""
		}
		name := parser.NodeText(fn, w.source)
		name = strings.ReplaceAll(name, "?.", ".")
		name = strings.TrimPrefix(name, "this.")
		if !isRefName(name) {
			return "", ""
		}
		return name, schema.KindCall

	case lang.Go:
		if node.Kind() == "composite_literal" {
			typ := node.ChildByFieldName("type")
			if typ == nil {
				return "", ""
			}
			name := cleanTypeName(parser.NodeText(typ, w.source))
			if !isRefName(name) || isBuiltinType(name) {
				return "", ""
			}
			return name, schema.KindInstantiation
		}
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return "", ""
		}
		name := parser.NodeText(fn, w.source)
		if !isRefName(name) {
			return "", ""
		}
		return name, schema.KindCall

	case lang.SCSS:
		return scssCallee(node, w.source)
	}
	return "", ""
}

// decoratorNames collects decorator texts attached to a definition: children
// of the node itself, children of a wrapping decorated_definition, and
// immediately preceding siblings. The three layouts cover Python and the
// TypeScript grammar family.
func (w *walker) decoratorNames(node *tree_sitter.Node) []string {
	if len(w.decoratorKinds) == 0 {
		return nil
	}
	var names []string
	add := func(n *tree_sitter.Node) {
		text := strings.TrimPrefix(parser.NodeText(n, w.source), "@")
		if i := strings.IndexByte(text, '('); i >= 0 {
			text = text[:i]
		}
		if text = strings.TrimSpace(text); text != "" {
			names = append(names, text)
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && w.decoratorKinds[child.Kind()] {
			add(child)
		}
	}
	if parent := node.Parent(); parent != nil && parent.Kind() == "decorated_definition" {
		// Inside the wrapper the decorators are also the definition's
		// preceding siblings; scanning both would record each twice.
		for i := uint(0); i < parent.NamedChildCount(); i++ {
			if child := parent.NamedChild(i); child != nil && w.decoratorKinds[child.Kind()] {
				add(child)
			}
		}
	} else {
		for sib := node.PrevNamedSibling(); sib != nil && w.decoratorKinds[sib.Kind()]; sib = sib.PrevNamedSibling() {
			add(sib)
		}
	}
	return names
}

// attachMethods links extracted functions back to their owning class by
// name. Go methods declared away from the type land here too.
func attachMethods(module *schema.Module) {
	if len(module.Classes) == 0 {
		return
	}
	byName := make(map[string]*schema.Class, len(module.Classes))
	for _, c := range module.Classes {
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = c
		}
	}
	for _, f := range module.Functions {
		if f.Owner == "" {
			continue
		}
		if c, ok := byName[f.Owner]; ok {
			c.Methods = append(c.Methods, f.Name)
		}
	}
}

// isRefName reports whether text is a plausible dotted reference name rather
// than an arbitrary expression. Hyphens appear in stylesheet function names,
// $ in JavaScript identifiers.
func isRefName(s string) bool {
	if s == "" || len(s) > 200 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '$' || c == '-':
		default:
			return false
		}
	}
	return true
}

// cleanTypeName strips pointers, slices, and generic parameters down to the
// base type name.
func cleanTypeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ": ")
	s = strings.TrimPrefix(s, ":")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "*")
	s = strings.TrimPrefix(s, "&")
	s = strings.TrimPrefix(s, "[]")
	s = strings.TrimPrefix(s, "...")
	if idx := strings.Index(s, "<"); idx > 0 {
		s = s[:idx]
	}
	if idx := strings.Index(s, "["); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// isBuiltinType returns true for primitive names not worth tracking as
// instantiation targets.
func isBuiltinType(name string) bool {
	switch name {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64", "complex64", "complex128",
		"string", "str", "bool", "boolean", "byte", "rune",
		"error", "uintptr", "any", "interface", "object",
		"number", "bigint", "symbol", "undefined", "null",
		"map", "chan", "struct", "func":
		return true
	}
	return false
}

// annotationText returns the type inside a type_annotation node, without the
// leading colon.
func annotationText(node *tree_sitter.Node, source []byte) string {
	text := strings.TrimSpace(parser.NodeText(node, source))
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}

func findChildByKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[item] = true
	}
	return m
}

func safeRowToLine(row uint) int {
	const maxInt = int(^uint(0) >> 1)
	if row > uint(maxInt-1) {
		return maxInt
	}
	return int(row) + 1
}

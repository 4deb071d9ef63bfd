package xref

import (
	"path"
	"strings"
)

var jsExtensions = []string{".js", ".ts", ".tsx", ".jsx", ".mjs", ".cjs"}

// pythonImportTargets resolves a dotted or relative import expression to
// candidate file paths, plus the package directories selective names are
// looked up under. "app.models" yields app/models.py and
// app/models/__init__.py; "..util" walks up from the importing file.
func pythonImportTargets(module, importerFile string) (files, dirs []string) {
	if module == "" {
		return nil, nil
	}
	if module[0] != '.' {
		p := strings.ReplaceAll(module, ".", "/")
		return []string{p + ".py", p + "/__init__.py"}, []string{p}
	}

	depth := 0
	for depth < len(module) && module[depth] == '.' {
		depth++
	}
	base := slashDir(importerFile)
	for i := 1; i < depth; i++ {
		base = path.Dir(base)
	}
	rest := module[depth:]
	if rest == "" {
		return []string{base + "/__init__.py"}, []string{base}
	}
	p := base + "/" + strings.ReplaceAll(rest, ".", "/")
	return []string{p + ".py", p + "/__init__.py"}, []string{p}
}

// relativeModulePaths joins a relative specifier against the importing
// file's directory and expands extensionless specifiers to the usual
// candidates. Bare specifiers are package names unless bareIsRelative, which
// HTML src and href attributes need.
func relativeModulePaths(module, importerFile string, bareIsRelative bool, extensions []string) []string {
	if module == "" || strings.Contains(module, "://") || strings.HasPrefix(module, "//") {
		return nil
	}
	relative := strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../")
	if !relative && !bareIsRelative {
		return nil
	}
	base := slashDir(importerFile)
	if strings.HasPrefix(module, "/") {
		base = "."
		module = module[1:]
	}
	p := path.Join(base, module)
	if path.Ext(p) != "" {
		return []string{p}
	}
	var out []string
	for _, ext := range extensions {
		out = append(out, p+ext)
	}
	for _, ext := range extensions {
		out = append(out, p+"/index"+ext)
	}
	if len(extensions) == 0 {
		out = append(out, p)
	}
	return out
}

// styleModulePaths resolves @import and @use specifiers. Specifiers without
// an extension expand to .css, .scss, and the underscore partial form;
// scheme-qualified and sass built-in specifiers resolve to nothing.
func styleModulePaths(module, importerFile string) []string {
	if module == "" || strings.Contains(module, ":") {
		return nil
	}
	p := path.Join(slashDir(importerFile), module)
	if path.Ext(p) != "" {
		return []string{p}
	}
	dir, name := path.Dir(p), path.Base(p)
	return []string{
		p + ".css",
		p + ".scss",
		dir + "/_" + name + ".scss",
	}
}

func slashDir(file string) string {
	return path.Dir(strings.ReplaceAll(file, "\\", "/"))
}

func cleanRel(p string) string {
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

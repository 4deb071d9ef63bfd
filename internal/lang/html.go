package lang

func init() {
	Register(&LanguageSpec{
		Language:        HTML,
		FileExtensions:  []string{".html", ".htm"},
		ModuleNodeTypes: []string{"document"},
	})
}

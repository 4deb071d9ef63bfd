package lang

func init() {
	Register(&LanguageSpec{
		Language:        CSS,
		FileExtensions:  []string{".css"},
		ClassNodeTypes:  []string{"rule_set", "media_statement", "keyframes_statement"},
		ModuleNodeTypes: []string{"stylesheet"},
		ImportNodeTypes: []string{"import_statement"},
	})
}

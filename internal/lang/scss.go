package lang

func init() {
	Register(&LanguageSpec{
		Language:       SCSS,
		FileExtensions: []string{".scss"},
		FunctionNodeTypes: []string{
			"mixin_statement",
			"function_statement",
		},
		ClassNodeTypes:  []string{"rule_set", "media_statement", "keyframes_statement"},
		ModuleNodeTypes: []string{"stylesheet"},
		CallNodeTypes:   []string{"call_expression", "include_statement"},
		ImportNodeTypes: []string{"import_statement", "use_statement"},

		BranchingNodeTypes: []string{"if_statement", "each_statement", "while_statement"},
	})
}

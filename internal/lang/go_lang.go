package lang

func init() {
	Register(&LanguageSpec{
		Language:          Go,
		FileExtensions:    []string{".go"},
		FunctionNodeTypes: []string{"function_declaration", "method_declaration"},
		ClassNodeTypes:    []string{"type_spec", "type_alias"},
		FieldNodeTypes:    []string{"field_declaration"},
		ModuleNodeTypes:   []string{"source_file"},
		CallNodeTypes:     []string{"call_expression", "composite_literal"},
		ImportNodeTypes:   []string{"import_declaration"},
		ImportFromTypes:   []string{"import_declaration"},

		BranchingNodeTypes: []string{"if_statement", "for_statement", "expression_case", "type_case", "communication_case"},
		BooleanExprKinds:   []string{"binary_expression"},
		BooleanOperators:   []string{"&&", "||"},
	})
}

package lang

func init() {
	Register(&LanguageSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
		},
		ClassNodeTypes:  []string{"class_declaration", "class"},
		FieldNodeTypes:  []string{"field_definition"},
		ModuleNodeTypes: []string{"program"},
		CallNodeTypes:   []string{"call_expression", "new_expression"},
		ImportNodeTypes: []string{"import_statement"},
		ImportFromTypes: []string{"import_statement"},

		BranchingNodeTypes: []string{"if_statement", "for_statement", "for_in_statement", "while_statement", "do_statement", "switch_case", "catch_clause", "ternary_expression"},
		BooleanExprKinds:   []string{"binary_expression"},
		BooleanOperators:   []string{"&&", "||"},
		ReflectionCalls:    []string{"eval", "Reflect.get", "Reflect.set", "Reflect.apply", "Reflect.construct", "Function"},
		DynamicImportCalls: []string{"require", "import"},
	})
}

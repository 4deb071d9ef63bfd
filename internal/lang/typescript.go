package lang

func init() {
	Register(&LanguageSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
			"function_signature",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"class",
			"abstract_class_declaration",
			"enum_declaration",
			"interface_declaration",
			"type_alias_declaration",
		},
		FieldNodeTypes:  []string{"public_field_definition", "property_signature"},
		ModuleNodeTypes: []string{"program"},
		CallNodeTypes:   []string{"call_expression", "new_expression"},
		ImportNodeTypes: []string{"import_statement"},
		ImportFromTypes: []string{"import_statement"},

		BranchingNodeTypes: []string{"if_statement", "for_statement", "for_in_statement", "while_statement", "do_statement", "switch_case", "catch_clause", "ternary_expression"},
		BooleanExprKinds:   []string{"binary_expression"},
		BooleanOperators:   []string{"&&", "||"},
		DecoratorNodeTypes: []string{"decorator"},
		ReflectionCalls:    []string{"eval", "Reflect.get", "Reflect.set", "Reflect.apply", "Reflect.construct"},
		DynamicImportCalls: []string{"require", "import"},
	})
}

package lang

func init() {
	Register(&LanguageSpec{
		Language:          Python,
		FileExtensions:    []string{".py"},
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"class_definition"},
		FieldNodeTypes:    []string{"assignment"},
		ModuleNodeTypes:   []string{"module"},
		CallNodeTypes:     []string{"call"},
		ImportNodeTypes:   []string{"import_statement"},
		ImportFromTypes:   []string{"import_from_statement"},

		BranchingNodeTypes: []string{"if_statement", "elif_clause", "for_statement", "while_statement", "except_clause", "case_clause", "conditional_expression"},
		BooleanExprKinds:   []string{"boolean_operator"},
		DecoratorNodeTypes: []string{"decorator"},
		ReflectionCalls:    []string{"getattr", "setattr", "hasattr", "delattr", "eval", "exec", "globals", "locals", "vars"},
		DynamicImportCalls: []string{"__import__", "importlib.import_module"},
	})
}

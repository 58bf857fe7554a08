package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

var pythonQuotes = []string{`"""`, `'''`, `"`, `'`}

// pythonParser extracts skeletons from Python files.
type pythonParser struct {
	*treeSitterParser
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() (*pythonParser, error) {
	tsp, err := newTreeSitterParser(sitter.NewLanguage(python.Language()), "python")
	if err != nil {
		return nil, err
	}
	return &pythonParser{treeSitterParser: tsp}, nil
}

// Extract parses a Python source file into a skeleton.
func (p *pythonParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tree, err := p.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &skeleton.CodeSkeleton{
		FileName:  fileName,
		Language:  "Python",
		ModuleDoc: pythonLeadingDocstring(root, source),
	}

	for _, child := range topLevelNodes(root) {
		switch child.Kind() {
		case "import_statement", "import_from_statement":
			result.Imports = append(result.Imports, pythonImports(child, source)...)
		case "class_definition":
			result.Classes = append(result.Classes, p.extractClass(child, source))
		case "function_definition":
			result.Functions = append(result.Functions, p.extractFunction(child, source))
		case "decorated_definition":
			switch def := child.ChildByFieldName("definition"); {
			case def == nil:
			case def.Kind() == "class_definition":
				result.Classes = append(result.Classes, p.extractClass(def, source))
			case def.Kind() == "function_definition":
				result.Functions = append(result.Functions, p.extractFunction(def, source))
			}
		}
	}

	return result, nil
}

// extractClass extracts a class, its bases, docstring, and methods.
func (p *pythonParser) extractClass(node *sitter.Node, source []byte) skeleton.ClassSkeleton {
	cls := skeleton.ClassSkeleton{
		Name: fieldText(node, "name", source),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for _, arg := range namedChildrenOf(supers) {
			if arg.Kind() == "comment" {
				continue
			}
			cls.Bases = append(cls.Bases, strings.TrimSpace(nodeText(arg, source)))
		}
	}

	body := node.ChildByFieldName("body")
	cls.Docstring = pythonLeadingDocstring(body, source)

	for _, child := range childrenOf(body) {
		switch child.Kind() {
		case "function_definition":
			cls.Methods = append(cls.Methods, p.extractFunction(child, source))
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Kind() == "function_definition" {
				cls.Methods = append(cls.Methods, p.extractFunction(def, source))
			}
		}
	}

	return cls
}

// extractFunction extracts a function or method signature.
func (p *pythonParser) extractFunction(node *sitter.Node, source []byte) skeleton.FunctionSig {
	return skeleton.FunctionSig{
		Name:       fieldText(node, "name", source),
		Params:     paramsText(node.ChildByFieldName("parameters"), source),
		ReturnType: fieldText(node, "return_type", source),
		Docstring:  pythonLeadingDocstring(node.ChildByFieldName("body"), source),
	}
}

// pythonLeadingDocstring returns the string literal that forms the first
// statement of a module or block. Comments before it are allowed; any other
// statement first means there is no docstring.
func pythonLeadingDocstring(body *sitter.Node, source []byte) string {
	for _, child := range childrenOf(body) {
		switch child.Kind() {
		case "comment", "newline":
			continue
		case "expression_statement":
			for _, sub := range childrenOf(child) {
				if sub.Kind() == "string" || sub.Kind() == "concatenated_string" {
					return stripQuotes(nodeText(sub, source), pythonQuotes...)
				}
			}
		}
		return ""
	}
	return ""
}

// pythonImports flattens an import statement into module names.
//
//	import a.b as c        -> a.b
//	from m import x, y     -> m.x, m.y
//	from m import *        -> m.*
//	from . import x        -> .x
func pythonImports(node *sitter.Node, source []byte) []string {
	var results []string

	if node.Kind() == "import_statement" {
		for _, child := range namedChildrenOf(node) {
			if name := importedName(child, source); name != "" {
				results = append(results, name)
			}
		}
		return results
	}

	module := fieldText(node, "module_name", source)
	moduleNode := node.ChildByFieldName("module_name")

	var names []string
	for _, child := range namedChildrenOf(node) {
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() && child.EndByte() == moduleNode.EndByte() {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			return append(results, joinPythonModule(module, "*"))
		case "dotted_name", "aliased_import":
			if name := importedName(child, source); name != "" {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		if module != "" {
			results = append(results, module)
		}
		return results
	}

	for _, name := range names {
		results = append(results, joinPythonModule(module, name))
	}
	return results
}

// importedName returns the dotted name of an import target, ignoring aliases.
func importedName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "dotted_name":
		return nodeText(node, source)
	case "aliased_import":
		return fieldText(node, "name", source)
	}
	return ""
}

func joinPythonModule(module, name string) string {
	switch {
	case module == "":
		return name
	case strings.HasSuffix(module, "."):
		return module + name
	default:
		return module + "." + name
	}
}

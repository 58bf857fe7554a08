package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// goParser extracts skeletons from Go files.
type goParser struct {
	*treeSitterParser
}

// NewGoParser creates a new Go parser.
func NewGoParser() (*goParser, error) {
	tsp, err := newTreeSitterParser(sitter.NewLanguage(golang.Language()), "go")
	if err != nil {
		return nil, err
	}
	return &goParser{treeSitterParser: tsp}, nil
}

// Extract parses a Go source file into a skeleton.
// Methods are reported as top-level functions; the receiver is not part of
// their parameters.
func (p *goParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tree, err := p.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &skeleton.CodeSkeleton{
		FileName: fileName,
		Language: "Go",
	}

	siblings := topLevelNodes(tree.RootNode())
	for idx, child := range siblings {
		switch child.Kind() {
		case "package_clause":
			if result.ModuleDoc == "" {
				result.ModuleDoc = goDoc(siblings, idx, source)
			}
		case "import_declaration":
			result.Imports = append(result.Imports, goImports(child, source)...)
		case "function_declaration", "method_declaration":
			fn := p.extractFunction(child, source)
			fn.Docstring = goDoc(siblings, idx, source)
			result.Functions = append(result.Functions, fn)
		case "type_declaration":
			doc := goDoc(siblings, idx, source)
			result.Classes = append(result.Classes, p.extractTypes(child, doc, source)...)
		}
	}

	return result, nil
}

// extractFunction extracts a function or method signature. Field access keeps
// the receiver list of a method out of the reported parameters.
func (p *goParser) extractFunction(node *sitter.Node, source []byte) skeleton.FunctionSig {
	return skeleton.FunctionSig{
		Name:       fieldText(node, "name", source),
		Params:     paramsText(node.ChildByFieldName("parameters"), source),
		ReturnType: fieldText(node, "result", source),
	}
}

// extractTypes extracts struct and interface specs from a type declaration.
// A grouped declaration shares its doc comment only when it has a single spec.
func (p *goParser) extractTypes(node *sitter.Node, doc string, source []byte) []skeleton.ClassSkeleton {
	var specs []*sitter.Node
	for _, child := range childrenOf(node) {
		if child.Kind() == "type_spec" {
			specs = append(specs, child)
		}
	}

	var classes []skeleton.ClassSkeleton
	siblings := childrenOf(node)
	for idx, spec := range siblings {
		if spec.Kind() != "type_spec" {
			continue
		}

		typeNode := spec.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}

		cls := skeleton.ClassSkeleton{Name: fieldText(spec, "name", source)}
		switch typeNode.Kind() {
		case "struct_type":
			cls.Bases = goEmbeddedFields(typeNode, source)
		case "interface_type":
			cls.Bases, cls.Methods = goInterfaceElems(typeNode, source)
		default:
			continue
		}

		if len(specs) == 1 {
			cls.Docstring = doc
		} else {
			cls.Docstring = goDoc(siblings, idx, source)
		}
		classes = append(classes, cls)
	}
	return classes
}

// goEmbeddedFields returns the types embedded in a struct, in field order,
// as written: a pointer embed keeps its "*", a struct tag is dropped.
func goEmbeddedFields(structType *sitter.Node, source []byte) []string {
	var embedded []string
	fields := findChildByType(structType, "field_declaration_list")
	for _, field := range childrenOf(fields) {
		if field.Kind() != "field_declaration" || field.ChildByFieldName("name") != nil {
			continue
		}
		typeNode := field.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		// The "*" of a pointer embed is a token of the field, not of its type.
		if t := strings.TrimSpace(string(source[field.StartByte():typeNode.EndByte()])); t != "" {
			embedded = append(embedded, t)
		}
	}
	return embedded
}

// goInterfaceElems returns embedded interfaces and method signatures.
func goInterfaceElems(ifaceType *sitter.Node, source []byte) ([]string, []skeleton.FunctionSig) {
	var embedded []string
	var methods []skeleton.FunctionSig

	siblings := childrenOf(ifaceType)
	for idx, elem := range siblings {
		switch elem.Kind() {
		case "method_elem", "method_spec":
			methods = append(methods, skeleton.FunctionSig{
				Name:       fieldText(elem, "name", source),
				Params:     paramsText(elem.ChildByFieldName("parameters"), source),
				ReturnType: fieldText(elem, "result", source),
				Docstring:  goDoc(siblings, idx, source),
			})
		case "type_elem", "constraint_elem", "interface_type_name":
			embedded = append(embedded, strings.TrimSpace(nodeText(elem, source)))
		}
	}
	return embedded, methods
}

// goImports returns the unquoted import paths of an import declaration.
func goImports(node *sitter.Node, source []byte) []string {
	var specs []*sitter.Node
	for _, child := range childrenOf(node) {
		switch child.Kind() {
		case "import_spec":
			specs = append(specs, child)
		case "import_spec_list":
			for _, spec := range childrenOf(child) {
				if spec.Kind() == "import_spec" {
					specs = append(specs, spec)
				}
			}
		}
	}

	var imports []string
	for _, spec := range specs {
		path := strings.Trim(fieldText(spec, "path", source), "\"`")
		if path != "" {
			imports = append(imports, path)
		}
	}
	return imports
}

// goDocComment treats every comment as documentation.
func goDocComment(node *sitter.Node, source []byte) (string, bool, bool, bool) {
	if node.Kind() != "comment" {
		return "", false, false, false
	}

	raw := strings.TrimSpace(nodeText(node, source))
	if strings.HasPrefix(raw, "/*") {
		return parseBlockComment(raw), true, true, true
	}
	return lineCommentText(raw, "//"), true, true, false
}

// goDoc collects the doc comment above siblings[idx]. Compiler directives
// such as //go:generate sit between the doc and the declaration and are
// stepped over.
func goDoc(siblings []*sitter.Node, idx int, source []byte) string {
	return precedingDoc(siblings, idx, source, goDocComment, func(node *sitter.Node) bool {
		return node.Kind() == "comment" && strings.HasPrefix(nodeText(node, source), "//go:")
	})
}

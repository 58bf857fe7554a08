package parsers

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// cppParser extracts skeletons from C and C++ files. Plain .c files use the C
// grammar, which does not mistake C identifiers such as "class" or "new" for
// C++ keywords; headers and everything else use the C++ grammar.
type cppParser struct {
	cpp *treeSitterParser
	c   *treeSitterParser
}

// NewCppParser creates a new C/C++ parser.
func NewCppParser() (*cppParser, error) {
	cppTSP, err := newTreeSitterParser(sitter.NewLanguage(cpp.Language()), "cpp")
	if err != nil {
		return nil, err
	}
	cTSP, err := newTreeSitterParser(sitter.NewLanguage(c.Language()), "c")
	if err != nil {
		cppTSP.Close()
		return nil, err
	}
	return &cppParser{cpp: cppTSP, c: cTSP}, nil
}

// Extract parses a C or C++ source file into a skeleton.
func (p *cppParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tsp := p.cpp
	if strings.EqualFold(filepath.Ext(fileName), ".c") {
		tsp = p.c
	}

	tree, err := tsp.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	w := &cppWalker{
		source: source,
		result: &skeleton.CodeSkeleton{
			FileName: fileName,
			Language: "C/C++",
		},
	}
	w.walk(topLevelNodes(tree.RootNode()), 0)
	return w.result, nil
}

// Close releases both grammars.
func (p *cppParser) Close() {
	p.cpp.Close()
	p.c.Close()
}

// cppWalker accumulates declarations across namespace and extern blocks.
type cppWalker struct {
	source []byte
	result *skeleton.CodeSkeleton
}

// walk visits one declaration list. Namespaces and extern "C" blocks are
// opened only at depth 0; preprocessor conditionals such as include guards
// are transparent.
func (w *cppWalker) walk(siblings []*sitter.Node, depth int) {
	for idx, child := range siblings {
		node := child
		if node.Kind() == "template_declaration" {
			if node = templateTarget(node); node == nil {
				continue
			}
		}

		switch node.Kind() {
		case "preproc_include":
			if path := strings.Trim(fieldText(node, "path", w.source), `"<>`); path != "" {
				w.result.Imports = append(w.result.Imports, path)
			}
		case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif":
			w.walk(childrenOf(node), depth)
		case "class_specifier", "struct_specifier":
			w.addClass(node, "", siblings, idx)
		case "declaration":
			// struct Foo { ... } foo;
			w.addClass(node.ChildByFieldName("type"), "", siblings, idx)
		case "type_definition":
			// typedef struct { ... } Name;
			w.addClass(node.ChildByFieldName("type"), fieldText(node, "declarator", w.source), siblings, idx)
		case "function_definition":
			if fn, ok := cppFunction(node, w.source); ok {
				fn.Docstring = cppDoc(siblings, idx, w.source)
				w.result.Functions = append(w.result.Functions, fn)
			}
		case "namespace_definition", "linkage_specification":
			if depth > 0 {
				continue
			}
			body := node.ChildByFieldName("body")
			if body == nil {
				continue
			}
			if body.Kind() == "declaration_list" {
				w.walk(childrenOf(body), depth+1)
			} else {
				// extern "C" void f(void) { ... }
				w.walk([]*sitter.Node{body}, depth+1)
			}
		}
	}
}

// addClass records spec when it is a class or struct definition with a body.
// fallbackName names anonymous typedef'd structs.
func (w *cppWalker) addClass(spec *sitter.Node, fallbackName string, siblings []*sitter.Node, idx int) {
	if spec == nil {
		return
	}
	switch spec.Kind() {
	case "class_specifier", "struct_specifier":
	default:
		return
	}

	body := spec.ChildByFieldName("body")
	if body == nil {
		// Forward declaration or plain use of the type.
		return
	}

	cls := skeleton.ClassSkeleton{Name: fieldText(spec, "name", w.source)}
	if cls.Name == "" {
		cls.Name = fallbackName
	}
	if cls.Name == "" {
		return
	}

	if clause := findChildByType(spec, "base_class_clause"); clause != nil {
		for _, base := range namedChildrenOf(clause) {
			switch base.Kind() {
			case "type_identifier", "qualified_identifier", "template_type":
				cls.Bases = append(cls.Bases, nodeText(base, w.source))
			}
		}
	}

	members := childrenOf(body)
	for i, member := range members {
		node := member
		if node.Kind() == "template_declaration" {
			if node = templateTarget(node); node == nil {
				continue
			}
		}

		switch node.Kind() {
		case "function_definition", "field_declaration", "declaration":
		default:
			continue
		}
		fn, ok := cppFunction(node, w.source)
		if !ok {
			continue
		}
		fn.Docstring = cppDoc(members, i, w.source)
		cls.Methods = append(cls.Methods, fn)
	}

	cls.Docstring = cppDoc(siblings, idx, w.source)
	w.result.Classes = append(w.result.Classes, cls)
}

// templateTarget returns the declaration a template_declaration wraps.
func templateTarget(node *sitter.Node) *sitter.Node {
	for _, child := range namedChildrenOf(node) {
		switch child.Kind() {
		case "template_declaration":
			return templateTarget(child)
		case "class_specifier", "struct_specifier", "function_definition", "declaration", "field_declaration":
			return child
		}
	}
	return nil
}

// cppFunction extracts a signature from a definition or a declaration whose
// declarator is a function declarator. ok is false for data declarations.
func cppFunction(node *sitter.Node, source []byte) (skeleton.FunctionSig, bool) {
	name, params, suffix, ok := cppDeclarator(node.ChildByFieldName("declarator"), source)
	if !ok {
		return skeleton.FunctionSig{}, false
	}

	// Constructors and destructors have no type.
	var returnType string
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		var parts []string
		for _, child := range childrenOf(node) {
			if child.Kind() == "type_qualifier" && child.StartByte() < typeNode.StartByte() {
				parts = append(parts, nodeText(child, source))
			}
		}
		parts = append(parts, strings.TrimSpace(nodeText(typeNode, source)))
		returnType = strings.Join(parts, " ") + suffix
	}

	return skeleton.FunctionSig{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
	}, true
}

// cppDeclarator unwraps pointer and reference declarators down to a function
// declarator. suffix collects the "*" and "&" that belong to the return type.
func cppDeclarator(decl *sitter.Node, source []byte) (name, params, suffix string, ok bool) {
	for decl != nil {
		switch decl.Kind() {
		case "pointer_declarator":
			suffix += "*"
			decl = decl.ChildByFieldName("declarator")
		case "reference_declarator":
			if strings.HasPrefix(nodeText(decl, source), "&&") {
				suffix += "&&"
			} else {
				suffix += "&"
			}
			named := namedChildrenOf(decl)
			if len(named) == 0 {
				return "", "", "", false
			}
			decl = named[len(named)-1]
		case "function_declarator":
			inner := decl.ChildByFieldName("declarator")
			// int (*fp)(int) is a function pointer, not a function.
			if inner == nil || inner.Kind() == "parenthesized_declarator" {
				return "", "", "", false
			}
			return nodeText(inner, source), paramsText(decl.ChildByFieldName("parameters"), source), suffix, true
		default:
			return "", "", "", false
		}
	}
	return "", "", "", false
}

// doxygenComment accepts /** */, /*! */, /// and //! comments.
func doxygenComment(node *sitter.Node, source []byte) (string, bool, bool, bool) {
	if node.Kind() != "comment" {
		return "", false, false, false
	}

	raw := strings.TrimSpace(nodeText(node, source))
	switch {
	case strings.HasPrefix(raw, "/**"), strings.HasPrefix(raw, "/*!"):
		return parseBlockComment(raw), true, true, true
	case strings.HasPrefix(raw, "///"):
		return lineCommentText(raw, "///"), true, true, false
	case strings.HasPrefix(raw, "//!"):
		return lineCommentText(raw, "//!"), true, true, false
	}
	return "", true, false, false
}

func cppDoc(siblings []*sitter.Node, idx int, source []byte) string {
	return precedingDoc(siblings, idx, source, doxygenComment, nil)
}

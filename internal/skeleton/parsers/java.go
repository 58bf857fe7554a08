package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// javaParser extracts skeletons from Java files.
type javaParser struct {
	*treeSitterParser
}

// NewJavaParser creates a new Java parser.
func NewJavaParser() (*javaParser, error) {
	tsp, err := newTreeSitterParser(sitter.NewLanguage(java.Language()), "java")
	if err != nil {
		return nil, err
	}
	return &javaParser{treeSitterParser: tsp}, nil
}

// Extract parses a Java source file into a skeleton. Java has no top-level
// functions, so everything callable is reported as a method.
func (p *javaParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tree, err := p.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &skeleton.CodeSkeleton{
		FileName: fileName,
		Language: "Java",
	}

	siblings := topLevelNodes(tree.RootNode())
	for idx, child := range siblings {
		switch child.Kind() {
		case "import_declaration":
			if imp := javaImport(child, source); imp != "" {
				result.Imports = append(result.Imports, imp)
			}
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			cls := p.extractType(child, source)
			cls.Docstring = javaDoc(siblings, idx, source)
			result.Classes = append(result.Classes, cls)
		}
	}

	return result, nil
}

// extractType extracts a class-like declaration.
func (p *javaParser) extractType(node *sitter.Node, source []byte) skeleton.ClassSkeleton {
	cls := skeleton.ClassSkeleton{Name: fieldText(node, "name", source)}

	// superclass: extends T
	if super := findChildByType(node, "superclass"); super != nil {
		for _, t := range namedChildrenOf(super) {
			cls.Bases = append(cls.Bases, nodeText(t, source))
		}
	}
	// super_interfaces: implements A, B; extends_interfaces: extends A, B
	for _, kind := range []string{"super_interfaces", "extends_interfaces"} {
		if clause := findChildByType(node, kind); clause != nil {
			cls.Bases = append(cls.Bases, javaTypeList(clause, source)...)
		}
	}

	cls.Methods = p.extractMembers(node.ChildByFieldName("body"), source)
	return cls
}

// extractMembers collects methods and constructors from a type body. Enum
// bodies keep their members in a nested enum_body_declarations node.
func (p *javaParser) extractMembers(body *sitter.Node, source []byte) []skeleton.FunctionSig {
	var methods []skeleton.FunctionSig

	siblings := childrenOf(body)
	for idx, member := range siblings {
		var fn skeleton.FunctionSig
		switch member.Kind() {
		case "method_declaration":
			fn = skeleton.FunctionSig{
				Name:       fieldText(member, "name", source),
				Params:     paramsText(member.ChildByFieldName("parameters"), source),
				ReturnType: fieldText(member, "type", source),
			}
		case "constructor_declaration":
			fn = skeleton.FunctionSig{
				Name:   fieldText(member, "name", source),
				Params: paramsText(member.ChildByFieldName("parameters"), source),
			}
		case "enum_body_declarations":
			methods = append(methods, p.extractMembers(member, source)...)
			continue
		default:
			continue
		}
		fn.Docstring = javaDoc(siblings, idx, source)
		methods = append(methods, fn)
	}

	return methods
}

// javaTypeList returns the types listed in an implements or extends clause.
func javaTypeList(clause *sitter.Node, source []byte) []string {
	var types []string
	list := findChildByType(clause, "type_list")
	for _, t := range namedChildrenOf(list) {
		types = append(types, nodeText(t, source))
	}
	return types
}

// javaImport returns the imported name, with ".*" for on-demand imports.
// The static modifier is dropped.
func javaImport(node *sitter.Node, source []byte) string {
	var name string
	wildcard := false
	for _, child := range childrenOf(node) {
		switch child.Kind() {
		case "scoped_identifier", "identifier":
			name = nodeText(child, source)
		case "asterisk":
			wildcard = true
		}
	}
	if name != "" && wildcard {
		return name + ".*"
	}
	return name
}

// javadocComment accepts only /** */ blocks as documentation.
func javadocComment(node *sitter.Node, source []byte) (string, bool, bool, bool) {
	switch node.Kind() {
	case "block_comment", "line_comment":
	default:
		return "", false, false, false
	}

	raw := strings.TrimSpace(nodeText(node, source))
	if node.Kind() != "block_comment" || !strings.HasPrefix(raw, "/**") {
		return "", true, false, false
	}
	return parseBlockComment(raw), true, true, true
}

func javaDoc(siblings []*sitter.Node, idx int, source []byte) string {
	return precedingDoc(siblings, idx, source, javadocComment, nil)
}

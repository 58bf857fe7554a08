package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// rustParser extracts skeletons from Rust files.
type rustParser struct {
	*treeSitterParser
}

// NewRustParser creates a new Rust parser.
func NewRustParser() (*rustParser, error) {
	tsp, err := newTreeSitterParser(sitter.NewLanguage(rust.Language()), "rust")
	if err != nil {
		return nil, err
	}
	return &rustParser{treeSitterParser: tsp}, nil
}

// Extract parses a Rust source file into a skeleton.
//
// Methods live in impl blocks rather than in the type declaration, so each
// impl block becomes its own "impl <Type>" entry and structs and enums carry
// no methods.
func (p *rustParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tree, err := p.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	siblings := topLevelNodes(tree.RootNode())
	result := &skeleton.CodeSkeleton{
		FileName:  fileName,
		Language:  "Rust",
		ModuleDoc: rustModuleDoc(siblings, source),
	}

	for idx, child := range siblings {
		switch child.Kind() {
		case "use_declaration":
			if arg := fieldText(child, "argument", source); arg != "" {
				result.Imports = append(result.Imports, arg)
			}
		case "struct_item", "enum_item", "union_item":
			result.Classes = append(result.Classes, skeleton.ClassSkeleton{
				Name:      fieldText(child, "name", source),
				Docstring: rustDoc(siblings, idx, source),
			})
		case "trait_item":
			cls := p.extractTrait(child, source)
			cls.Docstring = rustDoc(siblings, idx, source)
			result.Classes = append(result.Classes, cls)
		case "impl_item":
			result.Classes = append(result.Classes, p.extractImpl(child, source))
		case "function_item":
			fn := p.extractFunction(child, source)
			fn.Docstring = rustDoc(siblings, idx, source)
			result.Functions = append(result.Functions, fn)
		}
	}

	return result, nil
}

// extractTrait extracts a trait with its supertraits and method signatures.
func (p *rustParser) extractTrait(node *sitter.Node, source []byte) skeleton.ClassSkeleton {
	cls := skeleton.ClassSkeleton{Name: fieldText(node, "name", source)}

	if bounds := node.ChildByFieldName("bounds"); bounds != nil {
		for _, bound := range namedChildrenOf(bounds) {
			switch bound.Kind() {
			case "type_identifier", "scoped_type_identifier", "generic_type":
				cls.Bases = append(cls.Bases, nodeText(bound, source))
			}
		}
	}

	cls.Methods = p.extractMethods(node.ChildByFieldName("body"), source)
	return cls
}

// extractImpl turns "impl Foo { ... }" into a synthetic "impl Foo" class.
// For "impl Trait for Foo" the trait is reported as a base.
func (p *rustParser) extractImpl(node *sitter.Node, source []byte) skeleton.ClassSkeleton {
	cls := skeleton.ClassSkeleton{
		Name:    "impl " + fieldText(node, "type", source),
		Methods: p.extractMethods(node.ChildByFieldName("body"), source),
	}
	if trait := fieldText(node, "trait", source); trait != "" {
		cls.Bases = []string{trait}
	}
	return cls
}

// extractMethods collects functions declared directly in a declaration list.
func (p *rustParser) extractMethods(body *sitter.Node, source []byte) []skeleton.FunctionSig {
	var methods []skeleton.FunctionSig
	siblings := childrenOf(body)
	for idx, child := range siblings {
		switch child.Kind() {
		case "function_item", "function_signature_item":
			fn := p.extractFunction(child, source)
			fn.Docstring = rustDoc(siblings, idx, source)
			methods = append(methods, fn)
		}
	}
	return methods
}

// extractFunction extracts a function signature.
func (p *rustParser) extractFunction(node *sitter.Node, source []byte) skeleton.FunctionSig {
	return skeleton.FunctionSig{
		Name:       fieldText(node, "name", source),
		Params:     paramsText(node.ChildByFieldName("parameters"), source),
		ReturnType: fieldText(node, "return_type", source),
	}
}

// rustDoc collects the /// comments above siblings[idx]. Attributes between
// the comments and the item belong to the item.
func rustDoc(siblings []*sitter.Node, idx int, source []byte) string {
	return precedingDoc(siblings, idx, source, rustOuterDoc, func(node *sitter.Node) bool {
		return node.Kind() == "attribute_item"
	})
}

// rustModuleDoc collects the //! comments at the very start of the file.
func rustModuleDoc(siblings []*sitter.Node, source []byte) string {
	var lines []string
	for _, child := range siblings {
		text, marker, ok := rustDocComment(child, source)
		if !ok || marker != "inner_doc_comment_marker" {
			break
		}
		lines = append(lines, text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func rustOuterDoc(node *sitter.Node, source []byte) (string, bool, bool, bool) {
	switch node.Kind() {
	case "line_comment", "block_comment":
	default:
		return "", false, false, false
	}

	text, marker, ok := rustDocComment(node, source)
	if !ok || marker != "outer_doc_comment_marker" {
		return "", true, false, false
	}
	return text, true, true, node.Kind() == "block_comment"
}

// rustDocComment returns the doc text of a comment and which doc marker it
// carries. Plain comments have no doc_comment child.
func rustDocComment(node *sitter.Node, source []byte) (text, marker string, ok bool) {
	if node.Kind() != "line_comment" && node.Kind() != "block_comment" {
		return "", "", false
	}

	var doc *sitter.Node
	for _, child := range childrenOf(node) {
		switch child.Kind() {
		case "inner_doc_comment_marker", "outer_doc_comment_marker":
			marker = child.Kind()
		case "doc_comment":
			doc = child
		}
	}
	if doc == nil || marker == "" {
		return "", "", false
	}

	text = nodeText(doc, source)
	if node.Kind() == "block_comment" {
		text = parseBlockComment("/*" + text + "*/")
	}
	return strings.TrimSpace(text), marker, true
}

package parsers

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// javaScriptParser extracts skeletons from JavaScript files, including JSX.
type javaScriptParser struct {
	*treeSitterParser
}

// NewJavaScriptParser creates a new JavaScript parser.
func NewJavaScriptParser() (*javaScriptParser, error) {
	tsp, err := newTreeSitterParser(sitter.NewLanguage(javascript.Language()), "javascript")
	if err != nil {
		return nil, err
	}
	return &javaScriptParser{treeSitterParser: tsp}, nil
}

// Extract parses a JavaScript source file into a skeleton.
func (p *javaScriptParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tree, err := p.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return extractECMAScript(tree.RootNode(), fileName, "JavaScript", source), nil
}

// typeScriptParser extracts skeletons from TypeScript files. The TSX grammar
// is a superset that changes how angle brackets parse, so .tsx files get
// their own parser.
type typeScriptParser struct {
	ts  *treeSitterParser
	tsx *treeSitterParser
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() (*typeScriptParser, error) {
	ts, err := newTreeSitterParser(sitter.NewLanguage(typescript.LanguageTypescript()), "typescript")
	if err != nil {
		return nil, err
	}
	tsx, err := newTreeSitterParser(sitter.NewLanguage(typescript.LanguageTSX()), "tsx")
	if err != nil {
		ts.Close()
		return nil, err
	}
	return &typeScriptParser{ts: ts, tsx: tsx}, nil
}

// Extract parses a TypeScript source file into a skeleton.
func (p *typeScriptParser) Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error) {
	tsp := p.ts
	if strings.EqualFold(filepath.Ext(fileName), ".tsx") {
		tsp = p.tsx
	}

	tree, err := tsp.parse(fileName, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return extractECMAScript(tree.RootNode(), fileName, "TypeScript", source), nil
}

// Close releases both grammars.
func (p *typeScriptParser) Close() {
	p.ts.Close()
	p.tsx.Close()
}

// extractECMAScript walks a JavaScript or TypeScript tree. The two grammars
// share node names for everything reported here; TypeScript only adds
// interfaces, abstract classes, and signatures.
func extractECMAScript(root *sitter.Node, fileName, language string, source []byte) *skeleton.CodeSkeleton {
	result := &skeleton.CodeSkeleton{
		FileName: fileName,
		Language: language,
	}
	seen := make(map[string]bool)

	siblings := topLevelNodes(root)
	for idx, child := range siblings {
		decl := child
		if child.Kind() == "export_statement" {
			// export default class Foo {} may parse as a class expression.
			if decl = child.ChildByFieldName("declaration"); decl == nil {
				if decl = child.ChildByFieldName("value"); decl == nil {
					continue
				}
			}
		}

		switch decl.Kind() {
		case "import_statement":
			src := stripQuotes(fieldText(decl, "source", source), `"`, `'`)
			if src != "" && !seen[src] {
				seen[src] = true
				result.Imports = append(result.Imports, src)
			}
		case "class_declaration", "abstract_class_declaration", "class":
			cls := extractECMAClass(decl, source)
			if cls.Name == "" {
				continue
			}
			cls.Docstring = jsDoc(siblings, idx, source)
			result.Classes = append(result.Classes, cls)
		case "interface_declaration":
			cls := extractInterface(decl, source)
			cls.Docstring = jsDoc(siblings, idx, source)
			result.Classes = append(result.Classes, cls)
		case "function_declaration", "generator_function_declaration", "function_signature":
			fn := ecmaFunction(decl, fieldText(decl, "name", source), source)
			if doc := jsDoc(siblings, idx, source); doc != "" {
				fn.Docstring = doc
			}
			result.Functions = append(result.Functions, fn)
		case "lexical_declaration", "variable_declaration":
			for _, declarator := range childrenOf(decl) {
				if declarator.Kind() != "variable_declarator" {
					continue
				}
				value := declarator.ChildByFieldName("value")
				if !isFunctionValue(value) {
					continue
				}
				fn := ecmaFunction(value, fieldText(declarator, "name", source), source)
				if doc := jsDoc(siblings, idx, source); doc != "" {
					fn.Docstring = doc
				}
				result.Functions = append(result.Functions, fn)
			}
		}
	}

	return result
}

// extractECMAClass extracts a class declaration with its heritage and members.
func extractECMAClass(node *sitter.Node, source []byte) skeleton.ClassSkeleton {
	cls := skeleton.ClassSkeleton{Name: fieldText(node, "name", source)}

	if heritage := findChildByType(node, "class_heritage"); heritage != nil {
		cls.Bases = classHeritage(heritage, source)
	}

	siblings := childrenOf(node.ChildByFieldName("body"))
	for idx, member := range siblings {
		var fn skeleton.FunctionSig
		switch member.Kind() {
		case "method_definition", "method_signature", "abstract_method_signature":
			fn = ecmaFunction(member, fieldText(member, "name", source), source)
		case "field_definition", "public_field_definition":
			value := member.ChildByFieldName("value")
			if !isFunctionValue(value) {
				continue
			}
			name := fieldText(member, "name", source)
			if name == "" {
				name = fieldText(member, "property", source)
			}
			fn = ecmaFunction(value, name, source)
		default:
			continue
		}
		if doc := jsDoc(siblings, idx, source); doc != "" {
			fn.Docstring = doc
		}
		cls.Methods = append(cls.Methods, fn)
	}

	return cls
}

// classHeritage returns extended classes followed by implemented interfaces.
//
// JavaScript puts the extended expression directly under class_heritage;
// TypeScript wraps it in extends_clause and adds implements_clause.
func classHeritage(heritage *sitter.Node, source []byte) []string {
	var bases []string
	for _, child := range namedChildrenOf(heritage) {
		switch child.Kind() {
		case "comment":
		case "extends_clause":
			for _, part := range namedChildrenOf(child) {
				// Type arguments belong to the preceding base: Base<T>.
				if part.Kind() == "type_arguments" && len(bases) > 0 {
					bases[len(bases)-1] += nodeText(part, source)
					continue
				}
				bases = append(bases, nodeText(part, source))
			}
		case "implements_clause":
			for _, t := range namedChildrenOf(child) {
				bases = append(bases, nodeText(t, source))
			}
		default:
			bases = append(bases, nodeText(child, source))
		}
	}
	return bases
}

// extractInterface surfaces a TypeScript interface as a class.
func extractInterface(node *sitter.Node, source []byte) skeleton.ClassSkeleton {
	cls := skeleton.ClassSkeleton{Name: fieldText(node, "name", source)}

	if ext := findChildByType(node, "extends_type_clause"); ext != nil {
		for _, t := range namedChildrenOf(ext) {
			cls.Bases = append(cls.Bases, nodeText(t, source))
		}
	}

	siblings := childrenOf(node.ChildByFieldName("body"))
	for idx, member := range siblings {
		if member.Kind() != "method_signature" {
			continue
		}
		fn := ecmaFunction(member, fieldText(member, "name", source), source)
		fn.Docstring = jsDoc(siblings, idx, source)
		cls.Methods = append(cls.Methods, fn)
	}

	return cls
}

// ecmaFunction builds a signature from any function-like node. The name is
// passed in because arrow functions and function expressions take it from
// the binding rather than the node. The docstring is a leading string in the
// body; callers replace it with a JSDoc block when there is one.
func ecmaFunction(node *sitter.Node, name string, source []byte) skeleton.FunctionSig {
	fn := skeleton.FunctionSig{
		Name:      name,
		Docstring: leadingString(node.ChildByFieldName("body"), source),
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = paramsText(params, source)
	} else {
		// x => x
		fn.Params = fieldText(node, "parameter", source)
	}

	if ret := fieldText(node, "return_type", source); ret != "" {
		fn.ReturnType = strings.TrimSpace(strings.TrimPrefix(ret, ":"))
	}
	return fn
}

// leadingString returns the string literal that opens a statement block,
// as in function f() { "Does X."; ... }. Comments before it are skipped.
func leadingString(body *sitter.Node, source []byte) string {
	if body == nil || body.Kind() != "statement_block" {
		return ""
	}
	for _, stmt := range namedChildrenOf(body) {
		if stmt.Kind() == "comment" {
			continue
		}
		if stmt.Kind() != "expression_statement" {
			return ""
		}
		exprs := namedChildrenOf(stmt)
		if len(exprs) == 0 {
			return ""
		}
		switch exprs[0].Kind() {
		case "string", "template_string":
			text := stripQuotes(nodeText(exprs[0], source), `"`, `'`, "`")
			if text == "use strict" {
				return ""
			}
			return text
		}
		return ""
	}
	return ""
}

func isFunctionValue(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// jsDocComment accepts only /** */ blocks as documentation.
func jsDocComment(node *sitter.Node, source []byte) (string, bool, bool, bool) {
	if node.Kind() != "comment" {
		return "", false, false, false
	}

	raw := strings.TrimSpace(nodeText(node, source))
	if !strings.HasPrefix(raw, "/**") {
		return "", true, false, false
	}
	return parseBlockComment(raw), true, true, true
}

// jsDoc returns the JSDoc block directly above siblings[idx]. Member
// decorators are siblings in a class body and sit between the doc and the
// member.
func jsDoc(siblings []*sitter.Node, idx int, source []byte) string {
	return precedingDoc(siblings, idx, source, jsDocComment, func(node *sitter.Node) bool {
		return node.Kind() == "decorator"
	})
}

package parsers

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// Extractor builds a CodeSkeleton from one source file.
//
// Extract fails only when tree-sitter cannot produce a tree at all. Trees that
// contain ERROR or MISSING nodes are walked anyway and whatever well-formed
// structure surrounds the damage is returned.
type Extractor interface {
	Extract(fileName string, source []byte) (*skeleton.CodeSkeleton, error)
}

// treeSitterParser owns one tree-sitter parser for a single grammar.
//
// A sitter.Parser keeps mutable state for the duration of a parse, so calls
// into the same treeSitterParser are serialized by mu. Returned trees do not
// reference the parser and are walked outside the lock.
type treeSitterParser struct {
	mu       sync.Mutex
	parser   *sitter.Parser
	language *sitter.Language
	lang     string
}

// newTreeSitterParser loads a grammar into a fresh parser.
func newTreeSitterParser(language *sitter.Language, lang string) (*treeSitterParser, error) {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to load %s grammar: %w", lang, err)
	}

	return &treeSitterParser{
		parser:   parser,
		language: language,
		lang:     lang,
	}, nil
}

// parse produces a tree for source. The caller must Close the tree.
func (p *treeSitterParser) parse(fileName string, source []byte) (*sitter.Tree, error) {
	p.mu.Lock()
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		// A failed parse can leave partial state behind.
		p.parser.Reset()
	}
	p.mu.Unlock()

	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: %s", p.lang, fileName)
	}
	return tree, nil
}

// Close releases the underlying parser.
func (p *treeSitterParser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(source)) || start > end {
		return ""
	}
	return string(source[start:end])
}

// fieldText returns the trimmed text of the named field, or "".
func fieldText(node *sitter.Node, field string, source []byte) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(node.ChildByFieldName(field), source))
}

// childrenOf returns all children of node in source order.
func childrenOf(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	count := node.ChildCount()
	children := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := node.Child(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// namedChildrenOf returns the named children of node in source order.
func namedChildrenOf(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	count := node.NamedChildCount()
	children := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := node.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// findChildByType finds the first child node with one of the given types.
func findChildByType(node *sitter.Node, nodeTypes ...string) *sitter.Node {
	for _, child := range childrenOf(node) {
		for _, nodeType := range nodeTypes {
			if child.Kind() == nodeType {
				return child
			}
		}
	}
	return nil
}

// topLevelNodes returns the children of root in source order. ERROR nodes
// produced by error recovery are replaced by their own children, so
// declarations the parser could not attach to the tree are still seen.
// MISSING placeholders are dropped.
func topLevelNodes(root *sitter.Node) []*sitter.Node {
	var nodes []*sitter.Node
	for _, child := range childrenOf(root) {
		switch {
		case child.IsMissing():
		case child.IsError():
			for _, inner := range childrenOf(child) {
				if !inner.IsMissing() && !inner.IsError() {
					nodes = append(nodes, inner)
				}
			}
		default:
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// stripDelimiters trims whitespace and one pair of enclosing delimiters,
// e.g. "(a, b)" -> "a, b".
func stripDelimiters(raw, open, close string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, open) && strings.HasSuffix(raw, close) && len(raw) >= len(open)+len(close) {
		raw = raw[len(open) : len(raw)-len(close)]
	}
	return strings.TrimSpace(raw)
}

// paramsText returns the parameter list text without its parentheses.
func paramsText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return stripDelimiters(nodeText(node, source), "(", ")")
}

// stripQuotes removes a string literal's prefix letters and quotes.
// quotes is tried in order, so longer delimiters must come first.
func stripQuotes(raw string, quotes ...string) string {
	raw = strings.TrimSpace(raw)
	body := strings.TrimLeft(raw, "rRbBuUfF")
	for _, q := range quotes {
		if strings.HasPrefix(body, q) && strings.HasSuffix(body, q) && len(body) >= 2*len(q) {
			return strings.TrimSpace(body[len(q) : len(body)-len(q)])
		}
	}
	return raw
}

// parseBlockComment strips /** ... */ markers and the leading * of each line.
// Empty lines are dropped.
func parseBlockComment(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "/**"), strings.HasPrefix(raw, "/*!"):
		raw = raw[3:]
	case strings.HasPrefix(raw, "/*"):
		raw = raw[2:]
	}
	raw = strings.TrimSuffix(raw, "*/")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// docComment classifies a comment sibling. ok=false means the node is not a
// comment at all. isDoc=false means it is an ordinary comment, which ends the
// search. block=true means the comment is a self-contained doc unit and no
// further comments are collected before it.
type docComment func(node *sitter.Node, source []byte) (text string, ok, isDoc, block bool)

// precedingDoc collects the documentation immediately before siblings[idx].
//
// Walking backwards, it accepts consecutive doc comments and stops at the first
// non-comment node, the first ordinary comment, or a blank line between two
// neighbours. A block doc comment only counts when it is the nearest comment.
// skip lets a language step over nodes that belong to the declaration, such as
// Rust attributes.
func precedingDoc(siblings []*sitter.Node, idx int, source []byte, classify docComment, skip func(*sitter.Node) bool) string {
	var lines []string
	next := siblings[idx]

	for i := idx - 1; i >= 0; i-- {
		prev := siblings[i]

		if skip != nil && skip(prev) {
			if !adjacent(prev, next) {
				break
			}
			next = prev
			continue
		}

		text, ok, isDoc, block := classify(prev, source)
		if !ok || !isDoc || !adjacent(prev, next) {
			break
		}

		if block {
			if len(lines) == 0 {
				lines = append(lines, text)
			}
			break
		}

		lines = append([]string{text}, lines...)
		next = prev
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// adjacent reports whether no blank line separates prev from next.
func adjacent(prev, next *sitter.Node) bool {
	end := prev.EndPosition()
	endRow := int(end.Row)
	// Some grammars include the trailing newline in line comments.
	if end.Column == 0 && end.Row > prev.StartPosition().Row {
		endRow--
	}
	return int(next.StartPosition().Row)-endRow <= 1
}

// lineCommentText strips a line comment marker such as "//" or "///".
func lineCommentText(raw, marker string) string {
	raw = strings.TrimSpace(raw)
	return strings.TrimSpace(strings.TrimPrefix(raw, marker))
}

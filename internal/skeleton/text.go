package skeleton

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CompactParams collapses a multi-line parameter list onto a single line.
// Whitespace runs become one space and surrounding commas are dropped;
// nothing else about the parameter text is touched.
func CompactParams(params string) string {
	compact := whitespaceRun.ReplaceAllString(params, " ")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(compact), ","))
}

// ToText renders the skeleton as plain text.
//
// With verbose=false only the first line of each docstring is kept, which
// suits direct embedding. With verbose=true docstrings are kept whole and
// re-indented, which suits LLM prompt context. The module docstring is always
// reduced to its first line.
func (s *CodeSkeleton) ToText(verbose bool) string {
	var lines []string

	lines = append(lines, "# "+s.FileName+" ["+s.Language+"]")

	if s.ModuleDoc != "" {
		lines = append(lines, `module: "`+firstLine(s.ModuleDoc)+`"`)
	}

	if len(s.Imports) > 0 {
		lines = append(lines, "imports: "+strings.Join(s.Imports, ", "))
	}

	lines = append(lines, "")

	for _, cls := range s.Classes {
		header := "class " + cls.Name
		if len(cls.Bases) > 0 {
			header += "(" + strings.Join(cls.Bases, ", ") + ")"
		}
		lines = append(lines, header)
		lines = append(lines, docLines(cls.Docstring, "  ", verbose)...)

		for _, method := range cls.Methods {
			lines = append(lines, "  + "+signatureLine(method))
			lines = append(lines, docLines(method.Docstring, "    ", verbose)...)
		}
		lines = append(lines, "")
	}

	for _, fn := range s.Functions {
		lines = append(lines, "def "+signatureLine(fn))
		lines = append(lines, docLines(fn.Docstring, "  ", verbose)...)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// signatureLine renders "name(params) -> ret" without any prefix.
func signatureLine(fn FunctionSig) string {
	sig := fn.Name + "(" + CompactParams(fn.Params) + ")"
	if fn.ReturnType != "" {
		sig += " -> " + fn.ReturnType
	}
	return sig
}

// docLines renders a docstring block at the given indent.
func docLines(raw, indent string, verbose bool) []string {
	if raw == "" {
		return nil
	}

	first := firstLine(raw)
	if !verbose {
		return []string{indent + `"""` + first + `"""`}
	}

	docs := strings.Split(strings.TrimSpace(raw), "\n")
	if len(docs) == 1 {
		return []string{indent + `"""` + first + `"""`}
	}

	out := make([]string, 0, len(docs)+1)
	out = append(out, indent+`"""`+docs[0])
	for _, line := range docs[1:] {
		out = append(out, indent+strings.TrimSpace(line))
	}
	out = append(out, indent+`"""`)
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

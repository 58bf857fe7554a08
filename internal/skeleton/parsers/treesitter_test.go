package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

// Test Plan for shared tree-sitter helpers:
// - stripDelimiters removes exactly one enclosing pair
// - stripQuotes handles prefixes and longest-first quote matching
// - parseBlockComment strips markers, leading stars, and empty lines
// - lineCommentText strips the marker and surrounding space
// - A parser instance can be reused for many files
// - Every adapter tolerates malformed and empty input

func readFixture(t *testing.T, parts ...string) []byte {
	t.Helper()
	path := filepath.Join(append([]string{"..", "..", "..", "testdata", "code"}, parts...)...)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func findClass(t *testing.T, s *skeleton.CodeSkeleton, name string) skeleton.ClassSkeleton {
	t.Helper()
	for _, cls := range s.Classes {
		if cls.Name == name {
			return cls
		}
	}
	require.Failf(t, "class not found", "no class named %q", name)
	return skeleton.ClassSkeleton{}
}

func findFunction(t *testing.T, fns []skeleton.FunctionSig, name string) skeleton.FunctionSig {
	t.Helper()
	for _, fn := range fns {
		if fn.Name == name {
			return fn
		}
	}
	require.Failf(t, "function not found", "no function named %q", name)
	return skeleton.FunctionSig{}
}

func functionNames(fns []skeleton.FunctionSig) []string {
	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		names = append(names, fn.Name)
	}
	return names
}

func classNames(classes []skeleton.ClassSkeleton) []string {
	names := make([]string, 0, len(classes))
	for _, cls := range classes {
		names = append(names, cls.Name)
	}
	return names
}

func TestStripDelimiters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a, b", stripDelimiters(" (a, b) ", "(", ")"))
	assert.Equal(t, "", stripDelimiters("()", "(", ")"))
	assert.Equal(t, "(a)", stripDelimiters("((a))", "(", ")"))
	assert.Equal(t, "a, b", stripDelimiters("a, b", "(", ")"))
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"triple double", `"""Hello."""`, "Hello."},
		{"triple single", `'''Hello.'''`, "Hello."},
		{"single", `'x'`, "x"},
		{"raw prefix", `r"""\d+ digits"""`, `\d+ digits`},
		{"combined prefix", `Rb'bytes'`, "bytes"},
		{"inner whitespace trimmed", "\"\"\"\n  Doc.\n  \"\"\"", "Doc."},
		{"unterminated left alone", `"abc`, `"abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stripQuotes(tt.in, pythonQuotes...))
		})
	}
}

func TestParseBlockComment(t *testing.T) {
	t.Parallel()

	raw := "/**\n   * First line.\n   *\n   * Second line.\n   */"
	assert.Equal(t, "First line.\nSecond line.", parseBlockComment(raw))
	assert.Equal(t, "Qt style.", parseBlockComment("/*! Qt style. */"))
	assert.Equal(t, "plain", parseBlockComment("/* plain */"))
	assert.Equal(t, "", parseBlockComment("/** */"))
}

func TestLineCommentText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Does X.", lineCommentText("/// Does X.\n", "///"))
	assert.Equal(t, "", lineCommentText("//", "//"))
}

func TestParser_Reusable(t *testing.T) {
	t.Parallel()

	parser, err := NewGoParser()
	require.NoError(t, err)
	defer parser.Close()

	for _, name := range []string{"a", "b", "c"} {
		src := []byte("package p\n\nfunc " + name + "() {}\n")
		result, err := parser.Extract(name+".go", src)
		require.NoError(t, err)
		require.Len(t, result.Functions, 1)
		assert.Equal(t, name, result.Functions[0].Name)
	}
}

func TestParsers_MalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		newFn    func() (Extractor, error)
		source   string
		language string
	}{
		{"python", "bad.py", func() (Extractor, error) { return NewPythonParser() }, "def ok():\n    pass\n\nclass (:\n", "Python"},
		{"go", "bad.go", func() (Extractor, error) { return NewGoParser() }, "package p\nfunc ok() {}\nfunc (", "Go"},
		{"rust", "bad.rs", func() (Extractor, error) { return NewRustParser() }, "fn ok() {}\nimpl {", "Rust"},
		{"javascript", "bad.js", func() (Extractor, error) { return NewJavaScriptParser() }, "function ok() {}\nclass {{{", "JavaScript"},
		{"typescript", "bad.ts", func() (Extractor, error) { return NewTypeScriptParser() }, "function ok(): void {}\ninterface {", "TypeScript"},
		{"java", "Bad.java", func() (Extractor, error) { return NewJavaParser() }, "class Ok { void ok() {} }\nclass {", "Java"},
		{"cpp", "bad.cpp", func() (Extractor, error) { return NewCppParser() }, "int ok() { return 0; }\nclass {", "C/C++"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parser, err := tt.newFn()
			require.NoError(t, err)

			result, err := parser.Extract(tt.file, []byte(tt.source))
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.file, result.FileName)
			assert.Equal(t, tt.language, result.Language)

			// Empty input is a valid, empty skeleton.
			empty, err := parser.Extract(tt.file, nil)
			require.NoError(t, err)
			assert.Empty(t, empty.Classes)
			assert.Empty(t, empty.Functions)
			assert.Empty(t, empty.Imports)
		})
	}
}

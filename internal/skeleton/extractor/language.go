package extractor

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a language adapter.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Java       Language = "java"
	Cpp        Language = "cpp"
	Rust       Language = "rust"
	Go         Language = "go"
)

// extensionLanguages maps lowercase file extensions to languages. C headers
// and C sources share the C/C++ adapter.
var extensionLanguages = map[string]Language{
	".py":   Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".java": Java,
	".c":    Cpp,
	".h":    Cpp,
	".cc":   Cpp,
	".cpp":  Cpp,
	".cxx":  Cpp,
	".hpp":  Cpp,
	".rs":   Rust,
	".go":   Go,
}

// DetectLanguage returns the language for a file name based on its
// extension, compared case-insensitively. Only the file name is consulted.
func DetectLanguage(fileName string) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(fileName))]
	return lang, ok
}

// ParseLanguage validates a language id such as "python".
func ParseLanguage(name string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Languages() {
		if known == lang {
			return lang, true
		}
	}
	return "", false
}

// Languages returns every supported language id in sorted order.
func Languages() []Language {
	seen := make(map[Language]bool)
	var langs []Language
	for _, lang := range extensionLanguages {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Extensions returns the file extensions handled by lang, sorted.
func Extensions(lang Language) []string {
	var exts []string
	for ext, l := range extensionLanguages {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

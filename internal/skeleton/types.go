package skeleton

// FunctionSig is the signature of a function or method as it appears in source.
type FunctionSig struct {
	// Name is empty when the declaration's name could not be recovered.
	Name string

	// Params is the raw parameter text without the enclosing delimiters,
	// e.g. "source, instruction, **kwargs" or "a int, b int".
	Params string

	// ReturnType is empty unless the grammar exposes an explicit return type.
	ReturnType string

	// Docstring is the full documentation text, empty when absent.
	Docstring string
}

// ClassSkeleton describes a class, struct, trait, interface, enum, or
// synthetic "impl <Type>" block.
type ClassSkeleton struct {
	Name      string
	Bases     []string // declaration order, duplicates allowed
	Docstring string
	Methods   []FunctionSig
}

// CodeSkeleton is the structural summary extracted from one source file.
// It is produced by exactly one extraction and is read-only afterwards.
type CodeSkeleton struct {
	FileName  string
	Language  string // display name, e.g. "Python" or "C/C++"
	ModuleDoc string
	Imports   []string
	Classes   []ClassSkeleton
	Functions []FunctionSig // top-level only
}

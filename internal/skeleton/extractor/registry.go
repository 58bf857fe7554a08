package extractor

import (
	"fmt"
	"log"
	"sync"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/parsers"
)

// Constructor builds the adapter for one language.
type Constructor func() (parsers.Extractor, error)

// defaultConstructors wires each language to its tree-sitter adapter.
func defaultConstructors() map[Language]Constructor {
	return map[Language]Constructor{
		Python:     func() (parsers.Extractor, error) { return parsers.NewPythonParser() },
		JavaScript: func() (parsers.Extractor, error) { return parsers.NewJavaScriptParser() },
		TypeScript: func() (parsers.Extractor, error) { return parsers.NewTypeScriptParser() },
		Java:       func() (parsers.Extractor, error) { return parsers.NewJavaParser() },
		Cpp:        func() (parsers.Extractor, error) { return parsers.NewCppParser() },
		Rust:       func() (parsers.Extractor, error) { return parsers.NewRustParser() },
		Go:         func() (parsers.Extractor, error) { return parsers.NewGoParser() },
	}
}

// registryEntry holds the lazily built adapter for one language. Once the
// constructor has run, extractor and err never change.
type registryEntry struct {
	once        sync.Once
	constructor Constructor
	extractor   parsers.Extractor
	err         error
}

// Registry hands out one adapter per language, building each on first use.
//
// Construction happens at most once per language even when many goroutines
// ask at the same time. A failed construction is logged once and remembered,
// so that language behaves as unavailable for the life of the registry.
type Registry struct {
	entries  map[Language]*registryEntry
	disabled map[Language]bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithConstructor replaces the constructor used for lang.
func WithConstructor(lang Language, fn Constructor) RegistryOption {
	return func(r *Registry) {
		r.entries[lang] = &registryEntry{constructor: fn}
	}
}

// WithDisabled turns languages off. Files in a disabled language get no
// skeleton and their adapter is never built.
func WithDisabled(langs ...Language) RegistryOption {
	return func(r *Registry) {
		for _, lang := range langs {
			r.disabled[lang] = true
		}
	}
}

// NewRegistry creates a registry. No adapter is built until it is requested.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries:  make(map[Language]*registryEntry),
		disabled: make(map[Language]bool),
	}
	for lang, fn := range defaultConstructors() {
		r.entries[lang] = &registryEntry{constructor: fn}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether lang has an adapter that has not been disabled.
// It does not build the adapter.
func (r *Registry) Enabled(lang Language) bool {
	_, ok := r.entries[lang]
	return ok && !r.disabled[lang]
}

// Get returns the adapter for lang, building it on first use.
func (r *Registry) Get(lang Language) (parsers.Extractor, error) {
	entry, ok := r.entries[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, lang)
	}
	if r.disabled[lang] {
		return nil, fmt.Errorf("%w: %s is disabled", ErrUnsupported, lang)
	}

	entry.once.Do(func() {
		entry.extractor, entry.err = construct(entry.constructor)
		if entry.err == nil && entry.extractor == nil {
			entry.err = fmt.Errorf("constructor returned no adapter")
		}
		if entry.err != nil {
			entry.extractor = nil
			log.Printf("Warning: %s skeletons unavailable: %v", lang, entry.err)
		}
	})

	if entry.err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, lang, entry.err)
	}
	return entry.extractor, nil
}

// Close releases every adapter that has been built. The registry must not be
// used afterwards.
func (r *Registry) Close() {
	for _, entry := range r.entries {
		// Run the once so a concurrent first Get cannot build after Close.
		entry.once.Do(func() {
			entry.err = fmt.Errorf("registry closed")
		})
		if closer, ok := entry.extractor.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

// construct runs fn and turns a panic into an error.
func construct(fn Constructor) (ext parsers.Extractor, err error) {
	defer func() {
		if r := recover(); r != nil {
			ext, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	return fn()
}

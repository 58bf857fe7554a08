// Package extractor turns source files into compact skeleton text.
//
// An Extractor routes a file to a language adapter by extension and renders
// the result. Callers get either text or a signal that no skeleton exists, in
// which case they fall back to the full file content.
package extractor

import (
	"errors"
	"fmt"
	"log"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton"
)

var (
	// ErrUnsupported means the file's extension has no enabled adapter.
	ErrUnsupported = errors.New("unsupported language")

	// ErrUnavailable means the adapter exists but could not be built.
	ErrUnavailable = errors.New("language adapter unavailable")

	// ErrTooLarge means the content exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
)

// DefaultMaxFileBytes bounds the input handed to a parser.
const DefaultMaxFileBytes = 2 << 20

// Extractor is the entry point for skeleton extraction. It is safe for
// concurrent use.
type Extractor struct {
	registry     *Registry
	maxFileBytes int
	cache        *resultCache
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRegistry uses r instead of a registry with every adapter enabled.
func WithRegistry(r *Registry) Option {
	return func(e *Extractor) {
		e.registry = r
	}
}

// WithMaxFileBytes sets the size limit. Zero or less removes it.
func WithMaxFileBytes(n int) Option {
	return func(e *Extractor) {
		e.maxFileBytes = n
	}
}

// WithCache memoizes rendered results for up to capacity inputs.
func WithCache(capacity int) Option {
	return func(e *Extractor) {
		cache, err := newResultCache(capacity)
		if err != nil {
			log.Printf("Warning: skeleton cache disabled: %v", err)
			return
		}
		e.cache = cache
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{maxFileBytes: DefaultMaxFileBytes}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

// Supports reports whether fileName maps to an enabled language. The
// adapter may still turn out to be unavailable when first used.
func (e *Extractor) Supports(fileName string) bool {
	lang, ok := DetectLanguage(fileName)
	return ok && e.registry.Enabled(lang)
}

// Extract parses content into a skeleton. The error wraps ErrUnsupported,
// ErrUnavailable, or ErrTooLarge when one of those applies. Adapter panics
// are returned as errors.
func (e *Extractor) Extract(fileName string, content []byte) (result *skeleton.CodeSkeleton, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("failed to extract %s: panic: %v", fileName, r)
		}
	}()

	lang, ok := DetectLanguage(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, fileName)
	}
	if e.maxFileBytes > 0 && len(content) > e.maxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, fileName, len(content), e.maxFileBytes)
	}

	adapter, err := e.registry.Get(lang)
	if err != nil {
		return nil, err
	}

	result, err = adapter.Extract(fileName, content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", fileName, err)
	}
	if result == nil {
		return nil, fmt.Errorf("failed to extract %s: adapter returned no skeleton", fileName)
	}
	return result, nil
}

// ExtractSkeleton renders the skeleton of a file. ok is false when no
// skeleton could be produced for any reason; the caller should then use the
// full content instead. verbose keeps complete docstrings.
func (e *Extractor) ExtractSkeleton(fileName string, content []byte, verbose bool) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	var key string
	if e.cache != nil {
		key = cacheKey(fileName, content, verbose)
		if hit, found := e.cache.get(key); found {
			return hit.text, hit.ok
		}
	}

	result, err := e.Extract(fileName, content)
	if err == nil {
		text, ok = result.ToText(verbose), true
	}

	if e.cache != nil {
		e.cache.set(key, cachedResult{text: text, ok: ok})
	}
	return text, ok
}

// Close releases the adapters and the cache.
func (e *Extractor) Close() {
	e.registry.Close()
	if e.cache != nil {
		e.cache.close()
	}
}
